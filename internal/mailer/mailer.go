package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Status is the outcome of a delivery attempt.
type Status string

// Delivery statuses.
const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

const backupTimestamp = "20060102_150405"

// Delivery is one results email.
type Delivery struct {
	Recipient string
	HTML      string
	Text      string
	// Scores is written to the JSON backup.
	Scores any
}

// Receipt describes what happened to a delivery.
type Receipt struct {
	Status       Status `json:"status"`
	HTMLBackup   string `json:"html_backup,omitempty"`
	ScoresBackup string `json:"scores_backup,omitempty"`
}

// Mailer writes backups and sends results emails.
type Mailer struct {
	cfg       Config
	transport Transport
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithTransport replaces the SMTP transport.
func WithTransport(t Transport) Option {
	return func(m *Mailer) { m.transport = t }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock sets the time source used for backup names and the Date header.
func WithClock(now func() time.Time) Option {
	return func(m *Mailer) { m.now = now }
}

// New creates a Mailer. Without WithTransport it sends over SMTP using cfg.
func New(cfg Config, opts ...Option) *Mailer {
	m := &Mailer{
		cfg:    cfg.normalize(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.transport == nil {
		m.transport = NewSMTPTransport(m.cfg, nil)
	}
	return m
}

// Deliver backs up the report and then sends it if SMTP is configured.
// Backup failures are logged only. A send failure returns StatusFailed
// together with a *DeliveryError.
func (m *Mailer) Deliver(ctx context.Context, d Delivery) (Receipt, error) {
	now := m.now()
	receipt := m.backup(d, now)

	if !m.cfg.Configured() {
		m.logger.Warn("missing email configuration, cannot send email")
		m.logger.Info("would send assessment results", zap.String("recipient", d.Recipient))
		receipt.Status = StatusSkipped
		return receipt, nil
	}

	m.logger.Info("sending results email",
		zap.String("recipient", d.Recipient),
		zap.String("server", m.cfg.Server),
		zap.Int("port", m.cfg.Port))

	msg := &Message{
		From:    m.cfg.Sender,
		To:      d.Recipient,
		Subject: Subject,
		Text:    d.Text,
		HTML:    d.HTML,
		Date:    now,
	}
	if err := m.transport.Send(ctx, msg); err != nil {
		m.logger.Error("failed to send email", zap.String("recipient", d.Recipient), zap.Error(err))
		receipt.Status = StatusFailed
		return receipt, &DeliveryError{Recipient: d.Recipient, Message: "smtp send failed", Cause: err}
	}

	m.logger.Info("email sent", zap.String("recipient", d.Recipient))
	receipt.Status = StatusSent
	return receipt, nil
}

func (m *Mailer) backup(d Delivery, now time.Time) Receipt {
	var receipt Receipt
	if err := os.MkdirAll(m.cfg.BackupDir, 0o755); err != nil {
		m.logger.Error("could not create email backup directory", zap.String("dir", m.cfg.BackupDir), zap.Error(err))
		return receipt
	}

	stamp := now.Format(backupTimestamp)
	safe := SafeName(d.Recipient)

	htmlPath := filepath.Join(m.cfg.BackupDir, fmt.Sprintf("email_%s_%s.html", safe, stamp))
	if err := os.WriteFile(htmlPath, []byte(d.HTML), 0o644); err != nil {
		m.logger.Error("could not save email content to file", zap.String("path", htmlPath), zap.Error(err))
	} else {
		receipt.HTMLBackup = htmlPath
		m.logger.Info("email content saved to file", zap.String("path", htmlPath))
	}

	scores, err := json.MarshalIndent(d.Scores, "", "    ")
	if err != nil {
		m.logger.Error("could not encode scores backup", zap.Error(err))
		return receipt
	}
	scoresPath := filepath.Join(m.cfg.BackupDir, fmt.Sprintf("scores_%s_%s.json", safe, stamp))
	if err := os.WriteFile(scoresPath, scores, 0o644); err != nil {
		m.logger.Error("could not save scores to file", zap.String("path", scoresPath), zap.Error(err))
	} else {
		receipt.ScoresBackup = scoresPath
		m.logger.Info("scores saved to file", zap.String("path", scoresPath))
	}
	return receipt
}

// SafeName turns an address into a file name fragment: "@" becomes "_at_",
// "." becomes "_dot_" and path separators become "_".
func SafeName(email string) string {
	r := strings.NewReplacer("@", "_at_", ".", "_dot_", "/", "_", `\`, "_")
	return r.Replace(email)
}
