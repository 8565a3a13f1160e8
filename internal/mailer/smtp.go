package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
)

// Transport sends an encoded message.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPTransport sends over SMTP with STARTTLS and PLAIN auth.
type SMTPTransport struct {
	cfg       Config
	tlsConfig *tls.Config
}

// NewSMTPTransport creates a transport for cfg. A nil tlsConfig verifies
// the server certificate against cfg.Server.
func NewSMTPTransport(cfg Config, tlsConfig *tls.Config) *SMTPTransport {
	cfg = cfg.normalize()
	if tlsConfig == nil {
		tlsConfig = &tls.Config{ServerName: cfg.Server, MinVersion: tls.VersionTLS12}
	}
	return &SMTPTransport{cfg: cfg, tlsConfig: tlsConfig}
}

// Send dials the server, upgrades to TLS, authenticates and submits msg.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(t.cfg.Server, strconv.Itoa(t.cfg.Port))
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, t.cfg.Server)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.StartTLS(t.tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Server)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("MAIL FROM rejected: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("RCPT TO rejected: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA rejected: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("message rejected: %w", err)
	}
	return client.Quit()
}
