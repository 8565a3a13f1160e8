package pipeline

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/strategy-profiler/internal/db"
	"github.com/jonathan/strategy-profiler/internal/mailer"
	"github.com/jonathan/strategy-profiler/internal/observability"
	"github.com/jonathan/strategy-profiler/internal/types"
	"github.com/jonathan/strategy-profiler/internal/validation"
)

// Step names reported through ProgressEvent.
const (
	StepValidate = "validate"
	StepEvaluate = "evaluate"
	StepPersist  = "persist"
	StepEmail    = "email"
)

// ProgressEvent represents a progress update during a submission
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when submission progress occurs. It may be
// called from more than one goroutine.
type ProgressCallback func(event ProgressEvent)

// ResultSaver persists assessment results.
type ResultSaver interface {
	SaveAssessmentResult(ctx context.Context, result *db.AssessmentResult) (*db.AssessmentResult, error)
}

// Deliverer sends the results email.
type Deliverer interface {
	Deliver(ctx context.Context, d mailer.Delivery) (mailer.Receipt, error)
}

// ServiceOptions holds the collaborators of a Service. Store and Mailer may be nil.
type ServiceOptions struct {
	Store      ResultSaver
	Mailer     Deliverer
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	OnProgress ProgressCallback
}

// Submission is the outcome of Submit.
type Submission struct {
	Email       string        `json:"email"`
	ResultID    string        `json:"result_id,omitempty"`
	Saved       bool          `json:"saved"`
	EmailStatus mailer.Status `json:"email_status"`
	*Report
}

// Service validates, evaluates and delivers submissions.
type Service struct {
	evaluator  *Evaluator
	store      ResultSaver
	mailer     Deliverer
	logger     *zap.Logger
	metrics    *observability.Metrics
	onProgress ProgressCallback
}

// NewService creates a Service around an Evaluator.
func NewService(evaluator *Evaluator, opts ServiceOptions) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		evaluator:  evaluator,
		store:      opts.Store,
		mailer:     opts.Mailer,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		onProgress: opts.OnProgress,
	}
}

// Evaluator returns the underlying evaluator.
func (s *Service) Evaluator() *Evaluator {
	return s.evaluator
}

// WithProgress returns a copy of s that reports to cb instead.
func (s *Service) WithProgress(cb ProgressCallback) *Service {
	c := *s
	c.onProgress = cb
	return &c
}

func (s *Service) emit(step, message string, content any) {
	if s.onProgress != nil {
		s.onProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Submit rejects an invalid email before anything runs, then evaluates and
// saves and emails the result concurrently. Save and email failures are
// reported on the Submission, never as an error.
func (s *Service) Submit(ctx context.Context, email string, responses types.ResponseSet) (*Submission, error) {
	address, err := validation.ValidateEmail(email)
	if err != nil {
		s.metrics.RecordRejected("invalid_email")
		return nil, err
	}
	s.emit(StepValidate, "email accepted", nil)

	report, err := s.evaluator.Evaluate(responses)
	if err != nil {
		return nil, err
	}
	s.emit(StepEvaluate, "assessment scored", report.Score)

	sub := &Submission{Email: address, Report: report, EmailStatus: mailer.StatusSkipped}

	g, gCtx := errgroup.WithContext(ctx)

	// Persist branch
	g.Go(func() error {
		id, ok := s.persist(gCtx, address, report, responses)
		sub.ResultID, sub.Saved = id, ok
		s.emit(StepPersist, "persistence finished", ok)
		return nil
	})

	// Email branch
	g.Go(func() error {
		sub.EmailStatus = s.deliver(gCtx, address, report)
		s.emit(StepEmail, "email finished", sub.EmailStatus)
		return nil
	})

	_ = g.Wait()
	return sub, nil
}

func (s *Service) persist(ctx context.Context, email string, report *Report, responses types.ResponseSet) (string, bool) {
	if s.store == nil {
		s.logger.Warn("no results store configured, result not saved")
		return "", false
	}
	record, err := db.NewAssessmentResult(email, report.Score, responses)
	if err != nil {
		s.metrics.RecordPersistenceFailure()
		s.logger.Error("failed to build assessment record", zap.Error(err))
		return "", false
	}
	saved, err := s.store.SaveAssessmentResult(ctx, record)
	if err != nil {
		s.metrics.RecordPersistenceFailure()
		s.logger.Error("error saving to database", zap.Error(err))
		return "", false
	}
	return saved.ID.String(), true
}

func (s *Service) deliver(ctx context.Context, email string, report *Report) mailer.Status {
	if s.mailer == nil {
		s.metrics.RecordEmail(string(mailer.StatusSkipped))
		return mailer.StatusSkipped
	}
	receipt, err := s.mailer.Deliver(ctx, mailer.Delivery{
		Recipient: email,
		HTML:      report.HTML,
		Text:      report.Text,
		Scores:    report.Score,
	})
	if err != nil {
		s.logger.Error("results email failed", zap.String("recipient", email), zap.Error(err))
	}
	s.metrics.RecordEmail(string(receipt.Status))
	return receipt.Status
}
