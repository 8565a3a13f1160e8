package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonathan/strategy-profiler/internal/catalog"
	"github.com/jonathan/strategy-profiler/internal/db"
	"github.com/jonathan/strategy-profiler/internal/mailer"
	"github.com/jonathan/strategy-profiler/internal/observability"
	"github.com/jonathan/strategy-profiler/internal/rendering"
	"github.com/jonathan/strategy-profiler/internal/types"
	"github.com/jonathan/strategy-profiler/internal/validation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memoryStore struct {
	mu    sync.Mutex
	saved []*db.AssessmentResult
	err   error
}

func (s *memoryStore) SaveAssessmentResult(_ context.Context, r *db.AssessmentResult) (*db.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := *r
	out.ID = uuid.New()
	s.saved = append(s.saved, &out)
	return &out, nil
}

type fakeMailer struct {
	mu         sync.Mutex
	deliveries []mailer.Delivery
	status     mailer.Status
	err        error
}

func (f *fakeMailer) Deliver(_ context.Context, d mailer.Delivery) (mailer.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = append(f.deliveries, d)
	return mailer.Receipt{Status: f.status}, f.err
}

func newEvaluator(t *testing.T, metrics *observability.Metrics) *Evaluator {
	t.Helper()
	cat := catalog.New()
	ref := catalog.DefaultReference()
	renderer, err := rendering.NewRenderer(ref, cat, rendering.WithClock(func() time.Time {
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	return NewEvaluator(cat, ref, renderer, EvaluatorOptions{Metrics: metrics})
}

// responsesPicking answers every strategy question with the option at index pick.
func responsesPicking(pick int) types.ResponseSet {
	rs := types.ResponseSet{
		"age":           types.TextAnswer{Text: "35-44"},
		"divorce_stage": types.TextAnswer{Text: "Separated"},
	}
	for _, q := range catalog.New().StrategyQuestions() {
		rs[q.ID] = types.ChoiceAnswer{Option: q.Options[pick]}
	}
	return rs
}

func TestEvaluate(t *testing.T) {
	report, err := newEvaluator(t, nil).Evaluate(responsesPicking(1))
	require.NoError(t, err)

	assert.Equal(t, types.StrategyDiplomat, report.Score.DominantStrategy)
	assert.Equal(t, 100, report.Score.Overall)
	assert.Contains(t, report.Feedback.Strategy, "The Diplomat")
	assert.NotEmpty(t, report.Suggestions.General)
	assert.Contains(t, report.HTML, "<html")
	assert.Contains(t, report.Text, "The Diplomat")
}

func TestEvaluate_EmptyResponses(t *testing.T) {
	report, err := newEvaluator(t, nil).Evaluate(types.ResponseSet{})
	require.NoError(t, err)

	assert.Equal(t, types.StrategyDiplomat, report.Score.DominantStrategy)
	assert.Equal(t, 0, report.Score.Overall)
	assert.True(t, report.Score.HasTie)
}

func TestSubmit_InvalidEmailRejectedBeforeCore(t *testing.T) {
	store := &memoryStore{}
	mail := &fakeMailer{status: mailer.StatusSent}
	svc := NewService(newEvaluator(t, nil), ServiceOptions{Store: store, Mailer: mail})

	for _, email := range []string{"", "   ", "nodomain", "no-at.example.com"} {
		sub, err := svc.Submit(context.Background(), email, responsesPicking(0))
		assert.Nil(t, sub)
		var emailErr *validation.EmailError
		assert.ErrorAs(t, err, &emailErr, email)
	}
	assert.Empty(t, store.saved)
	assert.Empty(t, mail.deliveries)
}

func TestSubmit_SavesAndEmails(t *testing.T) {
	store := &memoryStore{}
	mail := &fakeMailer{status: mailer.StatusSent}
	var (
		mu    sync.Mutex
		steps []string
	)
	svc := NewService(newEvaluator(t, nil), ServiceOptions{
		Store:  store,
		Mailer: mail,
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			steps = append(steps, e.Step)
		},
	})

	sub, err := svc.Submit(context.Background(), "  person@example.com ", responsesPicking(3))
	require.NoError(t, err)

	assert.Equal(t, "person@example.com", sub.Email)
	assert.True(t, sub.Saved)
	assert.NotEmpty(t, sub.ResultID)
	assert.Equal(t, mailer.StatusSent, sub.EmailStatus)
	assert.Equal(t, types.StrategyTerminator, sub.Score.DominantStrategy)

	require.Len(t, store.saved, 1)
	rec := store.saved[0]
	assert.Equal(t, "person@example.com", rec.Email)
	assert.Equal(t, "35-44", rec.Age)
	assert.Equal(t, "Separated", rec.DivorceStage)
	assert.Equal(t, 100.0, rec.OverallScore)
	assert.Equal(t, types.StrategyTerminator, rec.DominantStrategy)
	assert.Zero(t, rec.LegalScore)

	require.Len(t, mail.deliveries, 1)
	d := mail.deliveries[0]
	assert.Equal(t, "person@example.com", d.Recipient)
	assert.Equal(t, sub.HTML, d.HTML)
	assert.Equal(t, sub.Text, d.Text)
	assert.Equal(t, sub.Score, d.Scores)

	assert.ElementsMatch(t, []string{StepValidate, StepEvaluate, StepPersist, StepEmail}, steps)
	assert.Equal(t, []string{StepValidate, StepEvaluate}, steps[:2])
}

func TestSubmit_FailuresAreNotFatal(t *testing.T) {
	metrics := observability.NewMetrics()
	store := &memoryStore{err: errors.New("db down")}
	mail := &fakeMailer{status: mailer.StatusFailed, err: errors.New("smtp down")}
	svc := NewService(newEvaluator(t, metrics), ServiceOptions{Store: store, Mailer: mail, Metrics: metrics})

	sub, err := svc.Submit(context.Background(), "a@b.com", responsesPicking(2))
	require.NoError(t, err)

	assert.False(t, sub.Saved)
	assert.Empty(t, sub.ResultID)
	assert.Equal(t, mailer.StatusFailed, sub.EmailStatus)
	assert.Equal(t, types.StrategyChallenger, sub.Score.DominantStrategy)
}

func TestSubmit_NoCollaborators(t *testing.T) {
	svc := NewService(newEvaluator(t, nil), ServiceOptions{})

	sub, err := svc.Submit(context.Background(), "a@b.com", responsesPicking(0))
	require.NoError(t, err)
	assert.False(t, sub.Saved)
	assert.Equal(t, mailer.StatusSkipped, sub.EmailStatus)
}

func TestSubmit_WithSQLiteStore(t *testing.T) {
	store, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.EnsureSchema(context.Background()))

	svc := NewService(newEvaluator(t, nil), ServiceOptions{Store: store})
	sub, err := svc.Submit(context.Background(), "a@b.com", responsesPicking(0))
	require.NoError(t, err)
	require.True(t, sub.Saved)

	got, err := store.GetAssessmentResult(context.Background(), uuid.MustParse(sub.ResultID))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.StrategyPeoplePleaser, got.DominantStrategy)
	assert.Equal(t, 100.0, got.OverallScore)
}

func TestWithProgress_LeavesOriginalUntouched(t *testing.T) {
	var base, scoped int
	var mu sync.Mutex
	svc := NewService(newEvaluator(t, nil), ServiceOptions{
		OnProgress: func(ProgressEvent) { mu.Lock(); base++; mu.Unlock() },
	})
	streaming := svc.WithProgress(func(ProgressEvent) { mu.Lock(); scoped++; mu.Unlock() })

	_, err := streaming.Submit(context.Background(), "a@b.com", responsesPicking(0))
	require.NoError(t, err)
	assert.Equal(t, 0, base)
	assert.Equal(t, 4, scoped)

	_, err = svc.Submit(context.Background(), "a@b.com", responsesPicking(0))
	require.NoError(t, err)
	assert.Equal(t, 4, base)
}
