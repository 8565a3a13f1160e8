package server

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/strategy-profiler/internal/admin"
	"github.com/jonathan/strategy-profiler/internal/catalog"
	"github.com/jonathan/strategy-profiler/internal/config"
	"github.com/jonathan/strategy-profiler/internal/db"
	"github.com/jonathan/strategy-profiler/internal/mailer"
	"github.com/jonathan/strategy-profiler/internal/observability"
	"github.com/jonathan/strategy-profiler/internal/pipeline"
	"github.com/jonathan/strategy-profiler/internal/rendering"
	"github.com/jonathan/strategy-profiler/internal/server/ratelimit"
	"github.com/jonathan/strategy-profiler/internal/types"
)

const testAdminPassword = "open-sesame"

type testEnv struct {
	server  *Server
	handler http.Handler
	store   *db.SQLiteStore
	metrics *observability.Metrics
}

type envOption func(*Options)

func setupServer(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	store, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	cat := catalog.New()
	ref := catalog.DefaultReference()
	renderer, err := rendering.NewRenderer(ref, cat)
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	evaluator := pipeline.NewEvaluator(cat, ref, renderer, pipeline.EvaluatorOptions{Metrics: metrics})
	service := pipeline.NewService(evaluator, pipeline.ServiceOptions{
		Store:   store,
		Mailer:  mailer.New(mailer.Config{BackupDir: t.TempDir()}),
		Metrics: metrics,
	})

	jwtCfg, err := config.NewJWTConfig("test-secret", 1)
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Auth.AdminPassword = testAdminPassword
	adminCfg, err := cfg.Admin()
	require.NoError(t, err)

	options := Options{
		Catalog:   cat,
		Service:   service,
		Store:     store,
		RateLimit: ratelimit.Config{Enabled: false},
		JWT:       jwtCfg,
		Admin:     adminCfg,
		Metrics:   metrics,
	}
	for _, opt := range opts {
		opt(&options)
	}

	srv, err := New(options)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, handler: srv.Handler(), store: store, metrics: metrics}
}

func (e *testEnv) do(t *testing.T, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/admin/login", fmt.Sprintf(`{"password":%q}`, testAdminPassword))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp types.AdminLoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

// submissionBody answers every strategy question with the option at index pick.
func submissionBody(t *testing.T, email string, pick int) string {
	t.Helper()
	responses := map[string]any{"age": "35-44", "divorce_stage": "Separated"}
	for _, q := range catalog.New().StrategyQuestions() {
		responses[q.ID] = q.Options[pick]
	}
	body, err := json.Marshal(map[string]any{"email": email, "responses": responses})
	require.NoError(t, err)
	return string(body)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestNew_RequiresCoreCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	env := setupServer(t)
	w := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestQuestionnaire(t *testing.T) {
	env := setupServer(t)
	w := env.do(t, http.MethodGet, "/questionnaire", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.QuestionnaireResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalSections)
	assert.Equal(t, 11, resp.TotalQuestions)
	assert.Equal(t, "Divorce Strategy Profiler", resp.Sections[0].Title)
}

func TestSection(t *testing.T) {
	env := setupServer(t)

	tests := []struct {
		path       string
		wantStatus int
		wantIndex  int
		progress   float64
		hasNext    bool
	}{
		{path: "/questionnaire/sections/0", wantStatus: http.StatusOK, wantIndex: 0, progress: 0.5, hasNext: true},
		{path: "/questionnaire/sections/1", wantStatus: http.StatusOK, wantIndex: 1, progress: 1, hasNext: false},
		{path: "/questionnaire/sections/2", wantStatus: http.StatusNotFound},
		{path: "/questionnaire/sections/-1", wantStatus: http.StatusNotFound},
		{path: "/questionnaire/sections/first", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := env.do(t, http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp types.SectionResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantIndex, resp.Index)
			assert.Equal(t, 2, resp.Total)
			assert.InDelta(t, tt.progress, resp.Progress, 1e-9)
			assert.Equal(t, tt.hasNext, resp.HasNext)
			assert.Equal(t, tt.wantIndex > 0, resp.HasPrevious)
		})
	}
}

func TestSubmit(t *testing.T) {
	env := setupServer(t)

	w := env.do(t, http.MethodPost, "/assessments", submissionBody(t, " person@example.com ", 2))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sub struct {
		Email       string            `json:"email"`
		ResultID    string            `json:"result_id"`
		Saved       bool              `json:"saved"`
		EmailStatus string            `json:"email_status"`
		Score       types.ScoreResult `json:"score"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, "person@example.com", sub.Email)
	assert.True(t, sub.Saved)
	assert.Equal(t, string(mailer.StatusSkipped), sub.EmailStatus)
	assert.Equal(t, types.StrategyChallenger, sub.Score.DominantStrategy)
	assert.Equal(t, 100, sub.Score.Overall)
	assert.NotContains(t, w.Body.String(), "<html", "report HTML is not part of the JSON")

	results, err := env.store.ListAssessmentResults(context.Background(), db.ResultFilters{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, sub.ResultID, results[0].ID.String())
	assert.Equal(t, "Separated", results[0].DivorceStage)
}

func TestSubmit_Rejections(t *testing.T) {
	env := setupServer(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "invalid json", body: `{"email":`, wantErr: "invalid JSON"},
		{name: "missing responses", body: `{"email":"a@b.com"}`, wantErr: "schema"},
		{name: "empty responses", body: `{"email":"a@b.com","responses":{}}`, wantErr: "schema"},
		{name: "unknown field", body: `{"email":"a@b.com","responses":{"q":"x"},"extra":1}`, wantErr: "schema"},
		{name: "invalid email", body: `{"email":"nodomain","responses":{"question_1":"x"}}`, wantErr: "validation error"},
		{name: "missing email", body: `{"responses":{"question_1":"x"}}`, wantErr: "validation error"},
		{name: "wrong answer shape", body: `{"email":"a@b.com","responses":{"question_1":["a","b"]}}`, wantErr: "question_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/assessments", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.wantErr)
		})
	}

	results, err := env.store.ListAssessmentResults(context.Background(), db.ResultFilters{})
	require.NoError(t, err)
	assert.Empty(t, results, "rejected submissions are never stored")
}

func TestSubmit_EmailFromResponses(t *testing.T) {
	env := setupServer(t)

	body := `{"responses":{"email":"user@example.com","question_1":"Accept quickly just to move on."}}`
	w := env.do(t, http.MethodPost, "/assessments", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "user@example.com", decode(t, w)["email"])

	// The same address in both places is accepted.
	body = `{"email":"USER@example.com","responses":{"email":"user@example.com","question_1":"Accept quickly just to move on."}}`
	w = env.do(t, http.MethodPost, "/assessments", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	results, err := env.store.ListAssessmentResults(context.Background(), db.ResultFilters{Email: "user@example.com"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSubmit_EmailMismatch(t *testing.T) {
	env := setupServer(t)

	body := `{"email":"one@example.com","responses":{"email":"two@example.com","question_1":"Accept quickly just to move on."}}`
	w := env.do(t, http.MethodPost, "/assessments", body)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	details, ok := decode(t, w)["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "email_match", details[0].(map[string]any)["rule"])

	results, err := env.store.ListAssessmentResults(context.Background(), db.ResultFilters{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSubmit_InvalidEmailDetails(t *testing.T) {
	env := setupServer(t)
	w := env.do(t, http.MethodPost, "/assessments", submissionBody(t, "not-an-email", 0))
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	details, ok := body["details"].([]any)
	require.True(t, ok, body)
	require.Len(t, details, 1)
	field := details[0].(map[string]any)
	assert.Equal(t, "email", field["field"])
	assert.Equal(t, "please enter a valid email address", field["message"])
}

func TestSubmitStream(t *testing.T) {
	env := setupServer(t)
	srv := httptest.NewServer(env.handler)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/assessments/stream", "application/json",
		strings.NewReader(submissionBody(t, "a@b.com", 1)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var events []string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
			events = append(events, name)
		}
	}
	require.NoError(t, scanner.Err())

	require.Len(t, events, 6)
	assert.Equal(t, []string{"step", "step", "step", "step", "result", "complete"}, events)
}

func TestPreview_Rejections(t *testing.T) {
	env := setupServer(t)

	w := env.do(t, http.MethodPost, "/assessments/preview", `{"responses":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodPost, "/assessments/preview", `{"responses":{"question_2":{"main":"x"}}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "question_2")
}

func TestPreview(t *testing.T) {
	env := setupServer(t)

	body := `{"responses":{"question_1":"Accept quickly just to move on."}}`
	w := env.do(t, http.MethodPost, "/assessments/preview", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<!DOCTYPE html>"))
	assert.Contains(t, w.Body.String(), "The People")

	w = env.do(t, http.MethodPost, "/assessments/preview?format=json", body)
	require.Equal(t, http.StatusOK, w.Code)
	var report pipeline.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, types.StrategyPeoplePleaser, report.Score.DominantStrategy)
	assert.Equal(t, 10, report.Score.Overall)

	results, err := env.store.ListAssessmentResults(context.Background(), db.ResultFilters{})
	require.NoError(t, err)
	assert.Empty(t, results, "previews are not stored")
}

func TestAdminLogin(t *testing.T) {
	env := setupServer(t)

	token := env.login(t)
	assert.NotEmpty(t, token)

	w := env.do(t, http.MethodPost, "/admin/login", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/admin/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/admin/login", `nope`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_Disabled(t *testing.T) {
	env := setupServer(t, func(o *Options) {
		o.JWT = nil
		o.Admin = nil
	})

	w := env.do(t, http.MethodPost, "/admin/login", `{"password":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w = env.do(t, http.MethodGet, "/admin/results", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdmin_RequiresToken(t *testing.T) {
	env := setupServer(t)

	for _, path := range []string{"/admin/results", "/admin/stats", "/admin/export.csv", "/admin/results/" + "00000000-0000-0000-0000-000000000000"} {
		w := env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)

		w = env.do(t, http.MethodGet, path, "", "Authorization", "Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAdmin_Results(t *testing.T) {
	env := setupServer(t)
	for i, email := range []string{"a@example.com", "b@example.com", "a@example.com"} {
		w := env.do(t, http.MethodPost, "/assessments", submissionBody(t, email, i))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	auth := []string{"Authorization", "Bearer " + env.login(t)}

	w := env.do(t, http.MethodGet, "/admin/results", "", auth...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode(t, w)["count"])

	w = env.do(t, http.MethodGet, "/admin/results?email=a@example.com&limit=1", "", auth...)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Results []db.AssessmentResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Results, 1)
	assert.Equal(t, types.StrategyChallenger, list.Results[0].DominantStrategy, "newest first")

	w = env.do(t, http.MethodGet, "/admin/results?limit=0", "", auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := list.Results[0].ID.String()
	w = env.do(t, http.MethodGet, "/admin/results/"+id, "", auth...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["id"])

	w = env.do(t, http.MethodGet, "/admin/results/00000000-0000-0000-0000-000000000000", "", auth...)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodGet, "/admin/results/xyz", "", auth...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_ExportAndStats(t *testing.T) {
	env := setupServer(t)
	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/assessments", submissionBody(t, "a@example.com", 3))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	auth := []string{"Authorization", "Bearer " + env.login(t)}

	w := env.do(t, http.MethodGet, "/admin/export.csv", "", auth...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), admin.ExportFilename)
	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, admin.CSVHeader, rows[0])

	w = env.do(t, http.MethodGet, "/admin/stats", "", auth...)
	require.Equal(t, http.StatusOK, w.Code)
	var stats admin.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.RecentSubmissions)
	assert.InDelta(t, 100.0, stats.AverageOverall, 1e-9)
	assert.Equal(t, 2, stats.DominantCounts[types.StrategyTerminator])
}

func TestAdmin_NoStore(t *testing.T) {
	env := setupServer(t, func(o *Options) { o.Store = nil })
	auth := []string{"Authorization", "Bearer " + env.login(t)}

	w := env.do(t, http.MethodGet, "/admin/results", "", auth...)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimit(t *testing.T) {
	env := setupServer(t, func(o *Options) {
		o.RateLimit = ratelimit.Config{
			Enabled: true,
			Endpoints: []ratelimit.EndpointConfig{
				{Path: "/admin/login", Method: http.MethodPost, Limit: 2, Window: time.Hour},
			},
		}
	})

	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodPost, "/admin/login", `{"password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}
	w := env.do(t, http.MethodPost, "/admin/login", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode(t, w)["error"])

	w = env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code, "other routes are unaffected")
}

func TestCORS(t *testing.T) {
	env := setupServer(t, func(o *Options) { o.AllowedOrigins = []string{"https://app.example.com"} })

	w := env.do(t, http.MethodOptions, "/assessments", "", "Origin", "https://app.example.com")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = env.do(t, http.MethodGet, "/health", "", "Origin", "https://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupServer(t)
	env.do(t, http.MethodPost, "/assessments", submissionBody(t, "a@b.com", 0))
	env.do(t, http.MethodPost, "/assessments", submissionBody(t, "bad", 0))

	w := env.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `profiler_assessments_evaluated_total{dominant="G"} 1`)
	assert.Contains(t, body, `profiler_submissions_rejected_total{reason="invalid_email"} 1`)
	assert.Contains(t, body, `route="POST /assessments"`)
}
