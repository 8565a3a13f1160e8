package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/strategy-profiler/internal/pipeline"
	"github.com/jonathan/strategy-profiler/internal/schemas"
	"github.com/jonathan/strategy-profiler/internal/types"
	"github.com/jonathan/strategy-profiler/internal/validation"
)

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuestionnaire(w http.ResponseWriter, _ *http.Request) {
	sections := s.catalog.Sections()
	total := 0
	for _, sec := range sections {
		total += len(sec.Questions)
	}
	s.jsonResponse(w, http.StatusOK, types.QuestionnaireResponse{
		Sections:       sections,
		TotalSections:  len(sections),
		TotalQuestions: total,
	})
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "index", Message: "must be an integer"})
		return
	}
	section, ok := s.catalog.Section(index)
	if !ok {
		s.writeError(w, &ErrNotFound{Resource: "section", ID: raw})
		return
	}
	total := s.catalog.NumSections()
	s.jsonResponse(w, http.StatusOK, types.SectionResponse{
		Index:       index,
		Total:       total,
		Progress:    float64(index+1) / float64(total),
		HasPrevious: index > 0,
		HasNext:     index < total-1,
		Section:     section,
	})
}

// readDocument reads a request body and checks it against the responses schema.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if !json.Valid(body) {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := schemas.ValidateResponsesDocument(body); err != nil {
		return nil, err
	}
	return body, nil
}

// decodeSubmission turns a request body into a validated email and response
// set. The email comes from the top-level field or the email answer.
func (s *Server) decodeSubmission(w http.ResponseWriter, r *http.Request) (string, types.ResponseSet, error) {
	body, err := s.readDocument(w, r)
	if err != nil {
		return "", nil, err
	}
	var req types.SubmitRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	responses, err := s.catalog.ParseResponses(req.Responses)
	if err != nil {
		return "", nil, err
	}
	if req.Email, err = validation.SubmissionEmail(req.Email, responses); err != nil {
		return "", nil, err
	}
	if err := s.validator.Struct(&req); err != nil {
		return "", nil, err
	}
	return req.Email, responses, nil
}

// rejectReason labels a rejected submission for metrics.
func rejectReason(err error) string {
	var (
		request *validation.RequestError
		email   *validation.EmailError
		schema  *schemas.ValidationError
		shape   *types.AnswerShapeError
	)
	switch {
	case errors.As(err, &request):
		for _, f := range request.Fields {
			switch f.Rule {
			case validation.ContactEmailTag:
				return "invalid_email"
			case validation.EmailMatchRule:
				return "email_mismatch"
			}
		}
		return "invalid_request"
	case errors.As(err, &email):
		return "invalid_email"
	case errors.As(err, &schema):
		return "schema"
	case errors.As(err, &shape):
		return "invalid_answer"
	default:
		return "bad_request"
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	email, responses, err := s.decodeSubmission(w, r)
	if err != nil {
		s.metrics.RecordRejected(rejectReason(err))
		s.writeError(w, err)
		return
	}

	sub, err := s.service.Submit(r.Context(), email, responses)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, sub)
}

// handleSubmitStream submits like handleSubmit but streams pipeline progress via SSE.
func (s *Server) handleSubmitStream(w http.ResponseWriter, r *http.Request) {
	email, responses, err := s.decodeSubmission(w, r)
	if err != nil {
		s.metrics.RecordRejected(rejectReason(err))
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	svc := s.service.WithProgress(func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			s.logger.Warn("error writing SSE event", zap.Error(err))
		}
	})
	sub, err := svc.Submit(r.Context(), email, responses)
	if err != nil {
		sse.WriteError(err)
		return
	}
	if err := sse.WriteEvent("result", sub); err != nil {
		s.logger.Warn("error writing SSE result", zap.Error(err))
	}
	sse.WriteComplete(sub.ResultID, sub.Saved, string(sub.EmailStatus))
}

// handlePreview scores and renders without saving or emailing. The report is
// returned as HTML unless ?format=json is given.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	body, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req types.PreviewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, &ErrValidation{Field: "responses", Message: "is required"})
		return
	}
	responses, err := s.catalog.ParseResponses(req.Responses)
	if err != nil {
		s.writeError(w, err)
		return
	}

	report, err := s.service.Evaluator().Evaluate(responses)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to evaluate preview: %w", err))
		return
	}

	if r.URL.Query().Get("format") == "json" {
		s.jsonResponse(w, http.StatusOK, report)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, report.HTML); err != nil {
		s.logger.Warn("error writing preview", zap.Error(err))
	}
}
