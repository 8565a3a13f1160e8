package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/strategy-profiler/internal/admin"
	"github.com/jonathan/strategy-profiler/internal/db"
	"github.com/jonathan/strategy-profiler/internal/types"
)

// exportLimit bounds the rows loaded for the CSV export and stats.
const exportLimit = 100000

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.admin == nil || s.jwtService == nil {
		s.writeError(w, &ErrUnavailable{Feature: "admin access"})
		return
	}

	var req types.AdminLoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, &ErrValidation{Field: "password", Message: "is required"})
		return
	}
	if !s.admin.Verify(req.Password) {
		s.logger.Warn("admin login rejected", zap.String("remote_addr", r.RemoteAddr))
		s.writeError(w, &ErrInvalidCredentials{})
		return
	}

	token, ttl, err := s.jwtService.GenerateToken()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.AdminLoginResponse{
		Token:     token,
		ExpiresIn: int(ttl.Seconds()),
	})
}

// resultStore returns the store or writes 503 when none is configured.
func (s *Server) resultStore(w http.ResponseWriter) (db.Store, bool) {
	if s.store == nil {
		s.writeError(w, &ErrUnavailable{Feature: "results store"})
		return nil, false
	}
	return s.store, true
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	store, ok := s.resultStore(w)
	if !ok {
		return
	}

	filters := db.ResultFilters{Email: r.URL.Query().Get("email")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		filters.Limit = limit
	}

	results, err := store.ListAssessmentResults(r.Context(), filters)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to list results: %w", err))
		return
	}
	if results == nil {
		results = []db.AssessmentResult{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	store, ok := s.resultStore(w)
	if !ok {
		return
	}

	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}
	result, err := store.GetAssessmentResult(r.Context(), id)
	if err != nil {
		s.writeError(w, fmt.Errorf("failed to get result: %w", err))
		return
	}
	if result == nil {
		s.writeError(w, &ErrNotFound{Resource: "result", ID: raw})
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) allResults(r *http.Request) ([]db.AssessmentResult, error) {
	results, err := s.store.ListAssessmentResults(r.Context(), db.ResultFilters{Limit: exportLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	return results, nil
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.resultStore(w); !ok {
		return
	}
	results, err := s.allResults(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", admin.ExportFilename))
	w.WriteHeader(http.StatusOK)
	if err := admin.WriteCSV(w, results); err != nil {
		s.logger.Error("error writing CSV export", zap.Error(err))
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.resultStore(w); !ok {
		return
	}
	results, err := s.allResults(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, admin.Summarize(results, s.now()))
}
