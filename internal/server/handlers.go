package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/copydesk/internal/db"
	"github.com/jonathan/copydesk/internal/fields"
	"github.com/jonathan/copydesk/internal/pipeline"
	"github.com/jonathan/copydesk/internal/server/middleware"
	"github.com/jonathan/copydesk/internal/types"
)

// requestValidator validates decoded request bodies.
type requestValidator = *validator.Validate

func newRequestValidator() requestValidator {
	return validator.New(validator.WithRequiredStructEnabled())
}

// middlewareAuth wraps the shared auth middleware around the server's JWT service.
func middlewareAuth(jwtService *JWTService) func(http.Handler) http.Handler {
	return middleware.AuthMiddleware(jwtService.AsTokenValidator())
}

// generateRequest is the request body for POST /generate.
// MaxIterations is a pointer so an omitted field (nil, use the default) stays
// distinguishable from an explicit 0 (evaluate only, no repair calls).
type generateRequest struct {
	Field         string                     `json:"field" validate:"required"`
	Brief         string                     `json:"brief" validate:"required"`
	Settings      map[string]any             `json:"settings,omitempty"`
	Constraints   *types.ConstraintOverrides `json:"constraints,omitempty"`
	Variants      int                        `json:"variants,omitempty" validate:"omitempty,min=1,max=10"`
	MaxIterations *int                       `json:"max_iterations,omitempty" validate:"omitempty,min=0,max=5"`
	Parallelism   int                        `json:"parallelism,omitempty" validate:"omitempty,min=1,max=10"`
	GroundingK    int                        `json:"grounding_k,omitempty" validate:"omitempty,min=1,max=10"`
}

// decodeGenerateRequest parses and validates a generation request body.
func (s *Server) decodeGenerateRequest(r *http.Request) (*generateRequest, error) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &ErrValidation{Field: verrs[0].Field(), Message: verrs[0].Tag()}
		}
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if _, err := fields.ParseFieldSpec(req.Field); err != nil {
		return nil, &ErrValidation{Field: "field", Message: err.Error()}
	}
	return &req, nil
}

func (req *generateRequest) runOptions() pipeline.RunOptions {
	maxIterations := pipeline.UnsetMaxIterations
	if req.MaxIterations != nil {
		maxIterations = *req.MaxIterations
	}

	return pipeline.RunOptions{
		Field:               req.Field,
		Brief:               req.Brief,
		SettingsOverrides:   req.Settings,
		ConstraintOverrides: req.Constraints,
		VariantCount:        req.Variants,
		MaxIterations:       maxIterations,
		Parallelism:         req.Parallelism,
		GroundingK:          req.GroundingK,
	}
}

// handleGenerate runs a full generation and returns the structured result.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeGenerateRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.orchestrator.Run(r.Context(), req.runOptions())
	if err != nil {
		log.Printf("Generation run failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGenerateStream runs a generation while streaming timeline events as
// SSE, then sends the full result as a final "complete" event.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeGenerateRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := req.runOptions()
	opts.OnProgress = func(event types.TimelineEvent) {
		sse.WriteEvent("progress", event) //nolint:errcheck
	}

	result, err := s.orchestrator.Run(r.Context(), opts)
	if err != nil {
		log.Printf("Generation run failed: %v", err)
		sse.WriteError(err.Error())
		return
	}

	sse.WriteComplete(result)
}

// handleListRuns returns stored runs, optionally filtered by field and status.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	database, ok := s.requireDB(w)
	if !ok {
		return
	}

	runs, err := database.ListRuns(r.Context(), runFiltersFromQuery(r))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun returns one stored run's metadata.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	database, ok := s.requireDB(w)
	if !ok {
		return
	}

	runID, err := parseRunID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := database.GetRun(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		notFound := &ErrRunNotFound{RunID: runID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, run)
}

// handleGetRunResult returns the stored structured result for a run.
func (s *Server) handleGetRunResult(w http.ResponseWriter, r *http.Request) {
	database, ok := s.requireDB(w)
	if !ok {
		return
	}

	runID, err := parseRunID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := database.GetRunResult(r.Context(), runID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		notFound := &ErrRunNotFound{RunID: runID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleDeleteRun removes a stored run and its artifacts.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	database, ok := s.requireDB(w)
	if !ok {
		return
	}

	runID, err := parseRunID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := database.DeleteRun(r.Context(), runID); err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// requireDB writes a 503 when run persistence is not configured.
func (s *Server) requireDB(w http.ResponseWriter) (*db.DB, bool) {
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "run persistence is not configured")
		return nil, false
	}
	return s.db, true
}

func runFiltersFromQuery(r *http.Request) db.RunFilters {
	filters := db.RunFilters{
		Field:  r.URL.Query().Get("field"),
		Status: r.URL.Query().Get("status"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filters.Limit = limit
	}
	return filters
}

func parseRunID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}
