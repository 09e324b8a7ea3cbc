package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cineze/internal/diagnostic"
	"cineze/internal/domain"
	"cineze/internal/middleware"
)

const maxQuestionnaireBytes = 64 << 10

type generateResponse struct {
	ID string `json:"id"`
}

type jobResponse struct {
	ID          string             `json:"id"`
	Status      domain.JobStatus   `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Diagnostic  *domain.Diagnostic `json:"diagnostic,omitempty"`
}

// DiagnosticsGenerate runs the pipeline synchronously and answers with the
// job id. The pipeline is detached from the request context so a client
// disconnect does not abort it.
func (a *App) DiagnosticsGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	active, err := a.Entitlements.HasActivePlan(r.Context(), userID)
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("entitlement lookup failed")
		a.error(w, r, http.StatusInternalServerError, "internal", "failed to check plan")
		return
	}
	if !active {
		a.error(w, r, http.StatusForbidden, "plan_inactive", "an active plan is required")
		return
	}

	var q domain.Questionnaire
	body := http.MaxBytesReader(w, r.Body, maxQuestionnaireBytes)
	if err := json.NewDecoder(body).Decode(&q); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	q = q.Normalized()
	if err := q.Validate(); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	id, err := a.Diagnostics.Generate(context.WithoutCancel(r.Context()), userID, q)
	switch {
	case err == nil:
		a.json(w, http.StatusOK, generateResponse{ID: id})
	case errors.Is(err, domain.ErrInvalidInput):
		a.error(w, r, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, diagnostic.ErrSynthesisFailed):
		a.error(w, r, http.StatusUnprocessableEntity, "generation_failed", diagnostic.ErrSynthesisFailed.Error())
	default:
		a.Logger.Error().Err(err).
			Str("user_id", userID).
			Str("job_id", id).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("diagnostic generation failed")
		a.error(w, r, http.StatusInternalServerError, "internal", "failed to generate diagnostic")
	}
}

// DiagnosticStatus returns a job owned by the caller. Jobs of other users
// are reported as not found.
func (a *App) DiagnosticStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(jobID); err != nil {
		a.error(w, r, http.StatusNotFound, "not_found", "diagnostic not found")
		return
	}
	job, err := a.Jobs.GetJob(r.Context(), jobID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && job.OwnerID != userID) {
		a.error(w, r, http.StatusNotFound, "not_found", "diagnostic not found")
		return
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("load job failed")
		a.error(w, r, http.StatusInternalServerError, "internal", "failed to load diagnostic")
		return
	}
	a.json(w, http.StatusOK, jobResponse{
		ID:          job.ID,
		Status:      job.Status,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
		Diagnostic:  job.Diagnostic,
	})
}
