package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"cineze/internal/domain"
	"cineze/internal/infra"
	"cineze/internal/middleware"
)

// DiagnosticGenerator runs the generation pipeline for one questionnaire.
type DiagnosticGenerator interface {
	Generate(ctx context.Context, ownerID string, q domain.Questionnaire) (string, error)
}

// JobReader loads a job for polling.
type JobReader interface {
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Diagnostics  DiagnosticGenerator
	Jobs         JobReader
	Entitlements domain.EntitlementStore
	DB           Pinger
	Logger       infra.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the shared error body. The request id is echoed so a caller
// can quote it when reporting a failed generation.
func (a *App) error(w http.ResponseWriter, r *http.Request, code int, errCode, msg string) {
	body := map[string]string{"error": errCode, "message": msg}
	if rid := middleware.RequestIDFromContext(r.Context()); rid != "" {
		body["request_id"] = rid
	}
	a.json(w, code, body)
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
