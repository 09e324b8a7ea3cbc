package handlers

import (
	"context"
	"net/http"
	"time"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready checks the database when one is configured.
func (a *App) Ready(w http.ResponseWriter, r *http.Request) {
	if a.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("readiness ping failed")
			a.error(w, r, http.StatusServiceUnavailable, "unavailable", "database unreachable")
			return
		}
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ready"})
}
