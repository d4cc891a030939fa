package controllers

import (
	"context"
	"net/http"

	"github.com/arjunkedar/mandisathi-backend/api/responses"
	"github.com/arjunkedar/mandisathi-backend/pkg/config"
	pkgerrors "github.com/arjunkedar/mandisathi-backend/pkg/errors"
	"github.com/arjunkedar/mandisathi-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MandiSathi-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness by pinging the backing stores.
func HealthReady(cfg *config.Config, database, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MandiSathi-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				checks["database"] = "down"
				healthy = false
			} else {
				checks["database"] = "up"
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				checks["redis"] = "down"
				healthy = false
			} else {
				checks["redis"] = "up"
			}
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependency unavailable").WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
