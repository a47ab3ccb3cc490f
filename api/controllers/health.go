package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Owusua22/Franko-MobileApp-sub001/api/responses"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/config"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Franko-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Franko-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"redis": "ok"}
		status := http.StatusOK

		if store == nil {
			checks["redis"] = "not configured"
			status = http.StatusServiceUnavailable
		} else if err := store.Ping(ctx); err != nil {
			if logg != nil {
				logg.Error(ctx, "readiness.redis", err)
			}
			checks["redis"] = "unreachable"
			status = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, status, checks)
	}
}
