package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/kantinapp/kantin-gateway/api/responses"
	"github.com/kantinapp/kantin-gateway/pkg/config"
	"github.com/kantinapp/kantin-gateway/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kantin-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the session/cart store. The upstream canteen API is
// deliberately not probed: its outages degrade requests, they do not make
// the gateway unready.
func HealthReady(cfg *config.Config, logg *logger.Logger, redisPinger pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Kantin-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if redisPinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redisPinger.Ping(ctx); err != nil {
				checks["redis"] = "down"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "health.redis_unreachable", err)
				}
			} else {
				checks["redis"] = "up"
			}
		}

		status := http.StatusOK
		checks["status"] = "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			checks["status"] = "degraded"
		}
		responses.WriteSuccessStatus(w, status, checks)
	}
}
