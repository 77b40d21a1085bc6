package controllers

import (
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"github.com/tablerio/tablerio-backend/api/responses"
	"github.com/tablerio/tablerio-backend/pkg/config"
	"github.com/tablerio/tablerio-backend/pkg/db"
	pkgerrors "github.com/tablerio/tablerio-backend/pkg/errors"
	"github.com/tablerio/tablerio-backend/pkg/logger"
	"github.com/tablerio/tablerio-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tablerio-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the data store and cache. A failing database makes the
// instance not ready; a failing cache is reported but does not, because the
// quote path runs fail-open without it.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tablerio-Env", cfg.App.Env)

		var errs error
		checks := map[string]string{"database": "ok", "cache": "ok"}

		if dbP == nil {
			checks["database"] = "unconfigured"
			errs = multierr.Append(errs, fmt.Errorf("database pinger missing"))
		} else if err := dbP.Ping(r.Context()); err != nil {
			checks["database"] = "unreachable"
			errs = multierr.Append(errs, fmt.Errorf("database: %w", err))
		}

		if redisP == nil {
			checks["cache"] = "unconfigured"
		} else if err := redisP.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
			if logg != nil {
				logg.Warn(r.Context(), "cache unreachable, serving uncached")
			}
		}

		if checks["database"] != "ok" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness check failed").
					WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
