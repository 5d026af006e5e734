package controllers

import (
	"net/http"

	"github.com/alexim39/marketspase-engine/api/responses"
	"github.com/alexim39/marketspase-engine/pkg/config"
	pkgerrors "github.com/alexim39/marketspase-engine/pkg/errors"
	"github.com/alexim39/marketspase-engine/pkg/logger"
	"github.com/alexim39/marketspase-engine/pkg/storage"
)

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Marketspase-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady probes the durable store with a read. A missing key is a healthy
// answer; only a transport-level failure marks the backend unready.
func HealthReady(cfg *config.Config, logg *logger.Logger, store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "durable store not wired"))
			return
		}
		if _, _, err := store.Read(r.Context(), storage.KeyCart); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "durable store unreachable"))
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"status":  "ok",
			"backend": cfg.Storage.Backend,
		})
	}
}
