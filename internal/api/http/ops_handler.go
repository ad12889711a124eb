package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"alumni-connect-backend/internal/jobs"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/repository"
	"alumni-connect-backend/internal/security"
	"alumni-connect-backend/internal/service"
)

// StoreReporter exposes the persistence state of the entity stores.
type StoreReporter interface {
	Stats() []repository.StoreStats
	Dirty() []string
}

// JobTrigger runs a scheduled job by name.
type JobTrigger interface {
	Run(name string) error
}

// OpsHandler serves the operational endpoints: health, store persistence
// state, the admin dashboard and manual job runs.
type OpsHandler struct {
	stores    StoreReporter
	analytics service.AnalyticsService
	jobs      JobTrigger
}

func NewOpsHandler(stores StoreReporter, analytics service.AnalyticsService, jobs JobTrigger) *OpsHandler {
	return &OpsHandler{stores: stores, analytics: analytics, jobs: jobs}
}

// NewRouter wires the ops routes behind the auth middleware.
func NewRouter(h *OpsHandler, tm security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/ops/whoami", h.WhoAmI).Methods(http.MethodGet)
	r.HandleFunc("/ops/stores", h.StoreStats).Methods(http.MethodGet)
	r.HandleFunc("/ops/stores/dirty", h.DirtyStores).Methods(http.MethodGet)
	r.HandleFunc("/ops/dashboard", h.Dashboard).Methods(http.MethodGet)
	r.HandleFunc("/ops/jobs/{name}", h.RunJob).Methods(http.MethodPost)
	r.Use(NewAuthMiddleware(tm).Handler)
	return r
}

// Health reports liveness and how many stores are ahead of their mirror files.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	dirty := h.stores.Dirty()
	status := "ok"
	if len(dirty) > 0 {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status, "dirtyStores": len(dirty)})
}

func (h *OpsHandler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	actor, _ := ActorFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":  actor.UserID,
		"email":   actor.Email,
		"isAdmin": actor.IsAdmin,
	})
}

func (h *OpsHandler) StoreStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"stores": h.stores.Stats()})
}

func (h *OpsHandler) DirtyStores(w http.ResponseWriter, r *http.Request) {
	dirty := h.stores.Dirty()
	if dirty == nil {
		dirty = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"dirty": dirty})
}

func (h *OpsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.analytics.Dashboard(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to build dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *OpsHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	actor, _ := ActorFromContext(r.Context())
	logger.InfoContext(r.Context(), "Manual job run requested", "job", name, "by", actor.UserID)

	if err := h.jobs.Run(name); err != nil {
		if errors.Is(err, jobs.ErrUnknownJob) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"job": name, "status": "completed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
