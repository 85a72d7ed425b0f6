package api

import (
	"context"
	"net/http"
	"time"

	"github.com/hackgods/vet-appointments/internal/storage"
)

type HealthHandler struct {
	provider storage.Provider
	env      string
	version  string
}

func NewHealthHandler(provider storage.Provider, env, version string) *HealthHandler {
	return &HealthHandler{
		provider: provider,
		env:      env,
		version:  version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

// Readiness pings the storage provider when it is backed by a remote
// service. Local providers always report ok.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	deps := map[string]string{h.provider.Name(): "ok"}
	if err := storage.Ping(ctx, h.provider); err != nil {
		deps[h.provider.Name()] = "down"
		status = "error"
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	})
}
