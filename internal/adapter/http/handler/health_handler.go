package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/response"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
	rs      *response.Responder
}

func NewHealthHandler(checks map[string]Check, rs *response.Responder) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second, rs: rs}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Live only reports that the process serves requests.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.rs.JSON(w, http.StatusOK, healthResponse{Status: "success", Message: "API is running"})
}

// Ready runs every dependency check and answers 503 if any fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}

	if !healthy {
		h.rs.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "error", Message: "Dependencies unavailable", Checks: results})
		return
	}
	h.rs.JSON(w, http.StatusOK, healthResponse{Status: "success", Message: "API is ready", Checks: results})
}
