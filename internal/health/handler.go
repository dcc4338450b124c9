package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

// Handler handles health check operations.
type Handler struct {
	checks []Check
}

// NewHandler creates a new health handler.
func NewHandler(checks ...Check) *Handler {
	return &Handler{checks: checks}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
}

// Check reports the state of every dependency.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.Components = make(map[string]string, len(h.checks))

	for _, c := range h.checks {
		if err := c.Checker.Ping(ctx); err != nil {
			resp.Body.Components[c.Name] = "unhealthy"
			resp.Body.Status = "degraded"
		} else {
			resp.Body.Components[c.Name] = "healthy"
		}
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
