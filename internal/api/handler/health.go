package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready, the readiness probe.
// Checks Redis and backend API reachability before declaring the edge ready.
type ReadinessHandler struct {
	redis      *redis.Client
	backendURL string
	client     *http.Client
}

func NewReadinessHandler(rdb *redis.Client, backendBaseURL string) *ReadinessHandler {
	return &ReadinessHandler{
		redis:      rdb,
		backendURL: strings.TrimRight(backendBaseURL, "/"),
		client:     &http.Client{},
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	// --- Redis ping ---
	if _, err := h.redis.Ping(ctx).Result(); err != nil {
		deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	// --- Backend API reachable ---
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.backendURL+"/health", nil)
	if err == nil {
		var resp *http.Response
		resp, err = h.client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode >= http.StatusInternalServerError {
				err = echo.NewHTTPError(resp.StatusCode, "backend health degraded")
			}
		}
	}
	if err != nil {
		deps["backend"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["backend"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
