// Package handler provides HTTP handlers for the rating map API.
package handler

import (
	"net/http"
	"time"

	"github.com/globalratings/ratingmap/internal/api/models"
	"github.com/globalratings/ratingmap/internal/api/response"
)

// ComponentCheck reports the status of one dependency for readiness checks.
type ComponentCheck func() models.ComponentStatus

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    []ComponentCheck
}

// NewOpsHandler creates a new OpsHandler. checks are evaluated on every
// readiness probe.
func NewOpsHandler(version, buildTime string, checks ...ComponentCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Any component
// not reporting OK degrades the overall status to 503.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ready := models.Readiness{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	for _, check := range h.checks {
		component := check()
		ready.Components = append(ready.Components, component)
		if component.Status != models.HealthStatusOK {
			ready.Status = models.HealthStatusDegraded
		}
	}

	status := http.StatusOK
	if ready.Status != models.HealthStatusOK {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, r, status, ready)
}
