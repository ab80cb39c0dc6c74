// Package handler provides HTTP handlers for the QuickCart API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/quickcart/quickcart/internal/api/models"
	"github.com/quickcart/quickcart/internal/api/response"
	"github.com/quickcart/quickcart/internal/provider/resilience"
)

// DependencyCheck is a named readiness probe for an internal subsystem.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	checks    []DependencyCheck
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, checks ...DependencyCheck) *OpsHandler {
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

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// Fails when any registered dependency probe fails.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := models.HealthStatusOK
	httpStatus := http.StatusOK

	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			status = models.HealthStatusFail
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, httpStatus, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := models.Timestamp(time.Now())
	overall := models.HealthStatusOK

	subsystems := make([]models.SubsystemStatus, 0, len(h.checks))
	for _, check := range h.checks {
		sub := models.SubsystemStatus{Name: check.Name, Status: models.HealthStatusOK}
		if err := check.Check(ctx); err != nil {
			sub.Status = models.HealthStatusFail
			overall = models.HealthStatusDegraded
		}
		subsystems = append(subsystems, sub)
	}

	providers := make([]models.ProviderStatus, 0)
	for _, health := range resilience.GlobalRegistry.GetAllHealth() {
		p := models.ProviderStatus{
			Provider: health.Name,
			Status:   circuitStatus(health.CircuitState),
		}
		if health.LastSuccessAt != nil {
			ts := models.Timestamp(*health.LastSuccessAt)
			p.LastSuccessAt = &ts
		}
		if p.Status != models.HealthStatusOK {
			overall = models.HealthStatusDegraded
		}
		providers = append(providers, p)
	}

	status := models.SystemStatus{
		Status:     overall,
		Time:       now,
		Subsystems: subsystems,
		Providers:  providers,
	}
	response.JSON(w, r, http.StatusOK, status)
}

func circuitStatus(state gobreaker.State) models.HealthStatus {
	switch state {
	case gobreaker.StateClosed:
		return models.HealthStatusOK
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusFail
	}
}
