package service

import (
	"context"
	"errors"

	"github.com/memoai-dev/memocoach/pkg/gateway"
)

// HealthStatus is the service health report. The /health endpoint is not
// envelope-wrapped.
type HealthStatus struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Healthy reports whether the service and all its dependencies are up.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy"
}

// Health drives the service health endpoint.
type Health struct {
	api *gateway.Client
}

// NewHealth creates the health service over the shared gateway client.
func NewHealth(api *gateway.Client) *Health {
	return &Health{api: api}
}

// Check queries the service health endpoint.
func (h *Health) Check(ctx context.Context) (HealthStatus, error) {
	res, err := h.api.Get(ctx, "/health")
	if err != nil {
		return HealthStatus{}, err
	}
	if !res.Success {
		return HealthStatus{}, errors.New("service: health check failed: " + res.Error)
	}
	var status HealthStatus
	if err := res.Decode(&status); err != nil {
		return HealthStatus{}, err
	}
	return status, nil
}
