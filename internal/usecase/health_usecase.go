package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

// HealthCheck probes one dependency.
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

type healthUsecase struct {
	checks []HealthCheck
}

func NewHealthUsecase(checks ...HealthCheck) HealthUsecase {
	return &healthUsecase{checks: checks}
}

// Check reports "ok" or "down" per dependency and whether all are healthy.
func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true
	for _, c := range u.checks {
		if err := c.Probe(ctx); err != nil {
			status[c.Name] = "down"
			healthy = false
			continue
		}
		status[c.Name] = "ok"
	}
	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
