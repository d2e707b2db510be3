package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Unhealthy indicates the store cannot be reached; nothing can be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultTimeout bounds a single check when the caller's context has no deadline.
const DefaultTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status  Status
	Checks  map[string]CheckResult
	Latency time.Duration
}

// Service coordinates health checks.
type Service struct {
	db      DBPinger
	timeout time.Duration
}

// New creates a Service. A non-positive timeout selects DefaultTimeout.
func New(db DBPinger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{db: db, timeout: timeout}
}

// Check pings the store.
func (s *Service) Check(ctx context.Context) Report {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := s.db.Ping(ctx)
	r := Report{
		Status:  Healthy,
		Checks:  map[string]CheckResult{"database": CheckOK},
		Latency: time.Since(start),
	}
	if err != nil {
		r.Status = Unhealthy
		r.Checks["database"] = CheckError
	}
	return r
}
