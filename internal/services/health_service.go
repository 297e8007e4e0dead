package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"
)

// DefaultCheckTimeout bounds each readiness check.
const DefaultCheckTimeout = 5 * time.Second

// Checker reports whether a dependency is usable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Check calls f.
func (f CheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// HealthService provides health check functionality
type HealthService struct {
	version      string
	buildTime    string
	checks       map[string]Checker
	checkTimeout time.Duration
	startTime    time.Time
	logger       *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// NewHealthService creates a health service. checks are run by
// ReadinessCheck; nil means the service is always ready.
func NewHealthService(version, buildTime string, checks map[string]Checker, logger *slog.Logger) *HealthService {
	logger = logger.With(slog.String("service", "health"))
	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.Int("checks", len(checks)))

	return &HealthService{
		version:      version,
		buildTime:    buildTime,
		checks:       checks,
		checkTimeout: DefaultCheckTimeout,
		startTime:    time.Now(),
		logger:       logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck runs every dependency check.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth, len(hs.checks)),
	}

	names := make([]string, 0, len(hs.checks))
	for name := range hs.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sh := hs.runCheck(ctx, name, hs.checks[name])
		if sh.Status != "ready" {
			status.Status = "not_ready"
		}
		status.Services[name] = sh
	}

	return status
}

func (hs *HealthService) runCheck(ctx context.Context, name string, c Checker) ServiceHealth {
	ctx, cancel := context.WithTimeout(ctx, hs.checkTimeout)
	defer cancel()

	start := time.Now()
	err := c.Check(ctx)
	latency := time.Since(start).Round(time.Millisecond).String()

	if err != nil {
		hs.logger.WarnContext(ctx, "readiness check failed",
			slog.String("check", name),
			slog.String("error", err.Error()))
		return ServiceHealth{Status: "not_ready", Message: err.Error(), Latency: latency}
	}
	return ServiceHealth{Status: "ready", Latency: latency}
}

// IsReady reports whether status is fully ready.
func (s HealthStatus) IsReady() bool {
	return s.Status == "ready"
}

// Err wraps ErrServiceUnavailable with the failing checks, or returns nil
// when status is ready.
func (s HealthStatus) Err() error {
	if s.IsReady() {
		return nil
	}
	var failing []string
	for name, sh := range s.Services {
		if sh.Status != "ready" {
			failing = append(failing, name)
		}
	}
	sort.Strings(failing)
	return fmt.Errorf("%w: %s", ErrServiceUnavailable, strings.Join(failing, ", "))
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}

	return result
}
