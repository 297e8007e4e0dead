package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrostats/internal/infrastructure"
)

func TestHealthServiceHealthCheck(t *testing.T) {
	hs := NewHealthService("1.2.3", "", nil, infrastructure.NewNopLogger())

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.WithinDuration(t, time.Now(), status.Timestamp, time.Second)
}

func TestHealthServiceReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Checker
		wantStatus string
		wantFailed []string
	}{
		{
			name:       "no checks",
			wantStatus: "ready",
		},
		{
			name: "all healthy",
			checks: map[string]Checker{
				"sidra": CheckerFunc(func(ctx context.Context) error { return nil }),
			},
			wantStatus: "ready",
		},
		{
			name: "one failing",
			checks: map[string]Checker{
				"sidra":  CheckerFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
				"config": CheckerFunc(func(ctx context.Context) error { return nil }),
			},
			wantStatus: "not_ready",
			wantFailed: []string{"sidra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("dev", "", tt.checks, infrastructure.NewNopLogger())

			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantStatus == "ready", status.IsReady())
			require.Len(t, status.Services, len(tt.checks))

			if tt.wantStatus == "ready" {
				assert.NoError(t, status.Err())
			} else {
				assert.ErrorIs(t, status.Err(), ErrServiceUnavailable)
				assert.EqualError(t, status.Err(), "service temporarily unavailable: sidra")
			}

			for _, name := range tt.wantFailed {
				assert.Equal(t, "not_ready", status.Services[name].Status)
				assert.NotEmpty(t, status.Services[name].Message)
			}
		})
	}
}

func TestHealthServiceCheckTimeout(t *testing.T) {
	slow := CheckerFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	hs := NewHealthService("dev", "", map[string]Checker{"slow": slow}, infrastructure.NewNopLogger())
	hs.checkTimeout = 10 * time.Millisecond

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Contains(t, status.Services["slow"].Message, "deadline exceeded")
}

func TestHealthServiceLivenessAndVersion(t *testing.T) {
	hs := NewHealthService("1.2.3", "2026-01-01T00:00:00Z", nil, infrastructure.NewNopLogger())

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	v := hs.Version()
	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "2026-01-01T00:00:00Z", v["build_time"])
}
