package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "github.com/siraq-studio/api/internal/domain"
	"github.com/siraq-studio/api/internal/services"
)

type stubSystemService struct {
	report services.SystemHealthReport
	err    error
}

func (s *stubSystemService) HealthReport(context.Context) (services.SystemHealthReport, error) {
	return s.report, s.err
}

func TestHealthHandlers_Healthz(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	handlers := NewHealthHandlers(
		WithHealthBuildInfo(services.BuildInfo{
			Version:     "1.4.0",
			Environment: "production",
			StartedAt:   now.Add(-90 * time.Second),
		}),
		WithHealthClock(func() time.Time { return now }),
	)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	handlers.Healthz(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded["status"] != "ok" {
		t.Fatalf("expected ok status, got %v", decoded["status"])
	}
	if decoded["uptime"] != "1m30s" {
		t.Fatalf("expected uptime 1m30s, got %v", decoded["uptime"])
	}
	if decoded["version"] != "1.4.0" || decoded["environment"] != "production" {
		t.Fatalf("expected build info echoed, got %v", decoded)
	}
}

func TestHealthHandlers_ReadyzWithoutSystemService(t *testing.T) {
	handlers := NewHealthHandlers()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	resp := httptest.NewRecorder()
	handlers.Readyz(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected liveness fallback 200, got %d", resp.Code)
	}
}

func TestHealthHandlers_ReadyzReportsChecks(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	system := &stubSystemService{report: services.SystemHealthReport{
		Status:      domain.HealthStatusDegraded,
		GeneratedAt: now,
		Checks: map[string]domain.SystemHealthCheck{
			"firestore": {Status: domain.HealthStatusOK},
			"smtp":      {Status: domain.HealthStatusDegraded, Error: "dial timeout"},
		},
	}}
	handlers := NewHealthHandlers(WithHealthSystemService(system))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	resp := httptest.NewRecorder()
	handlers.Readyz(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for degraded, got %d", resp.Code)
	}
	var decoded services.SystemHealthReport
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if decoded.Status != domain.HealthStatusDegraded {
		t.Fatalf("expected degraded status, got %q", decoded.Status)
	}
	if decoded.Checks["smtp"].Error != "dial timeout" {
		t.Fatalf("expected smtp failure echoed, got %#v", decoded.Checks)
	}
}

func TestHealthHandlers_ReadyzUnhealthy(t *testing.T) {
	system := &stubSystemService{report: services.SystemHealthReport{
		Status: domain.HealthStatusError,
		Checks: map[string]domain.SystemHealthCheck{
			"firestore": {Status: domain.HealthStatusError, Error: "unavailable"},
		},
	}}
	handlers := NewHealthHandlers(WithHealthSystemService(system))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	resp := httptest.NewRecorder()
	handlers.Readyz(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when a dependency is down, got %d", resp.Code)
	}
}

func TestHealthHandlers_ReadyzCollectionFailure(t *testing.T) {
	system := &stubSystemService{err: errors.New("probe panic")}
	handlers := NewHealthHandlers(WithHealthSystemService(system))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	resp := httptest.NewRecorder()
	handlers.Readyz(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when collection fails, got %d", resp.Code)
	}
}
