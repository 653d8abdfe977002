package services

import (
	"context"
	"testing"
	"time"

	domain "github.com/siraq-studio/api/internal/domain"
)

type stubHealthRepository struct {
	report domain.SystemHealthReport
	err    error
}

func (r *stubHealthRepository) Collect(context.Context) (domain.SystemHealthReport, error) {
	if r.err != nil {
		return domain.SystemHealthReport{}, r.err
	}
	return r.report, nil
}

func TestSystemService_HealthReport_FillsBuildMetadata(t *testing.T) {
	started := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	now := started.Add(90 * time.Minute)

	repo := &stubHealthRepository{report: domain.SystemHealthReport{
		Status: domain.HealthStatusOK,
		Checks: map[string]domain.SystemHealthCheck{
			"firestore": {Status: domain.HealthStatusOK},
		},
	}}

	service, err := NewSystemService(SystemServiceDeps{
		HealthRepository: repo,
		Clock:            func() time.Time { return now },
		Build: BuildInfo{
			Version:     "1.4.0",
			Environment: "production",
			StartedAt:   started,
		},
	})
	if err != nil {
		t.Fatalf("NewSystemService: %v", err)
	}

	report, err := service.HealthReport(context.Background())
	if err != nil {
		t.Fatalf("HealthReport: %v", err)
	}
	if report.Version != "1.4.0" {
		t.Fatalf("expected version filled, got %q", report.Version)
	}
	if report.Environment != "production" {
		t.Fatalf("expected environment filled, got %q", report.Environment)
	}
	if report.Uptime != 90*time.Minute {
		t.Fatalf("expected uptime 90m, got %s", report.Uptime)
	}
	if report.GeneratedAt != now {
		t.Fatalf("expected generatedAt %s, got %s", now, report.GeneratedAt)
	}
}
