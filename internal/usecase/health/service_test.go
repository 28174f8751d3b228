package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct{ err error }

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{})
	report := svc.Check(context.Background())

	if report.Status != StatusOK {
		t.Errorf("Status = %q, want %q", report.Status, StatusOK)
	}
	if report.Checks["database"] != StatusOK || report.Checks["embeddings"] != StatusOK {
		t.Errorf("Checks = %v, want all ok", report.Checks)
	}
}

func TestCheck_DatabaseDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("connection refused")}, &mockChecker{})
	report := svc.Check(context.Background())

	if report.Status != StatusDegraded {
		t.Errorf("Status = %q, want %q", report.Status, StatusDegraded)
	}
	if report.Checks["database"] == StatusOK {
		t.Error("database check should carry the error")
	}
	if report.Checks["embeddings"] != StatusOK {
		t.Error("healthy checks must still report ok")
	}
}

func TestCheck_EmbeddingsDown(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{err: errors.New("401 unauthorized")})
	report := svc.Check(context.Background())

	if report.Status != StatusDegraded {
		t.Errorf("Status = %q, want %q", report.Status, StatusDegraded)
	}
}
