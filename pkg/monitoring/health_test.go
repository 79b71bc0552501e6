package monitoring

import (
	"context"
	"errors"
	"testing"
)

type pingableClient struct {
	err error
}

func (p *pingableClient) Ping(context.Context) error { return p.err }

func TestHealthChecker_Basic(t *testing.T) {
	hc := NewHealthChecker("svc", "v1")
	hc.AddCheck("ok", func() CheckResult { return CheckResult{Status: "healthy"} })
	status := hc.CheckHealth()
	if status.Status != "healthy" {
		t.Fatalf("expected healthy")
	}
}

func TestHealthChecker_UnhealthyWins(t *testing.T) {
	hc := NewHealthChecker("svc", "v1")
	hc.AddCheck("ok", func() CheckResult { return CheckResult{Status: StatusHealthy} })
	hc.AddCheck("slow", func() CheckResult { return CheckResult{Status: StatusDegraded} })
	hc.AddCheck("down", func() CheckResult { return CheckResult{Status: StatusUnhealthy} })
	status := hc.CheckHealth()
	if status.Status != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %q", status.Status)
	}
}

func TestDocumentStoreHealthCheck_Nil(t *testing.T) {
	res := DocumentStoreHealthCheck(nil)()
	if res.Status != "unhealthy" {
		t.Fatalf("expected unhealthy for nil store, got %q", res.Status)
	}
	if res.Message != "Document store connection is nil" {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestDocumentStoreHealthCheck_Ping(t *testing.T) {
	res := DocumentStoreHealthCheck(&pingableClient{})()
	if res.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", res.Status)
	}

	res = DocumentStoreHealthCheck(&pingableClient{err: errors.New("refused")})()
	if res.Status != "unhealthy" {
		t.Fatalf("expected unhealthy, got %q", res.Status)
	}
}

func TestObjectStoreHealthCheck_Ping(t *testing.T) {
	res := ObjectStoreHealthCheck(&pingableClient{})()
	if res.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", res.Status)
	}
}

func TestConfigurationHealthCheck(t *testing.T) {
	res := ConfigurationHealthCheck(map[string]string{"KAFKA_BROKERS": "localhost:9092"})()
	if res.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", res.Status)
	}

	res = ConfigurationHealthCheck(map[string]string{"KAFKA_BROKERS": ""})()
	if res.Status != "unhealthy" {
		t.Fatalf("expected unhealthy for missing config, got %q", res.Status)
	}
}
