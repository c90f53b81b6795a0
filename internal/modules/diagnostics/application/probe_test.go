package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProbe_ReachableTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD request, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result := NewProber(server.URL).Probe(context.Background())

	if !result.Reachable {
		t.Error("expected target reachable")
	}
	if result.Status != http.StatusOK {
		t.Errorf("expected status 200, got %d", result.Status)
	}
	if result.Latency <= 0 {
		t.Error("expected a measured latency")
	}
}

func TestProbe_ServerErrorIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	result := NewProber(server.URL).Probe(context.Background())

	if result.Reachable {
		t.Error("5xx responses must count as unreachable")
	}
	if result.Status != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", result.Status)
	}
}

func TestProbe_ConnectionRefused(t *testing.T) {
	result := NewProber("http://127.0.0.1:1").Probe(context.Background())

	if result.Reachable || result.Status != 0 {
		t.Errorf("expected failed probe, got %+v", result)
	}
}

func TestProbe_ClientErrorStillReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result := NewProber(server.URL).Probe(context.Background())

	// A 4xx means the endpoint answered; the network path is fine.
	if !result.Reachable {
		t.Error("4xx responses must count as reachable")
	}
}
