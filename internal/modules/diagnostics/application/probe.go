package application

import (
	"context"
	"net/http"
	"time"
)

// ProbeResult holds the outcome of one connectivity probe.
type ProbeResult struct {
	Target    string
	Reachable bool
	Latency   time.Duration
	Status    int
}

// Prober runs timed HTTP probes against an endpoint.
type Prober struct {
	target string
	http   *http.Client
}

// NewProber creates a Prober for the target URL.
func NewProber(target string) *Prober {
	return &Prober{
		target: target,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Probe sends a HEAD request and measures the round trip.
func (p *Prober) Probe(ctx context.Context) ProbeResult {
	result := ProbeResult{Target: p.target}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.target, nil)
	if err != nil {
		return result
	}

	start := time.Now()
	resp, err := p.http.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		return result
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	result.Reachable = resp.StatusCode < http.StatusInternalServerError
	return result
}
