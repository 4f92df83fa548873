package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ProbeFunc checks one dependency. A nil error means healthy.
type ProbeFunc func(ctx context.Context) error

// ProbeResult is the outcome of the most recent run of one probe.
type ProbeResult struct {
	OK        bool      `json:"ok"`
	LatencyMs float64   `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
	// Critical probes degrade the overall status to unhealthy.
	Critical bool `json:"critical"`
}

type probe struct {
	name     string
	fn       ProbeFunc
	critical bool
}

// HealthStatus tracks dependency liveness for /healthz.
type HealthStatus struct {
	mu sync.RWMutex

	probes    []probe
	results   map[string]ProbeResult
	startedAt time.Time
	timeout   time.Duration
}

// NewHealthStatus returns a health status with no probes registered.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		results:   make(map[string]ProbeResult),
		startedAt: time.Now(),
		timeout:   3 * time.Second,
	}
}

// Register adds a named probe. Critical probes (the primary store) make the
// service unhealthy when they fail; others (the cache) only degrade it.
func (h *HealthStatus) Register(name string, critical bool, fn ProbeFunc) {
	h.mu.Lock()
	h.probes = append(h.probes, probe{name: name, fn: fn, critical: critical})
	h.mu.Unlock()
}

// CheckAll runs every registered probe once and records latency + result.
func (h *HealthStatus) CheckAll(ctx context.Context) {
	h.mu.RLock()
	probes := append([]probe(nil), h.probes...)
	h.mu.RUnlock()

	for _, p := range probes {
		probeCtx, cancel := context.WithTimeout(ctx, h.timeout)
		start := time.Now()
		err := p.fn(probeCtx)
		latency := time.Since(start)
		cancel()

		res := ProbeResult{
			OK:        err == nil,
			LatencyMs: float64(latency.Microseconds()) / 1000.0,
			CheckedAt: time.Now(),
			Critical:  p.critical,
		}
		if err != nil {
			res.Error = err.Error()
			slog.Warn("liveness probe failed", "probe", p.name, "error", err)
		}

		h.mu.Lock()
		h.results[p.name] = res
		h.mu.Unlock()
	}
}

// StartLivenessChecker schedules CheckAll on spec (robfig/cron syntax,
// e.g. "@every 30s") after one immediate run. Stop the returned cron on
// shutdown.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { h.CheckAll(ctx) }); err != nil {
		return nil, fmt.Errorf("register liveness probe %q: %w", spec, err)
	}
	h.CheckAll(ctx)
	c.Start()
	return c, nil
}

// Snapshot returns the overall status and a copy of every probe result.
func (h *HealthStatus) Snapshot() (string, map[string]ProbeResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	results := make(map[string]ProbeResult, len(h.results))
	for name, r := range h.results {
		results[name] = r
		if r.OK {
			continue
		}
		if r.Critical {
			status = "unhealthy"
		} else if status == "healthy" {
			status = "degraded"
		}
	}
	return status, results
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	overallStatus, results := h.Snapshot()

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	httpCode := http.StatusOK
	if overallStatus == "unhealthy" {
		httpCode = http.StatusServiceUnavailable
	}

	status := struct {
		Status string                 `json:"status"`
		Uptime string                 `json:"uptime"`
		Probes []string               `json:"probes"`
		Checks map[string]ProbeResult `json:"checks"`
	}{
		Status: overallStatus,
		Uptime: time.Since(h.startedAt).Round(time.Second).String(),
		Probes: names,
		Checks: results,
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}
