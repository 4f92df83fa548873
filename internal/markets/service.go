// Package markets wires the read ports to the indicator library: the bar
// repository adapter, the close-stats aggregator, news pagination and
// indicator orchestration. A Service holds no per-request state.
package markets

import (
	"fmt"
	"strings"

	"markets-engine/internal/metrics"
	"markets-engine/internal/model"
)

// VarianceMode selects the reference close for percent variance.
type VarianceMode string

const (
	// VarianceWindow compares against the earliest close in the window.
	VarianceWindow VarianceMode = "window"
	// VariancePrevious compares against the bar preceding the most recent.
	VariancePrevious VarianceMode = "previous"
)

// ParseVarianceMode accepts "window" or "previous"; "" means window.
func ParseVarianceMode(s string) (VarianceMode, error) {
	switch VarianceMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", VarianceWindow:
		return VarianceWindow, nil
	case VariancePrevious:
		return VariancePrevious, nil
	default:
		return "", fmt.Errorf("unknown percent variance mode %q", s)
	}
}

// Options tunes a Service.
type Options struct {
	// DefaultWindowBars bounds the fetch when no dates are given.
	DefaultWindowBars int
	VarianceMode      VarianceMode
}

// Service implements the market read operations over a bar store and a
// news store.
type Service struct {
	bars    model.BarStore
	news    model.NewsStore
	opts    Options
	metrics *metrics.Metrics
}

// NewService returns a Service. m may be nil.
func NewService(bars model.BarStore, news model.NewsStore, opts Options, m *metrics.Metrics) *Service {
	if opts.DefaultWindowBars <= 0 {
		opts.DefaultWindowBars = 30
	}
	if opts.VarianceMode == "" {
		opts.VarianceMode = VarianceWindow
	}
	return &Service{bars: bars, news: news, opts: opts, metrics: m}
}
