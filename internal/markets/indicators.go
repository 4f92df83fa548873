package markets

import (
	"context"
	"log/slog"
	"time"

	"markets-engine/internal/indicator"
	"markets-engine/internal/logger"
	"markets-engine/internal/model"
)

// Indicator fetches the bars for ticker within [start, end] and computes
// kind over them. Fewer bars than the warm-up yields an empty series.
func (s *Service) Indicator(ctx context.Context, kind model.IndicatorKind, ticker, index string, start, end *time.Time, p indicator.Params) (model.IndicatorSeries, error) {
	// fail before any I/O
	if err := p.Validate(kind); err != nil {
		return model.IndicatorSeries{}, err
	}

	ts, err := s.FetchBars(ctx, ticker, index, start, end)
	if err != nil {
		return model.IndicatorSeries{}, err
	}

	computeStart := time.Now()
	series, err := indicator.Compute(kind, ts, p)
	if err != nil {
		return model.IndicatorSeries{}, err
	}

	if s.metrics != nil {
		s.metrics.IndicatorComputeDur.WithLabelValues(kind.String()).Observe(time.Since(computeStart).Seconds())
		s.metrics.IndicatorPointsTotal.WithLabelValues(kind.String()).Add(float64(len(series.Points)))
	}
	if series.Empty() {
		if s.metrics != nil {
			s.metrics.InsufficientDataTotal.WithLabelValues(kind.String()).Inc()
		}
		slog.Debug("insufficient data for indicator", append(logger.LogWithTrace(ctx),
			"kind", kind.String(), "ticker", ticker, "bars", ts.Len(), "warm_up", indicator.WarmUp(kind, p))...)
	}
	return series, nil
}
