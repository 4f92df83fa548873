package markets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"markets-engine/internal/model"
)

// CloseStats returns the most recent OHLCV snapshot for ticker together
// with the percent variance of its close over the window.
func (s *Service) CloseStats(ctx context.Context, ticker, index string, start, end *time.Time) (model.StatsClose, error) {
	ts, err := s.FetchBars(ctx, ticker, index, start, end)
	if err != nil {
		return model.StatsClose{}, err
	}

	last := ts.Last()
	return model.StatsClose{
		KeyTicker:        ticker,
		MostRecentClose:  last.Close,
		MostRecentOpen:   last.Open,
		MostRecentHigh:   last.High,
		MostRecentLow:    last.Low,
		MostRecentVolume: last.Volume,
		MostRecentDate:   last.Day(),
		PercentVariance:  PercentVariance(ts, s.opts.VarianceMode),
	}, nil
}

// PercentVariance is (last - ref) / ref * 100 where ref is the earliest
// close (VarianceWindow) or the previous close (VariancePrevious).
// A single bar or a zero reference yields 0.
func PercentVariance(ts model.TimeSeries, mode VarianceMode) float64 {
	n := ts.Len()
	if n < 2 {
		return 0
	}

	ref := ts.Bars[0].Close
	if mode == VariancePrevious {
		ref = ts.Bars[n-2].Close
	}
	if ref == 0 {
		return 0
	}

	last := decimal.NewFromFloat(ts.Bars[n-1].Close)
	base := decimal.NewFromFloat(ref)
	pct, _ := last.Sub(base).Div(base).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
