package markets

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"markets-engine/internal/logger"
	"markets-engine/internal/model"
)

// FetchBars returns the ascending bar series for ticker in index within
// [start, end]. With no bounds the most recent DefaultWindowBars bars are
// returned; an open end defaults to the store bound. Zero bars is NotFound.
func (s *Service) FetchBars(ctx context.Context, ticker, index string, start, end *time.Time) (model.TimeSeries, error) {
	q := model.BarQuery{Ticker: ticker, Index: index, Start: start, End: end}
	if start == nil && end == nil {
		q.Limit = s.opts.DefaultWindowBars
	}

	bars, err := s.bars.QueryBars(ctx, q)
	if err != nil {
		slog.Error("bar query failed", append(logger.LogWithTrace(ctx),
			"ticker", ticker, "index", index, "error", err)...)
		return model.TimeSeries{}, fmt.Errorf("fetch bars %s/%s: %w", index, ticker, err)
	}
	if len(bars) == 0 {
		if s.metrics != nil {
			s.metrics.BarsNotFoundTotal.Inc()
		}
		return model.TimeSeries{}, model.NotFound("no bars for %s in %s", ticker, index)
	}

	// stores return ascending already; ties keep store order
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	return model.TimeSeries{Ticker: ticker, Index: index, Bars: bars}, nil
}
