package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"markets-engine/internal/model"
)

// QueryBars reads bars for q ordered by date ascending. With q.Limit set
// only the most recent q.Limit rows are returned.
func (s *Store) QueryBars(ctx context.Context, q model.BarQuery) (bars []model.Bar, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore(backend, "query_bars", start, err) }()

	var (
		where = []string{"index_name = ?", "key_ticker = ?"}
		args  = []any{q.Index, q.Ticker}
	)
	if q.Start != nil {
		where = append(where, "date_reference >= ?")
		args = append(args, q.Start.Format(model.DateLayout))
	}
	if q.End != nil {
		where = append(where, "date_reference <= ?")
		args = append(args, q.End.Format(model.DateLayout))
	}

	order := "ASC"
	limit := ""
	if q.Limit > 0 {
		order = "DESC"
		limit = " LIMIT ?"
		args = append(args, q.Limit)
	}

	query := fmt.Sprintf(`
		SELECT date_reference, val_open, val_high, val_low, val_close, val_volume
		FROM stocks_eod
		WHERE %s
		ORDER BY date_reference %s%s
	`, strings.Join(where, " AND "), order, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.Upstream("sqlite query stocks_eod", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b    model.Bar
			date string
		)
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, model.Upstream("sqlite scan stocks_eod", err)
		}
		if b.Date, err = time.Parse(model.DateLayout, date); err != nil {
			return nil, model.Upstream("sqlite scan stocks_eod", fmt.Errorf("bad date_reference %q: %w", date, err))
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, model.Upstream("sqlite iterate stocks_eod", err)
	}

	if q.Limit > 0 {
		for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
			bars[i], bars[j] = bars[j], bars[i]
		}
	}
	return bars, nil
}
