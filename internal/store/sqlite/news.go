package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"markets-engine/internal/model"
)

// QueryNews reads one keyset page of news ordered by (date_reference, id)
// descending, strictly after q.After when set.
func (s *Store) QueryNews(ctx context.Context, q model.NewsQuery) (hits []model.NewsHit, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore(backend, "query_news", start, err) }()

	var (
		where = []string{"index_name = ?"}
		args  = []any{q.Index}
	)
	if q.Filter.ID != "" {
		where = append(where, "id = ?")
		args = append(args, q.Filter.ID)
	}
	if q.Filter.KeyTicker != "" {
		where = append(where, "EXISTS (SELECT 1 FROM json_each(markets_news.key_ticker) WHERE json_each.value = ?)")
		args = append(args, q.Filter.KeyTicker)
	}
	if q.After != nil {
		where = append(where, "(date_reference < ? OR (date_reference = ? AND id < ?))")
		args = append(args, q.After.Date, q.After.Date, q.After.ID)
	}
	args = append(args, q.Size)

	query := fmt.Sprintf(`
		SELECT id, key_url, key_source, date_reference, text_headline, text_summary,
		       text_content, key_ticker, obj_images
		FROM markets_news
		WHERE %s
		ORDER BY date_reference DESC, id DESC
		LIMIT ?
	`, strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, model.Upstream("sqlite query markets_news", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it              model.NewsItem
			content         sql.NullString
			tickers, images string
		)
		if err := rows.Scan(&it.ID, &it.URL, &it.Source, &it.Date, &it.Headline, &it.Summary,
			&content, &tickers, &images); err != nil {
			return nil, model.Upstream("sqlite scan markets_news", err)
		}

		if q.Include.TextContent && content.Valid {
			c := content.String
			it.Content = &c
		}
		if q.Include.KeyTicker {
			if err := json.Unmarshal([]byte(tickers), &it.KeyTicker); err != nil {
				return nil, model.Upstream("sqlite decode key_ticker", err)
			}
		}
		if q.Include.Images {
			if err := json.Unmarshal([]byte(images), &it.Images); err != nil {
				return nil, model.Upstream("sqlite decode obj_images", err)
			}
		}

		hits = append(hits, model.NewsHit{Item: it, Sort: model.SortKey{Date: it.Date, ID: it.ID}})
	}
	if err := rows.Err(); err != nil {
		return nil, model.Upstream("sqlite iterate markets_news", err)
	}
	return hits, nil
}
