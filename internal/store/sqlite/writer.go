package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"markets-engine/internal/model"
)

// NewsDocument is a news row as written by ingestion.
type NewsDocument struct {
	Item   model.NewsItem
	Author string
}

// UpsertBars writes bars for ticker in one transaction, replacing rows
// with the same date.
func (s *Store) UpsertBars(ctx context.Context, index, ticker string, bars []model.Bar) error {
	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO stocks_eod
			(index_name, key_ticker, date_reference, val_open, val_high, val_low, val_close, val_volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite prepare stocks_eod: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, index, ticker, b.Day(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("sqlite insert bar %s %s: %w", ticker, b.Day(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}

	slog.Debug("sqlite bars committed", "index", index, "ticker", ticker, "count", len(bars), "took", time.Since(start))
	return nil
}

// UpsertNews writes news documents for index in one transaction.
func (s *Store) UpsertNews(ctx context.Context, index string, docs []NewsDocument) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO markets_news
			(index_name, id, key_url, key_source, key_ticker, date_reference, obj_images,
			 text_headline, text_author, text_summary, text_content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite prepare markets_news: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		it := d.Item
		tickers, err := json.Marshal(nonNil(it.KeyTicker))
		if err != nil {
			return fmt.Errorf("marshal key_ticker: %w", err)
		}
		images := []model.NewsImage{}
		if it.Images != nil {
			images = it.Images
		}
		imgs, err := json.Marshal(images)
		if err != nil {
			return fmt.Errorf("marshal obj_images: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, index, it.ID, it.URL, it.Source, string(tickers), it.Date, string(imgs),
			it.Headline, d.Author, it.Summary, it.Content); err != nil {
			return fmt.Errorf("sqlite insert news %s: %w", it.ID, err)
		}
	}
	return tx.Commit()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
