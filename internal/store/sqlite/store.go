package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"markets-engine/internal/metrics"
	"markets-engine/internal/model"
)

const backend = "sqlite"

// Store is the embedded SQL backend for bars and news. It implements
// model.Store.
type Store struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

var _ model.Store = (*Store)(nil)

// Open opens (or creates) the database at dbPath and ensures the schema.
// m may be nil.
func Open(dbPath string, m *metrics.Metrics) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	slog.Info("sqlite store opened", "path", dbPath)
	return &Store{db: db, metrics: m}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS stocks_eod (
			index_name     TEXT NOT NULL,
			key_ticker     TEXT NOT NULL,
			date_reference TEXT NOT NULL,
			val_open       REAL NOT NULL,
			val_high       REAL NOT NULL,
			val_low        REAL NOT NULL,
			val_close      REAL NOT NULL,
			val_volume     REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (index_name, key_ticker, date_reference)
		);

		CREATE TABLE IF NOT EXISTS markets_news (
			index_name     TEXT NOT NULL,
			id             TEXT NOT NULL,
			key_url        TEXT NOT NULL DEFAULT '',
			key_source     TEXT NOT NULL DEFAULT '',
			key_ticker     TEXT NOT NULL DEFAULT '[]',
			date_reference TEXT NOT NULL,
			obj_images     TEXT NOT NULL DEFAULT '[]',
			text_headline  TEXT NOT NULL DEFAULT '',
			text_author    TEXT NOT NULL DEFAULT '',
			text_summary   TEXT NOT NULL DEFAULT '',
			text_content   TEXT,
			PRIMARY KEY (index_name, id)
		);

		CREATE INDEX IF NOT EXISTS idx_markets_news_sort
			ON markets_news (index_name, date_reference DESC, id DESC);
	`)
	return err
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
