// Package postgres is the gorm-backed SQL backend. OHLCV columns are
// exact decimals.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"markets-engine/internal/metrics"
	"markets-engine/internal/model"
)

const backend = "postgres"

// Store implements model.Store with gorm.
type Store struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

var _ model.Store = (*Store)(nil)

// Open connects to dsn, verifies it with a ping and migrates the tables.
// m may be nil.
func Open(dsn string, production bool, m *metrics.Metrics) (*Store, error) {
	logLevel := logger.Info
	if production {
		logLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres underlying db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.AutoMigrate(&StockEOD{}, &MarketsNews{}); err != nil {
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}

	slog.Info("postgres store connected")
	return &Store{db: db, metrics: m}, nil
}

// QueryBars reads bars for q ordered ascending by date.
func (s *Store) QueryBars(ctx context.Context, q model.BarQuery) (bars []model.Bar, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore(backend, "query_bars", start, err) }()

	tx := s.db.WithContext(ctx).Where("index_name = ? AND key_ticker = ?", q.Index, q.Ticker)
	if q.Start != nil {
		tx = tx.Where("date_reference >= ?", q.Start.Format(model.DateLayout))
	}
	if q.End != nil {
		tx = tx.Where("date_reference <= ?", q.End.Format(model.DateLayout))
	}
	if q.Limit > 0 {
		tx = tx.Order("date_reference DESC").Limit(q.Limit)
	} else {
		tx = tx.Order("date_reference ASC")
	}

	var rows []StockEOD
	if err := tx.Find(&rows).Error; err != nil {
		return nil, model.Upstream("postgres query stocks_eod", err)
	}

	bars = make([]model.Bar, len(rows))
	for i, r := range rows {
		b, err := r.toBar()
		if err != nil {
			return nil, model.Upstream("postgres scan stocks_eod", err)
		}
		if q.Limit > 0 {
			bars[len(rows)-1-i] = b
		} else {
			bars[i] = b
		}
	}
	return bars, nil
}

// QueryNews reads one keyset page ordered by (date_reference, id) descending.
func (s *Store) QueryNews(ctx context.Context, q model.NewsQuery) (hits []model.NewsHit, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore(backend, "query_news", start, err) }()

	tx := s.db.WithContext(ctx).Where("index_name = ?", q.Index)
	if q.Filter.ID != "" {
		tx = tx.Where("id = ?", q.Filter.ID)
	}
	if q.Filter.KeyTicker != "" {
		contains, _ := json.Marshal([]string{q.Filter.KeyTicker})
		tx = tx.Where("key_ticker @> ?::jsonb", string(contains))
	}
	if q.After != nil {
		tx = tx.Where("(date_reference < ? OR (date_reference = ? AND id < ?))", q.After.Date, q.After.Date, q.After.ID)
	}

	var rows []MarketsNews
	if err := tx.Order("date_reference DESC").Order("id DESC").Limit(q.Size).Find(&rows).Error; err != nil {
		return nil, model.Upstream("postgres query markets_news", err)
	}

	hits = make([]model.NewsHit, 0, len(rows))
	for _, r := range rows {
		h, err := r.toHit(q.Include)
		if err != nil {
			return nil, model.Upstream("postgres scan markets_news", err)
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
