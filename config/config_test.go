package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "m.db"))

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.MetricsAddr != ":9090" {
		t.Errorf("unexpected addrs %q %q", cfg.HTTPAddr, cfg.MetricsAddr)
	}
	if cfg.DefaultWindowBars != 30 || cfg.MaxPageSize != 100 || cfg.CacheControlMaxAge != 3600 {
		t.Errorf("unexpected numeric defaults %+v", cfg)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("expected 1h cache TTL, got %v", cfg.CacheTTL)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("cache should be disabled by default, got %q", cfg.RedisAddr)
	}
	if cfg.PercentVarianceMode != "window" || cfg.HealthCheckCron != "@every 30s" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("POSTGRES_DSN", "host=localhost")
	t.Setenv("MAX_PAGE_SIZE", "25")
	t.Setenv("CACHE_TTL_SEC", "60")
	t.Setenv("DEFAULT_WINDOW_BARS", "not-a-number")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StoreBackend != BackendPostgres || cfg.MaxPageSize != 25 || cfg.CacheTTL != time.Minute {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.DefaultWindowBars != 30 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.DefaultWindowBars)
	}
	if !cfg.Production() {
		t.Error("expected production")
	}
}

func TestLoad_BackendRequiresConnection(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("MONGODB_URI", "")
	if _, err := Load(); err == nil {
		t.Error("expected error without MONGODB_URI")
	}

	t.Setenv("STORE_BACKEND", "cassandra")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	yaml := `
tickers:
  - key_ticker: AAPL
    index: stocks-eod_nasdaq
    name: Apple Inc.
  - key_ticker: MSFT
    index: stocks-eod_nasdaq
    name: Microsoft
  - key_ticker: ^GSPC
    index: stocks-eod_indices
    name: S&P 500
news_indexes:
  - markets_news
  - markets_news_crypto
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cat.Tickers) != 3 || cat.Tickers[2].KeyTicker != "^GSPC" || cat.Tickers[0].Name != "Apple Inc." {
		t.Errorf("unexpected catalog %+v", cat.Tickers)
	}

	bars := cat.BarIndexes()
	if len(bars) != 2 || bars[0] != "stocks-eod_nasdaq" || bars[1] != "stocks-eod_indices" {
		t.Errorf("unexpected bar indexes %v", bars)
	}
	news := cat.AllNewsIndexes(nil)
	if len(news) != 2 || news[0] != "markets_news" || news[1] != "markets_news_crypto" {
		t.Errorf("unexpected news indexes %v", news)
	}
	for _, b := range bars {
		for _, n := range news {
			if b == n {
				t.Errorf("index %q listed as both bar and news", b)
			}
		}
	}
}

func TestCatalog_NewsIndexesMergeEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("NEWS_INDEXES", " markets_news_fx, markets_news ,, ")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.NewsIndexes) != 2 || cfg.NewsIndexes[0] != "markets_news_fx" || cfg.NewsIndexes[1] != "markets_news" {
		t.Fatalf("NEWS_INDEXES = %v", cfg.NewsIndexes)
	}

	cat, err := ParseCatalog([]byte("tickers:\n  - key_ticker: AAPL\n    index: stocks_eod\nnews_indexes: [markets_news]\n"))
	if err != nil {
		t.Fatal(err)
	}
	got := cat.AllNewsIndexes(cfg.NewsIndexes)
	if len(got) != 2 || got[0] != "markets_news" || got[1] != "markets_news_fx" {
		t.Errorf("merged news indexes = %v", got)
	}
	if bars := cat.BarIndexes(); len(bars) != 1 || bars[0] != "stocks_eod" {
		t.Errorf("bar indexes = %v", bars)
	}
}

func TestLoadCatalog_EmptyPathAndErrors(t *testing.T) {
	cat, err := LoadCatalog("")
	if err != nil || cat.Tickers == nil || len(cat.Tickers) != 0 || len(cat.BarIndexes()) != 0 || len(cat.AllNewsIndexes(nil)) != 0 {
		t.Errorf("empty path: got %+v, %v", cat, err)
	}

	if _, err := ParseCatalog([]byte("tickers:\n  - name: missing fields\n")); err == nil {
		t.Error("expected error for entry without key_ticker/index")
	}
	if _, err := ParseCatalog([]byte("news_indexes: [\"\"]\n")); err == nil {
		t.Error("expected error for blank news index")
	}
	if _, err := ParseCatalog([]byte("tickers: [")); err == nil {
		t.Error("expected YAML parse error")
	}
}
