// cmd/backtest replays end-of-day bars stored in SQLite through the
// indicator library, optionally loading a CSV of bars or a JSON file of
// news documents first.
//
// Usage:
//
//	go run ./cmd/backtest --db=data/markets.db --index=nasdaq --ticker=AAPL \
//		--from=2024-01-01 --to=2024-06-30 --kinds=rsi,macd,stoch
//	go run ./cmd/backtest --load=aapl.csv --index=nasdaq --ticker=AAPL
//	go run ./cmd/backtest --load-news=news.json --news-index=markets_news
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"markets-engine/internal/indicator"
	"markets-engine/internal/logger"
	"markets-engine/internal/markets"
	"markets-engine/internal/model"
	"markets-engine/internal/store/sqlite"
	"markets-engine/internal/validate"
)

func main() {
	dbPath := flag.String("db", "data/markets.db", "Path to SQLite database")
	index := flag.String("index", "", "Index name")
	ticker := flag.String("ticker", "", "Ticker")
	from := flag.String("from", "", "Start date yyyy-mm-dd")
	to := flag.String("to", "", "End date yyyy-mm-dd")
	kinds := flag.String("kinds", "rsi,macd", "Comma-separated indicators")
	load := flag.String("load", "", "CSV of date,open,high,low,close,volume to upsert before replay")
	loadNews := flag.String("load-news", "", "JSON array of news documents to upsert")
	newsIndex := flag.String("news-index", "", "News index for --load-news")
	tail := flag.Int("tail", 5, "Points printed per indicator")
	level := flag.String("log", "info", "Log level")
	flag.Parse()

	logger.Init("backtest", logger.ParseLevel(*level))

	replay := *ticker != "" || *load != ""
	if replay {
		if err := validate.Index(*index); err != nil {
			fatal("invalid --index", err)
		}
		if err := validate.Ticker(*ticker); err != nil {
			fatal("invalid --ticker", err)
		}
	}
	if *loadNews != "" {
		if err := validate.Index(*newsIndex); err != nil {
			fatal("invalid --news-index", err)
		}
	}
	if !replay && *loadNews == "" {
		fatal("nothing to do", errors.New("set --ticker, --load or --load-news"))
	}
	dates, err := validate.OptionalDates(*from, *to)
	if err != nil {
		fatal("invalid date range", err)
	}
	ks, err := parseKinds(*kinds)
	if err != nil {
		fatal("invalid --kinds", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	store, err := sqlite.Open(*dbPath, nil)
	if err != nil {
		fatal("sqlite open failed", err)
	}
	defer store.Close()

	if *load != "" {
		bars, err := readBarsCSV(*load)
		if err != nil {
			fatal("csv load failed", err)
		}
		if err := store.UpsertBars(ctx, *index, *ticker, bars); err != nil {
			fatal("bar upsert failed", err)
		}
		slog.Info("bars loaded", "file", *load, "count", len(bars))
	}

	svc := markets.NewService(store, store, markets.Options{}, nil)

	if *loadNews != "" {
		docs, err := readNewsJSON(*loadNews)
		if err != nil {
			fatal("news load failed", err)
		}
		if err := store.UpsertNews(ctx, *newsIndex, docs); err != nil {
			fatal("news upsert failed", err)
		}
		slog.Info("news loaded", "file", *loadNews, "index", *newsIndex, "count", len(docs))

		page, err := svc.ListNews(ctx, markets.NewsRequest{Index: *newsIndex, Size: 5})
		if err != nil {
			fatal("list news failed", err)
		}
		fmt.Printf("%s: latest %d news items\n", *newsIndex, len(page.Items))
		for _, it := range page.Items {
			fmt.Printf("  %s %s %s\n", it.Date, it.ID, it.Headline)
		}
	}
	if !replay {
		return
	}

	ts, err := svc.FetchBars(ctx, *ticker, *index, dates.Start, dates.End)
	if err != nil {
		fatal("fetch bars failed", err)
	}

	stats, err := svc.CloseStats(ctx, *ticker, *index, dates.Start, dates.End)
	if err != nil {
		fatal("close stats failed", err)
	}

	fmt.Printf("%s/%s: %d bars %s..%s, close %.4f, variance %.2f%%\n",
		*index, *ticker, ts.Len(), ts.Bars[0].Day(), stats.MostRecentDate,
		stats.MostRecentClose, stats.PercentVariance)

	enc := json.NewEncoder(os.Stdout)
	for _, k := range ks {
		p := indicator.DefaultParams(k)
		series, err := indicator.Compute(k, ts, p)
		if err != nil {
			fatal("compute failed", err)
		}
		if series.Empty() {
			fmt.Printf("  %-6s insufficient data (warm-up %d bars)\n", k, indicator.WarmUp(k, p))
			continue
		}
		pts := series.Points
		if *tail > 0 && len(pts) > *tail {
			pts = pts[len(pts)-*tail:]
		}
		fmt.Printf("  %-6s %d points, last %d:\n", k, len(series.Points), len(pts))
		for _, pt := range pts {
			fmt.Print("    ")
			if err := enc.Encode(pt); err != nil {
				fatal("encode failed", err)
			}
		}
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func parseKinds(s string) ([]model.IndicatorKind, error) {
	var out []model.IndicatorKind
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, err := model.ParseIndicatorKind(part)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil, errors.New("no indicators given")
	}
	return out, nil
}

// readBarsCSV reads date,open,high,low,close,volume rows. A header row is
// skipped when its first cell is not a date.
func readBarsCSV(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseBarsCSV(f)
}

func parseBarsCSV(r io.Reader) ([]model.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6
	cr.TrimLeadingSpace = true

	var bars []model.Bar
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		date, err := time.Parse(model.DateLayout, rec[0])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: bad date %q", line, rec[0])
		}
		var vals [5]float64
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, i+2, err)
			}
		}
		bars = append(bars, model.Bar{
			Date: date, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vals[4],
		})
	}
	return bars, nil
}

// newsRecord is one entry of a --load-news file: the served item fields plus
// the author, which is stored but never served.
type newsRecord struct {
	model.NewsItem
	Author string `json:"author"`
}

func readNewsJSON(path string) ([]sqlite.NewsDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseNewsJSON(f)
}

// parseNewsJSON decodes a JSON array of news records. Every record needs an
// id and a yyyy-mm-dd date, which together form its sort key.
func parseNewsJSON(r io.Reader) ([]sqlite.NewsDocument, error) {
	var recs []newsRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode news: %w", err)
	}
	docs := make([]sqlite.NewsDocument, 0, len(recs))
	for i, rec := range recs {
		if rec.ID == "" {
			return nil, fmt.Errorf("news record %d: id is required", i)
		}
		if _, err := time.Parse(model.DateLayout, rec.Date); err != nil {
			return nil, fmt.Errorf("news record %d: bad date %q", i, rec.Date)
		}
		docs = append(docs, sqlite.NewsDocument{Item: rec.NewsItem, Author: rec.Author})
	}
	return docs, nil
}
