package markets

import (
	"context"
	"sort"
	"time"

	"markets-engine/internal/model"
)

// memStore is an in-memory BarStore + NewsStore used by the tests.
type memStore struct {
	bars     map[string][]model.Bar // key: index/ticker
	news     map[string][]model.NewsHit
	err      error
	lastBars model.BarQuery
	barCalls int
}

func newMemStore() *memStore {
	return &memStore{bars: map[string][]model.Bar{}, news: map[string][]model.NewsHit{}}
}

func (m *memStore) QueryBars(ctx context.Context, q model.BarQuery) ([]model.Bar, error) {
	m.barCalls++
	m.lastBars = q
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Bar
	for _, b := range m.bars[q.Index+"/"+q.Ticker] {
		if q.Start != nil && b.Date.Before(*q.Start) {
			continue
		}
		if q.End != nil && b.Date.After(*q.End) {
			continue
		}
		out = append(out, b)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[len(out)-q.Limit:]
	}
	return out, nil
}

func (m *memStore) QueryNews(ctx context.Context, q model.NewsQuery) ([]model.NewsHit, error) {
	if m.err != nil {
		return nil, m.err
	}
	hits := append([]model.NewsHit(nil), m.news[q.Index]...)
	sort.Slice(hits, func(i, j int) bool { return after(hits[i].Sort, hits[j].Sort) })

	var out []model.NewsHit
	for _, h := range hits {
		if q.Filter.ID != "" && h.Item.ID != q.Filter.ID {
			continue
		}
		if q.After != nil && !after(*q.After, h.Sort) {
			continue
		}
		out = append(out, h)
		if len(out) == q.Size {
			break
		}
	}
	return out, nil
}

// after reports whether b sorts strictly after a in descending order.
func after(a, b model.SortKey) bool {
	if a.Date != b.Date {
		return b.Date < a.Date
	}
	return b.ID < a.ID
}

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }
