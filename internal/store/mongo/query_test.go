package mongo

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"markets-engine/internal/model"
)

func day(s string) *time.Time {
	t, _ := time.Parse(model.DateLayout, s)
	return &t
}

func TestBarFilter(t *testing.T) {
	got := barFilter(model.BarQuery{Ticker: "AAPL", Start: day("2025-01-02"), End: day("2025-02-03")})
	want := bson.D{
		{Key: "key_ticker", Value: "AAPL"},
		{Key: "date_reference", Value: bson.D{
			{Key: "$gte", Value: "2025-01-02"},
			{Key: "$lte", Value: "2025-02-03"},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	open := barFilter(model.BarQuery{Ticker: "AAPL"})
	if len(open) != 1 {
		t.Errorf("open range should only filter ticker, got %v", open)
	}
}

func TestBarFindOptions(t *testing.T) {
	asc := barFindOptions(model.BarQuery{})
	if asc.Limit != nil {
		t.Errorf("range query must not be limited")
	}
	if !reflect.DeepEqual(asc.Sort, bson.D{{Key: "date_reference", Value: 1}}) {
		t.Errorf("unexpected sort %v", asc.Sort)
	}

	window := barFindOptions(model.BarQuery{Limit: 30})
	if window.Limit == nil || *window.Limit != 30 {
		t.Errorf("expected limit 30, got %v", window.Limit)
	}
	if !reflect.DeepEqual(window.Sort, bson.D{{Key: "date_reference", Value: -1}}) {
		t.Errorf("default window should read newest first, got %v", window.Sort)
	}
}

func TestNewsFilter_Keyset(t *testing.T) {
	got := newsFilter(model.NewsQuery{
		Filter: model.NewsFilter{KeyTicker: "AAPL"},
		After:  &model.SortKey{Date: "2025-03-01", ID: "abc"},
	})
	want := bson.D{
		{Key: "key_ticker", Value: "AAPL"},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "date_reference", Value: bson.D{{Key: "$lt", Value: "2025-03-01"}}}},
			bson.D{
				{Key: "date_reference", Value: "2025-03-01"},
				{Key: "_id", Value: bson.D{{Key: "$lt", Value: "abc"}}},
			},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if f := newsFilter(model.NewsQuery{}); len(f) != 0 {
		t.Errorf("first page without filters should match all, got %v", f)
	}
}

func TestNewsProjection(t *testing.T) {
	none := newsProjection(model.NewsInclude{})
	if len(none) != 4 {
		t.Errorf("expected 4 excluded fields, got %v", none)
	}
	all := newsProjection(model.NewsInclude{TextContent: true, KeyTicker: true, Images: true})
	if !reflect.DeepEqual(all, bson.D{{Key: "text_author", Value: 0}}) {
		t.Errorf("unexpected projection %v", all)
	}
}

func TestNewsFindOptions(t *testing.T) {
	opts := newsFindOptions(model.NewsQuery{Size: 25})
	if opts.Limit == nil || *opts.Limit != 25 {
		t.Errorf("expected limit 25, got %v", opts.Limit)
	}
	want := bson.D{{Key: "date_reference", Value: -1}, {Key: "_id", Value: -1}}
	if !reflect.DeepEqual(opts.Sort, want) {
		t.Errorf("unexpected sort %v", opts.Sort)
	}
}

func TestDocConversions(t *testing.T) {
	b, err := barDoc{KeyTicker: "AAPL", DateReference: "2025-01-02", ValOpen: 1, ValHigh: 2, ValLow: 0.5, ValClose: 1.5, ValVolume: 10}.toBar()
	if err != nil {
		t.Fatal(err)
	}
	if b.Day() != "2025-01-02" || b.Close != 1.5 || b.Volume != 10 {
		t.Errorf("unexpected bar %+v", b)
	}
	if _, err := (barDoc{DateReference: "01/02/2025"}).toBar(); err == nil {
		t.Error("expected error for malformed date_reference")
	}

	h := newsDoc{ID: "md5", KeyURL: "https://x", DateReference: "2025-01-02", TextHeadline: "h"}.toHit()
	if h.Sort != (model.SortKey{Date: "2025-01-02", ID: "md5"}) || h.Item.URL != "https://x" {
		t.Errorf("unexpected hit %+v", h)
	}
}
