package validate

import (
	"errors"
	"testing"

	"markets-engine/internal/cursor"
	"markets-engine/internal/indicator"
	"markets-engine/internal/model"
)

func assertInvalid(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, model.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestOptionalDates(t *testing.T) {
	r, err := OptionalDates("", "")
	if err != nil || r.Start != nil || r.End != nil {
		t.Fatalf("expected open range, got %+v, %v", r, err)
	}

	r, err = OptionalDates("2025-01-02", "")
	if err != nil || r.Start == nil || r.End != nil {
		t.Fatalf("expected start only, got %+v, %v", r, err)
	}

	r, err = OptionalDates("2025-01-02", "2025-02-03")
	if err != nil {
		t.Fatal(err)
	}
	if r.Start.Format(model.DateLayout) != "2025-01-02" || r.End.Format(model.DateLayout) != "2025-02-03" {
		t.Errorf("unexpected range %v..%v", r.Start, r.End)
	}
}

func TestOptionalDates_Invalid(t *testing.T) {
	cases := []struct{ name, start, end string }{
		{"equal", "2025-01-02", "2025-01-02"},
		{"reversed", "2025-03-01", "2025-01-02"},
		{"invalid month", "2025-13-01", ""},
		{"invalid day", "", "2025-02-30"},
		{"wrong layout", "02/01/2025", ""},
		{"timestamp", "2025-01-02T00:00:00Z", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OptionalDates(tc.start, tc.end)
			assertInvalid(t, err)
		})
	}
}

func TestRequiredDates(t *testing.T) {
	_, err := RequiredDates("2025-01-02", "")
	assertInvalid(t, err)
	_, err = RequiredDates("", "2025-01-02")
	assertInvalid(t, err)
	_, err = RequiredDates("2025-01-05", "2025-01-02")
	assertInvalid(t, err)

	if _, err := RequiredDates("2025-01-02", "2025-01-05"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestIndexAndTicker(t *testing.T) {
	for _, ok := range []string{"stocks-eod_nasdaq", "news.us", "sp500"} {
		if err := Index(ok); err != nil {
			t.Errorf("Index(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"", "_hidden", "Stocks", "a b", "a/b", "$where"} {
		assertInvalid(t, Index(bad))
	}

	for _, ok := range []string{"AAPL", "BRK.B", "^GSPC", "EURUSD=X", "RDS-A"} {
		if err := Ticker(ok); err != nil {
			t.Errorf("Ticker(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"", "AA PL", "A;B", `{"$gt":""}`} {
		assertInvalid(t, Ticker(bad))
	}
}

func TestPageSize(t *testing.T) {
	n, err := PageSize("25", 100)
	if err != nil || n != 25 {
		t.Fatalf("got %d, %v", n, err)
	}
	for _, bad := range []string{"", "0", "-1", "101", "ten"} {
		_, err := PageSize(bad, 100)
		assertInvalid(t, err)
	}
}

func TestCursor(t *testing.T) {
	k, err := Cursor("")
	if err != nil || k != nil {
		t.Fatalf("empty cursor: got %v, %v", k, err)
	}

	want := model.SortKey{Date: "2025-01-02", ID: "abc"}
	k, err = Cursor(cursor.Encode(want))
	if err != nil || k == nil || *k != want {
		t.Fatalf("got %v, %v", k, err)
	}

	_, err = Cursor("%%%")
	assertInvalid(t, err)
}

func TestFlag(t *testing.T) {
	for raw, want := range map[string]bool{"": false, "true": true, "True": true, "1": true, "false": false} {
		got, err := Flag("include_text_content", raw)
		if err != nil || got != want {
			t.Errorf("Flag(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	_, err := Flag("include_text_content", "yes")
	assertInvalid(t, err)
}

func TestIndicatorParams(t *testing.T) {
	query := func(m map[string]string) func(string) string {
		return func(k string) string { return m[k] }
	}

	p, err := IndicatorParams(model.KindCCI, query(nil))
	if err != nil {
		t.Fatal(err)
	}
	if p.Period != 20 || p.Constant != indicator.DefaultCCIConstant {
		t.Errorf("expected CCI defaults, got %+v", p)
	}

	p, err = IndicatorParams(model.KindMACD, query(map[string]string{"short_window": "5", "signal_window": "4"}))
	if err != nil {
		t.Fatal(err)
	}
	if p.ShortWindow != 5 || p.LongWindow != 26 || p.SignalWindow != 4 {
		t.Errorf("unexpected MACD params %+v", p)
	}

	bad := []struct {
		kind  model.IndicatorKind
		query map[string]string
	}{
		{model.KindRSI, map[string]string{"period": "0"}},
		{model.KindADX, map[string]string{"period": "-2"}},
		{model.KindRSI, map[string]string{"period": "fourteen"}},
		{model.KindCCI, map[string]string{"constant": "0"}},
		{model.KindCCI, map[string]string{"constant": "abc"}},
		{model.KindStoch, map[string]string{"smooth_k": "0"}},
	}
	for _, tc := range bad {
		_, err := IndicatorParams(tc.kind, query(tc.query))
		assertInvalid(t, err)
	}
}
