// Package validate normalizes raw request input before any store query
// runs. Every failure is a *model.FieldError wrapping
// model.ErrInvalidArgument.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"markets-engine/internal/cursor"
	"markets-engine/internal/model"
)

const dateFields = "start_date, end_date"

var (
	indexPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9_.\-]*$`)
	tickerPattern = regexp.MustCompile(`^[A-Za-z0-9.\-^=]+$`)
)

// DateRange is a validated, optionally open, date interval.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDate parses a yyyy-mm-dd calendar date.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, model.InvalidArgument(field, "Date must be in yyyy-mm-dd format")
	}
	return t, nil
}

// OptionalDates validates start/end where either may be empty.
// When both are given start must be strictly before end.
func OptionalDates(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		t, err := ParseDate(dateFields, start)
		if err != nil {
			return DateRange{}, err
		}
		r.Start = &t
	}
	if end != "" {
		t, err := ParseDate(dateFields, end)
		if err != nil {
			return DateRange{}, err
		}
		r.End = &t
	}
	if r.Start != nil && r.End != nil && !r.Start.Before(*r.End) {
		return DateRange{}, model.InvalidArgument(dateFields, "Start date must be before end date")
	}
	return r, nil
}

// RequiredDates is OptionalDates with both bounds mandatory.
func RequiredDates(start, end string) (DateRange, error) {
	if start == "" || end == "" {
		return DateRange{}, model.InvalidArgument(dateFields, "Date is required")
	}
	return OptionalDates(start, end)
}

// Index checks an index (collection) name.
func Index(s string) error {
	if !indexPattern.MatchString(s) {
		return model.InvalidArgument("index", fmt.Sprintf("invalid index name %q", s))
	}
	return nil
}

// Ticker checks a ticker symbol.
func Ticker(s string) error {
	if !tickerPattern.MatchString(s) {
		return model.InvalidArgument("key_ticker", fmt.Sprintf("invalid ticker %q", s))
	}
	return nil
}

// PageSize parses a required page size in [1, max].
func PageSize(raw string, max int) (int, error) {
	if raw == "" {
		return 0, model.InvalidArgument("size", "size is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.InvalidArgument("size", "must be an integer")
	}
	if n < 1 || n > max {
		return 0, model.InvalidArgument("size", fmt.Sprintf("must be between 1 and %d", max))
	}
	return n, nil
}

// Cursor decodes an optional continuation token. Empty means first page.
func Cursor(raw string) (*model.SortKey, error) {
	if raw == "" {
		return nil, nil
	}
	k, err := cursor.Decode(raw)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// Flag parses an optional boolean query flag; empty is false.
func Flag(field, raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return false, model.InvalidArgument(field, "must be true or false")
	}
	return b, nil
}
