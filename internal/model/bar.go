package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar-date format used on the wire and in the stores.
const DateLayout = "2006-01-02"

// Bar is one end-of-day OHLCV observation for a ticker.
// Bars are immutable once read from a store.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Day returns the bar date formatted as yyyy-mm-dd.
func (b Bar) Day() string {
	return b.Date.Format(DateLayout)
}

// MarshalJSON encodes the date as a calendar day rather than a timestamp.
func (b Bar) MarshalJSON() ([]byte, error) {
	type alias Bar
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias: alias(b), Date: b.Day()})
}

// UnmarshalJSON accepts the calendar-day form produced by MarshalJSON.
func (b *Bar) UnmarshalJSON(data []byte) error {
	type alias Bar
	aux := struct {
		*alias
		Date string `json:"date"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d, err := time.Parse(DateLayout, aux.Date)
	if err != nil {
		return err
	}
	b.Date = d
	return nil
}

// TimeSeries is the ascending sequence of bars for one ticker inside
// [Start, End]. It may be empty or shorter than an indicator's warm-up.
type TimeSeries struct {
	Ticker string `json:"key_ticker"`
	Index  string `json:"index"`
	Bars   []Bar  `json:"bars"`
}

// Len returns the number of bars.
func (ts TimeSeries) Len() int { return len(ts.Bars) }

// Last returns the most recent bar. Callers must check Len first.
func (ts TimeSeries) Last() Bar { return ts.Bars[len(ts.Bars)-1] }

// Closes extracts the close prices in order.
func (ts TimeSeries) Closes() []float64 {
	out := make([]float64, len(ts.Bars))
	for i, b := range ts.Bars {
		out[i] = b.Close
	}
	return out
}

// BarQuery is the range query issued against a bar store.
// Nil Start/End mean the bound is open.
type BarQuery struct {
	Ticker string
	Index  string
	Start  *time.Time
	End    *time.Time
	// Limit applies only when both bounds are nil: the store returns the
	// most recent Limit bars.
	Limit int
}
