package model

import (
	"fmt"
	"strings"
)

// IndicatorKind enumerates the fixed set of indicators the engine computes.
type IndicatorKind int

const (
	KindAD IndicatorKind = iota
	KindOBV
	KindEMA
	KindMACD
	KindRSI
	KindADX
	KindCCI
	KindStoch
)

var kindNames = [...]string{
	KindAD:    "ad",
	KindOBV:   "obv",
	KindEMA:   "ema",
	KindMACD:  "macd",
	KindRSI:   "rsi",
	KindADX:   "adx",
	KindCCI:   "cci",
	KindStoch: "stoch",
}

// AllKinds lists every indicator kind in declaration order.
func AllKinds() []IndicatorKind {
	return []IndicatorKind{KindAD, KindOBV, KindEMA, KindMACD, KindRSI, KindADX, KindCCI, KindStoch}
}

func (k IndicatorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseIndicatorKind maps a name such as "rsi" or "indicator_rsi" to its kind.
func ParseIndicatorKind(s string) (IndicatorKind, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "indicator_")
	for i, n := range kindNames {
		if n == name {
			return IndicatorKind(i), nil
		}
	}
	return 0, InvalidArgument("indicator", fmt.Sprintf("unknown indicator %q", s))
}

// IndicatorPoint is one dated output value. The concrete type depends on
// the series kind: ScalarPoint, EMAPoint, MACDPoint or StochPoint.
type IndicatorPoint interface {
	Day() string
	isIndicatorPoint()
}

// ScalarPoint carries AD, OBV, ADX, RSI and CCI values.
type ScalarPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// EMAPoint carries the short and long EMA for one date.
type EMAPoint struct {
	Date     string  `json:"date"`
	ShortEMA float64 `json:"short_ema"`
	LongEMA  float64 `json:"long_ema"`
}

// MACDPoint carries the MACD line, its signal line and the histogram.
type MACDPoint struct {
	Date      string  `json:"date"`
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// StochPoint carries the smoothed %K and %D lines.
type StochPoint struct {
	Date     string  `json:"date"`
	PercentK float64 `json:"percent_k"`
	PercentD float64 `json:"percent_d"`
}

func (p ScalarPoint) Day() string { return p.Date }
func (p EMAPoint) Day() string    { return p.Date }
func (p MACDPoint) Day() string   { return p.Date }
func (p StochPoint) Day() string  { return p.Date }

func (ScalarPoint) isIndicatorPoint() {}
func (EMAPoint) isIndicatorPoint()    {}
func (MACDPoint) isIndicatorPoint()   {}
func (StochPoint) isIndicatorPoint()  {}

// IndicatorSeries is the output of one indicator over one ticker.
// Points is never nil so that an insufficient-data result encodes as [].
type IndicatorSeries struct {
	Ticker string           `json:"key_ticker"`
	Kind   IndicatorKind    `json:"-"`
	Name   string           `json:"indicator"`
	Points []IndicatorPoint `json:"data"`
}

// NewIndicatorSeries returns an empty series for ticker and kind.
func NewIndicatorSeries(ticker string, kind IndicatorKind, capacity int) IndicatorSeries {
	if capacity < 0 {
		capacity = 0
	}
	return IndicatorSeries{
		Ticker: ticker,
		Kind:   kind,
		Name:   kind.String(),
		Points: make([]IndicatorPoint, 0, capacity),
	}
}

// Empty reports whether the series has no points (insufficient data).
func (s IndicatorSeries) Empty() bool { return len(s.Points) == 0 }
