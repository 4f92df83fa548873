// Package indicator provides technical indicator calculations over
// end-of-day bar series.
//
// Every indicator is a pure function of an immutable model.TimeSeries and
// its parameters: the rolling accumulators used internally (ema, window,
// wilder) are created per call and never escape it. When the series is
// shorter than an indicator's warm-up the result is an empty series, never
// an error.
package indicator

import (
	"fmt"

	"markets-engine/internal/model"
)

// Params holds the lookback parameters for every indicator kind.
// Each kind only reads the fields it needs.
type Params struct {
	Period       int     `json:"period,omitempty"`
	Constant     float64 `json:"constant,omitempty"`
	ShortWindow  int     `json:"short_window,omitempty"`
	LongWindow   int     `json:"long_window,omitempty"`
	SignalWindow int     `json:"signal_window,omitempty"`
	Lookback     int     `json:"lookback,omitempty"`
	SmoothK      int     `json:"smooth_k,omitempty"`
	SmoothD      int     `json:"smooth_d,omitempty"`
}

// DefaultParams returns the documented defaults for kind.
func DefaultParams(kind model.IndicatorKind) Params {
	switch kind {
	case model.KindEMA:
		return Params{ShortWindow: 12, LongWindow: 26}
	case model.KindMACD:
		return Params{ShortWindow: 12, LongWindow: 26, SignalWindow: 9}
	case model.KindRSI, model.KindADX:
		return Params{Period: 14}
	case model.KindCCI:
		return Params{Period: 20, Constant: DefaultCCIConstant}
	case model.KindStoch:
		return Params{Lookback: 14, SmoothK: 3, SmoothD: 3}
	default:
		return Params{}
	}
}

// Validate checks that every lookback used by kind is strictly positive.
func (p Params) Validate(kind model.IndicatorKind) error {
	positive := func(field string, v int) error {
		if v <= 0 {
			return model.InvalidArgument(field, fmt.Sprintf("must be a positive integer, got %d", v))
		}
		return nil
	}

	switch kind {
	case model.KindAD, model.KindOBV:
		return nil
	case model.KindEMA:
		if err := positive("short_window", p.ShortWindow); err != nil {
			return err
		}
		return positive("long_window", p.LongWindow)
	case model.KindMACD:
		if err := positive("short_window", p.ShortWindow); err != nil {
			return err
		}
		if err := positive("long_window", p.LongWindow); err != nil {
			return err
		}
		return positive("signal_window", p.SignalWindow)
	case model.KindRSI, model.KindADX:
		return positive("period", p.Period)
	case model.KindCCI:
		if err := positive("period", p.Period); err != nil {
			return err
		}
		if !(p.Constant > 0) {
			return model.InvalidArgument("constant", fmt.Sprintf("must be positive, got %g", p.Constant))
		}
		return nil
	case model.KindStoch:
		if err := positive("lookback", p.Lookback); err != nil {
			return err
		}
		if err := positive("smooth_k", p.SmoothK); err != nil {
			return err
		}
		return positive("smooth_d", p.SmoothD)
	default:
		return model.InvalidArgument("indicator", fmt.Sprintf("unknown indicator kind %d", int(kind)))
	}
}

// WarmUp returns the minimum number of bars kind needs to emit its first
// point with parameters p.
func WarmUp(kind model.IndicatorKind, p Params) int {
	switch kind {
	case model.KindEMA:
		return max(p.ShortWindow, p.LongWindow)
	case model.KindMACD:
		return max(p.ShortWindow, p.LongWindow) + p.SignalWindow - 1
	case model.KindRSI:
		return p.Period + 1
	case model.KindADX:
		return 2 * p.Period
	case model.KindCCI:
		return p.Period
	case model.KindStoch:
		return p.Lookback + p.SmoothK + p.SmoothD - 2
	default:
		return 1
	}
}

// Compute validates p and dispatches to the indicator for kind.
func Compute(kind model.IndicatorKind, ts model.TimeSeries, p Params) (model.IndicatorSeries, error) {
	if err := p.Validate(kind); err != nil {
		return model.IndicatorSeries{}, err
	}

	switch kind {
	case model.KindAD:
		return AD(ts), nil
	case model.KindOBV:
		return OBV(ts), nil
	case model.KindEMA:
		return EMA(ts, p.ShortWindow, p.LongWindow), nil
	case model.KindMACD:
		return MACD(ts, p.ShortWindow, p.LongWindow, p.SignalWindow), nil
	case model.KindRSI:
		return RSI(ts, p.Period), nil
	case model.KindADX:
		return ADX(ts, p.Period), nil
	case model.KindCCI:
		return CCI(ts, p.Period, p.Constant), nil
	case model.KindStoch:
		return Stochastic(ts, p.Lookback, p.SmoothK, p.SmoothD), nil
	}
	// unreachable: Validate rejects unknown kinds
	return model.IndicatorSeries{}, model.InvalidArgument("indicator", kind.String())
}
