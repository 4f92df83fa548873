package validate

import (
	"strconv"

	"markets-engine/internal/indicator"
	"markets-engine/internal/model"
)

// IndicatorParams builds indicator parameters for kind from query values,
// starting from the documented defaults. get returns "" for absent keys.
func IndicatorParams(kind model.IndicatorKind, get func(key string) string) (indicator.Params, error) {
	p := indicator.DefaultParams(kind)

	ints := []struct {
		key string
		dst *int
	}{
		{"period", &p.Period},
		{"short_window", &p.ShortWindow},
		{"long_window", &p.LongWindow},
		{"signal_window", &p.SignalWindow},
		{"lookback", &p.Lookback},
		{"smooth_k", &p.SmoothK},
		{"smooth_d", &p.SmoothD},
	}
	for _, f := range ints {
		raw := get(f.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return indicator.Params{}, model.InvalidArgument(f.key, "must be an integer")
		}
		*f.dst = n
	}

	if raw := get("constant"); raw != "" {
		c, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return indicator.Params{}, model.InvalidArgument("constant", "must be a number")
		}
		p.Constant = c
	}

	if err := p.Validate(kind); err != nil {
		return indicator.Params{}, err
	}
	return p, nil
}
