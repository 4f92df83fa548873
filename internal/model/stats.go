package model

// StatsClose is the most-recent snapshot for a ticker over a window.
type StatsClose struct {
	KeyTicker        string  `json:"key_ticker"`
	MostRecentClose  float64 `json:"most_recent_close"`
	MostRecentOpen   float64 `json:"most_recent_open"`
	MostRecentHigh   float64 `json:"most_recent_high"`
	MostRecentLow    float64 `json:"most_recent_low"`
	MostRecentVolume float64 `json:"most_recent_volume"`
	MostRecentDate   string  `json:"most_recent_date"`
	PercentVariance  float64 `json:"percent_variance"`
}

// IndexedTicker is one catalog entry: a ticker and the index holding it.
type IndexedTicker struct {
	KeyTicker string `json:"key_ticker" yaml:"key_ticker"`
	Index     string `json:"index" yaml:"index"`
	Name      string `json:"name" yaml:"name"`
}
