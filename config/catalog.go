package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"markets-engine/internal/model"
)

// Catalog lists the tickers served at /markets/tickers and the news
// indexes. Bar indexes come from the tickers; news lives in its own
// indexes and is listed separately.
type Catalog struct {
	Tickers     []model.IndexedTicker `yaml:"tickers"`
	NewsIndexes []string              `yaml:"news_indexes"`
}

// LoadCatalog reads the YAML catalog at path. An empty path yields an
// empty catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{Tickers: []model.IndexedTicker{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog YAML and rejects ticker entries without a
// ticker or index and blank news index names.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, t := range c.Tickers {
		if t.KeyTicker == "" || t.Index == "" {
			return nil, fmt.Errorf("catalog entry %d: key_ticker and index are required", i)
		}
	}
	for i, idx := range c.NewsIndexes {
		if strings.TrimSpace(idx) == "" {
			return nil, fmt.Errorf("news_indexes entry %d is empty", i)
		}
	}
	if c.Tickers == nil {
		c.Tickers = []model.IndexedTicker{}
	}
	return &c, nil
}

// BarIndexes returns the distinct bar index names of the tickers, in
// first-seen order.
func (c *Catalog) BarIndexes() []string {
	names := make([]string, 0, len(c.Tickers))
	for _, t := range c.Tickers {
		names = append(names, t.Index)
	}
	return distinct(names)
}

// AllNewsIndexes merges the catalog news indexes with extra (NEWS_INDEXES),
// dropping duplicates.
func (c *Catalog) AllNewsIndexes(extra []string) []string {
	return distinct(append(append([]string(nil), c.NewsIndexes...), extra...))
}

func distinct(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
