package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"markets-engine/internal/model"
)

// StockEOD is one end-of-day bar row.
type StockEOD struct {
	IndexName     string          `gorm:"primaryKey;size:128"`
	KeyTicker     string          `gorm:"primaryKey;size:32"`
	DateReference string          `gorm:"primaryKey;size:10"`
	ValOpen       decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	ValHigh       decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	ValLow        decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	ValClose      decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	ValVolume     decimal.Decimal `gorm:"type:decimal(24,4);not null;default:0"`
}

// TableName overrides the gorm default.
func (StockEOD) TableName() string { return "stocks_eod" }

func (r StockEOD) toBar() (model.Bar, error) {
	date, err := time.Parse(model.DateLayout, r.DateReference)
	if err != nil {
		return model.Bar{}, fmt.Errorf("bad date_reference %q: %w", r.DateReference, err)
	}
	return model.Bar{
		Date:   date,
		Open:   r.ValOpen.InexactFloat64(),
		High:   r.ValHigh.InexactFloat64(),
		Low:    r.ValLow.InexactFloat64(),
		Close:  r.ValClose.InexactFloat64(),
		Volume: r.ValVolume.InexactFloat64(),
	}, nil
}

// MarketsNews is one news row. KeyTicker and ObjImages hold JSON arrays.
type MarketsNews struct {
	IndexName     string  `gorm:"primaryKey;size:128;index:idx_markets_news_sort,priority:1"`
	ID            string  `gorm:"primaryKey;size:64;index:idx_markets_news_sort,priority:3,sort:desc"`
	KeyURL        string  `gorm:"not null;default:''"`
	KeySource     string  `gorm:"not null;default:''"`
	KeyTicker     string  `gorm:"type:jsonb;not null;default:'[]'"`
	DateReference string  `gorm:"size:10;not null;index:idx_markets_news_sort,priority:2,sort:desc"`
	ObjImages     string  `gorm:"type:jsonb;not null;default:'[]'"`
	TextHeadline  string  `gorm:"not null;default:''"`
	TextAuthor    string  `gorm:"not null;default:''"`
	TextSummary   string  `gorm:"not null;default:''"`
	TextContent   *string `gorm:"type:text"`
}

// TableName overrides the gorm default.
func (MarketsNews) TableName() string { return "markets_news" }

func (r MarketsNews) toHit(inc model.NewsInclude) (model.NewsHit, error) {
	it := model.NewsItem{
		ID:       r.ID,
		URL:      r.KeyURL,
		Date:     r.DateReference,
		Source:   r.KeySource,
		Headline: r.TextHeadline,
		Summary:  r.TextSummary,
	}
	if inc.TextContent {
		it.Content = r.TextContent
	}
	if inc.KeyTicker && r.KeyTicker != "" {
		if err := json.Unmarshal([]byte(r.KeyTicker), &it.KeyTicker); err != nil {
			return model.NewsHit{}, fmt.Errorf("decode key_ticker: %w", err)
		}
	}
	if inc.Images && r.ObjImages != "" {
		if err := json.Unmarshal([]byte(r.ObjImages), &it.Images); err != nil {
			return model.NewsHit{}, fmt.Errorf("decode obj_images: %w", err)
		}
	}
	return model.NewsHit{Item: it, Sort: model.SortKey{Date: r.DateReference, ID: r.ID}}, nil
}
