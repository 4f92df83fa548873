package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"markets-engine/internal/model"
)

// barDoc is the EOD document written by ingestion.
type barDoc struct {
	KeyTicker     string  `bson:"key_ticker"`
	DateReference string  `bson:"date_reference"`
	ValOpen       float64 `bson:"val_open"`
	ValHigh       float64 `bson:"val_high"`
	ValLow        float64 `bson:"val_low"`
	ValClose      float64 `bson:"val_close"`
	ValVolume     float64 `bson:"val_volume"`
}

func (d barDoc) toBar() (model.Bar, error) {
	date, err := time.Parse(model.DateLayout, d.DateReference)
	if err != nil {
		return model.Bar{}, fmt.Errorf("bad date_reference %q: %w", d.DateReference, err)
	}
	return model.Bar{Date: date, Open: d.ValOpen, High: d.ValHigh, Low: d.ValLow, Close: d.ValClose, Volume: d.ValVolume}, nil
}

func barFilter(q model.BarQuery) bson.D {
	filter := bson.D{{Key: "key_ticker", Value: q.Ticker}}
	dateRange := bson.D{}
	if q.Start != nil {
		dateRange = append(dateRange, bson.E{Key: "$gte", Value: q.Start.Format(model.DateLayout)})
	}
	if q.End != nil {
		dateRange = append(dateRange, bson.E{Key: "$lte", Value: q.End.Format(model.DateLayout)})
	}
	if len(dateRange) > 0 {
		filter = append(filter, bson.E{Key: "date_reference", Value: dateRange})
	}
	return filter
}

// barFindOptions sorts ascending, or descending with a limit for the
// default window (the caller reverses).
func barFindOptions(q model.BarQuery) *options.FindOptions {
	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}})
	if q.Limit > 0 {
		return opts.SetSort(bson.D{{Key: "date_reference", Value: -1}}).SetLimit(int64(q.Limit))
	}
	return opts.SetSort(bson.D{{Key: "date_reference", Value: 1}})
}

// QueryBars reads bars for q from the q.Index collection, ascending.
func (s *Store) QueryBars(ctx context.Context, q model.BarQuery) (bars []model.Bar, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore(backend, "query_bars", start, err) }()

	cur, err := s.database.Collection(q.Index).Find(ctx, barFilter(q), barFindOptions(q))
	if err != nil {
		return nil, model.Upstream("mongo find "+q.Index, err)
	}
	var docs []barDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, model.Upstream("mongo decode "+q.Index, err)
	}

	bars = make([]model.Bar, 0, len(docs))
	for _, d := range docs {
		b, err := d.toBar()
		if err != nil {
			return nil, model.Upstream("mongo decode "+q.Index, err)
		}
		bars = append(bars, b)
	}
	if q.Limit > 0 {
		for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
			bars[i], bars[j] = bars[j], bars[i]
		}
	}
	return bars, nil
}
