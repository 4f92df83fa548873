package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"markets-engine/internal/model"
)

// newsDoc is the news document written by ingestion; _id is the md5 of
// key_url.
type newsDoc struct {
	ID            string            `bson:"_id"`
	KeyTicker     []string          `bson:"key_ticker,omitempty"`
	KeyURL        string            `bson:"key_url"`
	KeySource     string            `bson:"key_source"`
	DateReference string            `bson:"date_reference"`
	ObjImages     []model.NewsImage `bson:"obj_images,omitempty"`
	TextHeadline  string            `bson:"text_headline"`
	TextAuthor    string            `bson:"text_author,omitempty"`
	TextSummary   string            `bson:"text_summary"`
	TextContent   *string           `bson:"text_content,omitempty"`
}

func (d newsDoc) toHit() model.NewsHit {
	return model.NewsHit{
		Item: model.NewsItem{
			ID:        d.ID,
			URL:       d.KeyURL,
			Date:      d.DateReference,
			Source:    d.KeySource,
			Headline:  d.TextHeadline,
			Summary:   d.TextSummary,
			Content:   d.TextContent,
			Images:    d.ObjImages,
			KeyTicker: d.KeyTicker,
		},
		Sort: model.SortKey{Date: d.DateReference, ID: d.ID},
	}
}

func newsFilter(q model.NewsQuery) bson.D {
	filter := bson.D{}
	if q.Filter.ID != "" {
		filter = append(filter, bson.E{Key: "_id", Value: q.Filter.ID})
	}
	if q.Filter.KeyTicker != "" {
		// matches array membership
		filter = append(filter, bson.E{Key: "key_ticker", Value: q.Filter.KeyTicker})
	}
	if q.After != nil {
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "date_reference", Value: bson.D{{Key: "$lt", Value: q.After.Date}}}},
			bson.D{
				{Key: "date_reference", Value: q.After.Date},
				{Key: "_id", Value: bson.D{{Key: "$lt", Value: q.After.ID}}},
			},
		}})
	}
	return filter
}

// newsProjection drops the optional fields whose include flag is off.
func newsProjection(inc model.NewsInclude) bson.D {
	proj := bson.D{{Key: "text_author", Value: 0}}
	if !inc.TextContent {
		proj = append(proj, bson.E{Key: "text_content", Value: 0})
	}
	if !inc.KeyTicker {
		proj = append(proj, bson.E{Key: "key_ticker", Value: 0})
	}
	if !inc.Images {
		proj = append(proj, bson.E{Key: "obj_images", Value: 0})
	}
	return proj
}

func newsFindOptions(q model.NewsQuery) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "date_reference", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(q.Size)).
		SetProjection(newsProjection(q.Include))
}

// QueryNews reads one keyset page from the q.Index collection.
func (s *Store) QueryNews(ctx context.Context, q model.NewsQuery) (hits []model.NewsHit, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStore(backend, "query_news", start, err) }()

	cur, err := s.database.Collection(q.Index).Find(ctx, newsFilter(q), newsFindOptions(q))
	if err != nil {
		return nil, model.Upstream("mongo find "+q.Index, err)
	}
	var docs []newsDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, model.Upstream("mongo decode "+q.Index, err)
	}

	hits = make([]model.NewsHit, 0, len(docs))
	for _, d := range docs {
		hits = append(hits, d.toHit())
	}
	return hits, nil
}
