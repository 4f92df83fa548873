package markets

import (
	"context"
	"fmt"
	"log/slog"

	"markets-engine/internal/cursor"
	"markets-engine/internal/logger"
	"markets-engine/internal/model"
)

// NewsRequest is a validated news listing request.
type NewsRequest struct {
	Index   string
	Filter  model.NewsFilter
	Include model.NewsInclude
	Size    int
	After   *model.SortKey
}

// ListNews returns one keyset page of news for req. The returned cursor
// encodes the sort key of the last item and is "" on an empty page.
func (s *Service) ListNews(ctx context.Context, req NewsRequest) (model.NewsPage, error) {
	hits, err := s.news.QueryNews(ctx, model.NewsQuery{
		Index:   req.Index,
		Filter:  req.Filter,
		Include: req.Include,
		Size:    req.Size,
		After:   req.After,
	})
	if err != nil {
		slog.Error("news query failed", append(logger.LogWithTrace(ctx), "index", req.Index, "error", err)...)
		return model.NewsPage{}, fmt.Errorf("list news %s: %w", req.Index, err)
	}

	if len(hits) == 0 && req.Filter.ID != "" && req.After == nil {
		return model.NewsPage{}, model.NotFound("news item %s not found in %s", req.Filter.ID, req.Index)
	}
	if len(hits) > req.Size {
		hits = hits[:req.Size]
	}

	page := model.NewsPage{Items: make([]model.NewsItem, 0, len(hits))}
	for _, h := range hits {
		page.Items = append(page.Items, h.Item)
	}
	if len(hits) > 0 {
		page.Cursor = cursor.Encode(hits[len(hits)-1].Sort)
	}

	if s.metrics != nil {
		s.metrics.NewsPagesTotal.Inc()
		s.metrics.NewsItemsTotal.Add(float64(len(page.Items)))
	}
	return page, nil
}
