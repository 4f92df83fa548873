// Package api exposes the markets read operations over HTTP with gin.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markets-engine/internal/markets"
	"markets-engine/internal/metrics"
	"markets-engine/internal/model"
)

// Options configures the router.
type Options struct {
	MaxPageSize        int
	CacheControlMaxAge int
	Catalog            []model.IndexedTicker
	Metrics            *metrics.Metrics
}

// NewRouter builds the gin engine with middleware and the /markets routes.
func NewRouter(svc *markets.Service, opts Options) *gin.Engine {
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.Catalog == nil {
		opts.Catalog = []model.IndexedTicker{}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(traceMiddleware())
	router.Use(requestLogger())
	router.Use(metricsMiddleware(opts.Metrics))

	mc := NewMarketsController(svc, opts.MaxPageSize, opts.Catalog)

	m := router.Group("/markets", cacheControl(opts.CacheControlMaxAge))
	{
		m.GET("/stats_close/:index/:ticker", mc.GetStatsClose)
		m.GET("/news/:index", mc.GetNews)
		m.GET("/indicators/:index/:ticker/:kind", mc.GetIndicator)
		m.GET("/tickers", mc.GetTickers)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return router
}
