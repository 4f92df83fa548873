package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"markets-engine/internal/markets"
	"markets-engine/internal/model"
	"markets-engine/internal/validate"
)

// MarketsController handles the /markets routes.
type MarketsController struct {
	svc         *markets.Service
	maxPageSize int
	catalog     []model.IndexedTicker
}

// NewMarketsController creates a markets controller.
func NewMarketsController(svc *markets.Service, maxPageSize int, catalog []model.IndexedTicker) *MarketsController {
	return &MarketsController{svc: svc, maxPageSize: maxPageSize, catalog: catalog}
}

func indexAndTicker(c *gin.Context) (string, string, error) {
	index, ticker := c.Param("index"), c.Param("ticker")
	if err := validate.Index(index); err != nil {
		return "", "", err
	}
	if err := validate.Ticker(ticker); err != nil {
		return "", "", err
	}
	return index, ticker, nil
}

// GetStatsClose returns the most recent close stats for a ticker
// GET /markets/stats_close/:index/:ticker?start_date&end_date
func (mc *MarketsController) GetStatsClose(c *gin.Context) {
	index, ticker, err := indexAndTicker(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	dates, err := validate.OptionalDates(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	stats, err := mc.svc.CloseStats(c.Request.Context(), ticker, index, dates.Start, dates.End)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetNews returns one page of news
// GET /markets/news/:index?size&id&key_ticker&cursor&include_*
func (mc *MarketsController) GetNews(c *gin.Context) {
	req, err := mc.newsRequest(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	page, err := mc.svc.ListNews(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (mc *MarketsController) newsRequest(c *gin.Context) (markets.NewsRequest, error) {
	var req markets.NewsRequest

	req.Index = c.Param("index")
	if err := validate.Index(req.Index); err != nil {
		return req, err
	}

	size, err := validate.PageSize(c.Query("size"), mc.maxPageSize)
	if err != nil {
		return req, err
	}
	req.Size = size

	// empty strings count as absent
	req.Filter.ID = c.Query("id")
	req.Filter.KeyTicker = c.Query("key_ticker")
	if req.Filter.KeyTicker != "" {
		if err := validate.Ticker(req.Filter.KeyTicker); err != nil {
			return req, err
		}
	}

	if req.After, err = validate.Cursor(c.Query("cursor")); err != nil {
		return req, err
	}

	if req.Include.TextContent, err = validate.Flag("include_text_content", c.Query("include_text_content")); err != nil {
		return req, err
	}
	if req.Include.KeyTicker, err = validate.Flag("include_key_ticker", c.Query("include_key_ticker")); err != nil {
		return req, err
	}
	if req.Include.Images, err = validate.Flag("include_obj_images", c.Query("include_obj_images")); err != nil {
		return req, err
	}
	return req, nil
}

// GetIndicator computes one indicator over a required date range
// GET /markets/indicators/:index/:ticker/:kind?start_date&end_date&<params>
func (mc *MarketsController) GetIndicator(c *gin.Context) {
	index, ticker, err := indexAndTicker(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	kind, err := model.ParseIndicatorKind(c.Param("kind"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	dates, err := validate.RequiredDates(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	params, err := validate.IndicatorParams(kind, c.Query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	series, err := mc.svc.Indicator(c.Request.Context(), kind, ticker, index, dates.Start, dates.End, params)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// GetTickers returns the indexed ticker catalog
// GET /markets/tickers
func (mc *MarketsController) GetTickers(c *gin.Context) {
	c.JSON(http.StatusOK, mc.catalog)
}
