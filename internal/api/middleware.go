package api

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"markets-engine/internal/logger"
	"markets-engine/internal/metrics"
)

// RequestIDHeader carries the request trace id in and out.
const RequestIDHeader = "X-Request-ID"

// traceMiddleware attaches a trace id (incoming X-Request-ID or a fresh
// UUID) to the request context and echoes it back.
func traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tid := c.GetHeader(RequestIDHeader)
		if tid == "" || len(tid) > 128 {
			tid = logger.NewTraceID()
		}
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), tid))
		c.Header(RequestIDHeader, tid)
		c.Next()
	}
}

// requestLogger logs every request; errors and slow requests are raised
// above debug.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		attrs := append(logger.LogWithTrace(c.Request.Context()),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", float64(duration.Microseconds())/1000.0,
		)
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.Last().Error())
		}

		switch {
		case status >= 500:
			slog.Error("request failed", attrs...)
		case status >= 400 || duration > time.Second:
			slog.Warn("request", attrs...)
		default:
			slog.Debug("request", attrs...)
		}
	}
}

// metricsMiddleware records request counts and latency by route template.
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDur.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// cacheControl marks responses publicly cacheable for maxAge seconds.
// Error responses override it with no-store.
func cacheControl(maxAge int) gin.HandlerFunc {
	value := fmt.Sprintf("public, max-age=%d", maxAge)
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
