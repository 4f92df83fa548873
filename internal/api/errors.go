package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"markets-engine/internal/logger"
	"markets-engine/internal/model"
)

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes {"error": ...} and stops the handler chain.
// Server-side failures get a generic message; the detail goes to the log.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	c.Header("Cache-Control", "no-store")
	c.Error(err)

	body := gin.H{"error": err.Error()}
	var fe *model.FieldError
	if errors.As(err, &fe) {
		body["field"] = fe.Field
	}

	switch status {
	case http.StatusBadGateway:
		body = gin.H{"error": "upstream store unavailable"}
	case http.StatusInternalServerError:
		body = gin.H{"error": "internal server error"}
		slog.Error("unhandled error", append(logger.LogWithTrace(c.Request.Context()), "path", c.FullPath(), "error", err)...)
	}
	c.AbortWithStatusJSON(status, body)
}
