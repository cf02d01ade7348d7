package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// unmatchedRoute labels requests that hit no registered route so scanners
// cannot grow the path label set.
const unmatchedRoute = "unmatched"

// HTTPObserver logs each admin request and records its metrics under animus.
// Successful /health probes are counted but not logged.
func HTTPObserver(logger zerolog.Logger, animus string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()
		RecordHTTPRequest(animus, c.Request.Method, route, status, elapsed)

		if route == "/health" && status < 400 {
			return
		}
		event := logger.Debug()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Str("client_ip", c.ClientIP()).
			Msg("observability.HTTPObserver")
	}
}
