package mw

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"laundry-reservation/internal/metrics"
)

// Instrument counts requests by method, matched route and status code.
func Instrument(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.GatewayRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
