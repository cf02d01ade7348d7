package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danmuck/animus/internal/observability"
)

func (a *Admin) registerRoutes() {
	observability.RegisterMetrics()

	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"animus":  a.name,
			"uptime":  time.Since(a.appeared).Round(time.Second).String(),
			"version": a.version,
		})
	})

	guarded := a.router.Group("/", a.authorize)

	guarded.GET("/status", func(c *gin.Context) {
		state := a.state.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"animus":     state.Name,
			"complex":    state.Complex,
			"awake":      state.Awake,
			"structures": state.Structures,
			"outputs":    state.Outputs,
			"inputs":     state.Inputs,
			"tracts":     state.Tracts,
		})
	})

	guarded.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
