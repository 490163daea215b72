package handlers

import (
	"net/http"

	"github.com/SscSPs/sadaqah_box_app/internal/metrics"
	"github.com/gin-gonic/gin"
)

// getHealth godoc
// @Summary Show the status of server.
// @Tags root
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /health [get]
func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func registerOpsRoutes(r *gin.Engine) {
	r.GET("/health", getHealth)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
