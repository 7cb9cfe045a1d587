package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuraledu/proctor_backend_v1/internal/dashboard"
)

// DashboardController serves the teacher's monitoring overview on demand;
// the same payload is pushed over the websocket every sync tick.
type DashboardController struct {
	Aggregator *dashboard.Aggregator
}

func (d *DashboardController) Overview(c *gin.Context) {
	ov, err := d.Aggregator.Overview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ov)
}
