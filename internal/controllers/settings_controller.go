package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuraledu/proctor_backend_v1/internal/engine"
	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

// SettingsController covers the teacher's WebRTC toggles and the recording
// marker log.
type SettingsController struct {
	Engine *engine.Engine
	Store  *store.Store
}

func (s *SettingsController) GetWebrtc(c *gin.Context) {
	cfg, err := s.Engine.WebrtcConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *SettingsController) SetWebrtc(c *gin.Context) {
	var cfg models.WebrtcConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Engine.SetWebrtcConfig(cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *SettingsController) Recordings(c *gin.Context) {
	recs, err := s.Store.Recordings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (s *SettingsController) Snapshot(c *gin.Context) {
	rec, err := s.Engine.SaveSnapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}
