package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuraledu/proctor_backend_v1/internal/engine"
	"github.com/neuraledu/proctor_backend_v1/internal/middleware"
	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
	"github.com/neuraledu/proctor_backend_v1/internal/syncer"
)

// SessionController exposes the student session commands: focus selection,
// quiz answers, Soft AI activation, camera and fullscreen signals.
type SessionController struct {
	Engine *engine.Engine
	Syncer *syncer.Scheduler
}

func username(c *gin.Context) string {
	claims, _ := middleware.ClaimsFrom(c)
	return claims.Username
}

type focusRequest struct {
	Focus models.Focus `json:"focus" binding:"required"`
}

func (s *SessionController) SelectFocus(c *gin.Context) {
	var req focusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := s.Engine.SelectFocus(username(c), req.Focus)
	if err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"points": st.Points, "badges": st.Badges, "sessions": st.Sessions})
}

func (s *SessionController) ActivateAi(c *gin.Context) {
	content, err := s.Engine.ActivateAi(username(c))
	if err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, content)
}

type quizAnswerRequest struct {
	QuestionIndex *int   `json:"question_index" binding:"required"`
	Option        string `json:"option" binding:"required"`
}

func (s *SessionController) AnswerQuiz(c *gin.Context) {
	var req quizAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.Engine.AnswerQuiz(username(c), *req.QuestionIndex, req.Option)
	if err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

type cameraRequest struct {
	Active bool `json:"active"`
	Denied bool `json:"denied"`
}

func (s *SessionController) Camera(c *gin.Context) {
	var req cameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Engine.CameraSignal(username(c), req.Active, req.Denied); err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": req.Active && !req.Denied})
}

type fullscreenSignalRequest struct {
	InFullscreen *bool `json:"in_fullscreen" binding:"required"`
}

// FullscreenSignal is the platform change notification relayed by the
// browsing context.
func (s *SessionController) FullscreenSignal(c *gin.Context) {
	var req fullscreenSignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Engine.FullscreenSignal(username(c), *req.InFullscreen); err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// FullscreenDenied reports that the platform rejected the fullscreen
// request; the session continues in the degraded blocked mode.
func (s *SessionController) FullscreenDenied(c *gin.Context) {
	if err := s.Engine.FullscreenDenied(username(c)); err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// Stay re-requests fullscreen during the grace period.
func (s *SessionController) Stay(c *gin.Context) {
	if err := s.Engine.StayInSession(username(c)); err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// ExitConfirm is the student voluntarily ending the session.
func (s *SessionController) ExitConfirm(c *gin.Context) {
	if err := s.Engine.ConfirmExit(username(c)); err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session ended"})
}

// State returns the live runtime snapshot for the session.
func (s *SessionController) State(c *gin.Context) {
	state, err := s.Engine.State(username(c))
	if err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// View returns the student's own document/media and score view (the same
// payload the sync loop pushes).
func (s *SessionController) View(c *gin.Context) {
	view, err := s.Syncer.BuildStudentView(username(c))
	if err != nil {
		c.JSON(engineErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

func engineErrorStatus(err error) int {
	var storageErr *store.StorageError
	switch {
	case errors.Is(err, engine.ErrNoActiveSession):
		return http.StatusConflict
	case errors.Is(err, engine.ErrAiLocked), errors.Is(err, engine.ErrNoQuiz):
		return http.StatusConflict
	case errors.Is(err, engine.ErrDocumentTooLarge), errors.Is(err, engine.ErrVideoTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
