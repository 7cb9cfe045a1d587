package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/neuraledu/proctor_backend_v1/internal/auth"
	"github.com/neuraledu/proctor_backend_v1/internal/engine"
	"github.com/neuraledu/proctor_backend_v1/internal/middleware"
)

type AuthController struct {
	Engine    *engine.Engine
	JWTSecret string
	ExpiresIn time.Duration
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := a.Engine.RegisterStudent(req.Username, req.Password)
	if err != nil {
		status := authErrorStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registered", "username": st.Username})
}

func (a *AuthController) LoginStudent(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, err := a.Engine.LoginStudent(req.Username, req.Password)
	if err != nil {
		c.JSON(authErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	a.respondWithToken(c, ctx.Username, ctx.Role, ctx.ID)
}

func (a *AuthController) LoginTeacher(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, err := a.Engine.LoginTeacher(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	a.respondWithToken(c, ctx.Username, ctx.Role, ctx.ID)
}

// Logout tears the session down server-side: all timers cancelled, camera
// released, context discarded. The token itself simply expires.
func (a *AuthController) Logout(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	if err := a.Engine.Logout(claims.Username); err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "no active session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (a *AuthController) respondWithToken(c *gin.Context, username, role, sessionID string) {
	now := time.Now().UTC()
	claims := middleware.Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "neuraledu",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ExpiresIn)),
			Subject:   username,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.JWTSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(a.ExpiresIn.Seconds()),
		"role":         role,
		"session_id":   sessionID,
	})
}

// authErrorStatus maps the gate's error taxonomy onto HTTP statuses. All of
// these are inline, retryable outcomes.
func authErrorStatus(err error) int {
	var vErr *auth.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrIncorrectPassword):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
