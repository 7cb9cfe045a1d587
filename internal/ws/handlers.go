package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/neuraledu/proctor_backend_v1/internal/auth"
	"github.com/neuraledu/proctor_backend_v1/internal/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; rely on JWT auth.
		return true
	},
}

// DashboardHandler upgrades a teacher connection onto the dashboard hub.
func DashboardHandler(hubs *Hubs) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if claims.Role != auth.RoleTeacher {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := newDashboardClient(hubs.Dashboard, conn)
		hubs.Dashboard.register <- client

		go client.writePump()
		client.readPump()
	}
}

// StudentHandler upgrades a student connection onto the notify hub.
func StudentHandler(hubs *Hubs) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if claims.Role != auth.RoleStudent {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		client := newStudentClient(hubs.Student, conn, claims.Username)
		hubs.Student.register <- client

		go client.writePump()
		client.readPump()
	}
}
