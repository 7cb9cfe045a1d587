package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/neuraledu/proctor_backend_v1/internal/auth"
	"github.com/neuraledu/proctor_backend_v1/internal/config"
	"github.com/neuraledu/proctor_backend_v1/internal/controllers"
	"github.com/neuraledu/proctor_backend_v1/internal/middleware"
	"github.com/neuraledu/proctor_backend_v1/internal/ws"
)

type Deps struct {
	Config    *config.Config
	Auth      *controllers.AuthController
	Session   *controllers.SessionController
	Media     *controllers.MediaController
	Dashboard *controllers.DashboardController
	Settings  *controllers.SettingsController
	Hubs      *ws.Hubs
}

func Register(r *gin.Engine, d Deps) {
	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", d.Auth.Register)
		authGroup.POST("/login", d.Auth.LoginStudent)
		authGroup.POST("/teacher/login", d.Auth.LoginTeacher)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(d.Config.JWTSecret))
	{
		authed.POST("/auth/logout", d.Auth.Logout)

		student := authed.Group("/session")
		student.Use(middleware.RequireRoles(auth.RoleStudent))
		{
			student.GET("/state", d.Session.State)
			student.GET("/view", d.Session.View)
			student.POST("/focus", d.Session.SelectFocus)
			student.POST("/ai/activate", d.Session.ActivateAi)
			student.POST("/quiz/answer", d.Session.AnswerQuiz)
			student.POST("/camera", d.Session.Camera)
			student.POST("/fullscreen", d.Session.FullscreenSignal)
			student.POST("/fullscreen/denied", d.Session.FullscreenDenied)
			student.POST("/stay", d.Session.Stay)
			student.POST("/exit", d.Session.ExitConfirm)
		}

		teacher := authed.Group("/teacher")
		teacher.Use(middleware.RequireRoles(auth.RoleTeacher))
		{
			teacher.GET("/dashboard", d.Dashboard.Overview)
			teacher.GET("/media", d.Media.List)
			teacher.POST("/media/document", d.Media.UploadDocument)
			teacher.POST("/media/video", d.Media.UploadVideo)
			teacher.DELETE("/media/:id", d.Media.Delete)
			teacher.GET("/webrtc", d.Settings.GetWebrtc)
			teacher.PUT("/webrtc", d.Settings.SetWebrtc)
			teacher.GET("/recordings", d.Settings.Recordings)
			teacher.POST("/recordings/snapshot", d.Settings.Snapshot)
		}

		wsGroup := authed.Group("/ws")
		{
			wsGroup.GET("/dashboard", ws.DashboardHandler(d.Hubs))
			wsGroup.GET("/session", ws.StudentHandler(d.Hubs))
		}
	}
}
