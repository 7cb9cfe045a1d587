package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/neuraledu/proctor_backend_v1/internal/auth"
	"github.com/neuraledu/proctor_backend_v1/internal/config"
	"github.com/neuraledu/proctor_backend_v1/internal/controllers"
	"github.com/neuraledu/proctor_backend_v1/internal/dashboard"
	"github.com/neuraledu/proctor_backend_v1/internal/database"
	"github.com/neuraledu/proctor_backend_v1/internal/engine"
	"github.com/neuraledu/proctor_backend_v1/internal/pkg/logger"
	"github.com/neuraledu/proctor_backend_v1/internal/routes"
	"github.com/neuraledu/proctor_backend_v1/internal/scoring"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
	"github.com/neuraledu/proctor_backend_v1/internal/syncer"
	"github.com/neuraledu/proctor_backend_v1/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("database connection failed", "err", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", "err", err)
	}

	st := store.New(db, log)
	gate := auth.NewGate(st, cfg.TeacherUsername, cfg.TeacherPassword)
	score := scoring.NewEngine(st)
	agg := dashboard.NewAggregator(st, cfg.EventFeedLimit, cfg.ExitFeedLimit)
	sync := syncer.New(cfg.SyncInterval, st, agg, log)

	hubs := ws.NewHubs()
	hubs.Run()
	notifier := ws.NewNotifier(hubs)

	eng := engine.New(engine.Deps{
		Config:     cfg,
		Store:      st,
		Log:        log,
		Gate:       gate,
		Scoring:    score,
		Aggregator: agg,
		Syncer:     sync,
		Notifier:   notifier,
		Fullscreen: notifier,
		Capture:    notifier,
	})

	if cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	routes.Register(r, routes.Deps{
		Config: cfg,
		Auth: &controllers.AuthController{
			Engine:    eng,
			JWTSecret: cfg.JWTSecret,
			ExpiresIn: cfg.JWTExpiresIn,
		},
		Session:   &controllers.SessionController{Engine: eng, Syncer: sync},
		Media:     &controllers.MediaController{Engine: eng, Store: st},
		Dashboard: &controllers.DashboardController{Aggregator: agg},
		Settings:  &controllers.SettingsController{Engine: eng, Store: st},
		Hubs:      hubs,
	})

	log.Info("server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server exited", "err", err)
	}
}
