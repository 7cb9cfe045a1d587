package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/neuraledu/proctor_backend_v1/internal/config"
	"github.com/neuraledu/proctor_backend_v1/internal/models"
)

// Connect opens the record store. The default driver is an embedded sqlite
// file (single box, single writer per record); postgres is available for
// deployments that already run one.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		)
		return gorm.Open(postgres.Open(dsn), gcfg)
	default:
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Student{},
		&models.Session{},
		&models.Event{},
		&models.Media{},
		&models.Setting{},
		&models.Recording{},
	)
}
