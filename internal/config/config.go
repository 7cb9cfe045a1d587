package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port    string
	LogMode string

	// Store
	DBDriver   string // sqlite | postgres
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Auth
	JWTSecret       string
	JWTExpiresIn    time.Duration
	TeacherUsername string
	TeacherPassword string

	// Engine timing
	SyncInterval  time.Duration // teacher/student refresh poll
	AiUnlockDelay time.Duration // delay before Soft AI unlocks
	ExitGrace     time.Duration // fullscreen exit grace period

	// Dashboard feeds
	EventFeedLimit int
	ExitFeedLimit  int
}

func Load() *Config {
	return &Config{
		Port:    getenv("PORT", "8080"),
		LogMode: getenv("LOG_MODE", "dev"),

		DBDriver:   getenv("DB_DRIVER", "sqlite"),
		SQLitePath: getenv("SQLITE_PATH", "neuraledu.db"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "neuraledu_db"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret:       getenv("JWT_SECRET", "supersecret_change_me"),
		JWTExpiresIn:    time.Duration(getenvInt("JWT_EXPIRES_IN", 60)) * time.Minute,
		TeacherUsername: getenv("TEACHER_USERNAME", "teacher1"),
		TeacherPassword: getenv("TEACHER_PASSWORD", "123456"),

		SyncInterval:  time.Duration(getenvInt("SYNC_INTERVAL_MS", 3000)) * time.Millisecond,
		AiUnlockDelay: time.Duration(getenvInt("AI_UNLOCK_DELAY_SEC", 120)) * time.Second,
		ExitGrace:     time.Duration(getenvInt("EXIT_GRACE_SEC", 20)) * time.Second,

		EventFeedLimit: getenvInt("EVENT_FEED_LIMIT", 40),
		ExitFeedLimit:  getenvInt("EXIT_FEED_LIMIT", 20),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
