package models

import "time"

// Focus is the self-reported attention level picked once per study session.
type Focus string

const (
	FocusNone   Focus = ""
	FocusHigh   Focus = "High"
	FocusMedium Focus = "Medium"
	FocusLow    Focus = "Low"
)

// FocusPoints maps a focus level to its fixed point award.
var FocusPoints = map[Focus]int{
	FocusHigh:   100,
	FocusMedium: 50,
	FocusLow:    10,
}

// FocusColors are the event-feed colors per focus level.
var FocusColors = map[Focus]string{
	FocusHigh:   "#00ff88",
	FocusMedium: "#ffd60a",
	FocusLow:    "#ff2d55",
}

// Session is the live (and, after logout, historical) study session row.
// One row per username; re-login resets it.
type Session struct {
	Username       string     `gorm:"primaryKey;size:64" json:"username"`
	Focus          Focus      `gorm:"size:16" json:"focus"`
	Points         int        `json:"points"`
	StartTime      time.Time  `json:"start_time"`
	LastSeen       time.Time  `json:"last_seen"`
	AiUsed         bool       `json:"ai_used"`
	FsInFullscreen bool       `json:"fs_in_fullscreen"`
	FsExitCount    int        `json:"fs_exit_count"`
	LastExit       *time.Time `json:"last_exit,omitempty"`
}

func (Session) TableName() string { return "sessions" }
