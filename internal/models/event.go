package models

import "time"

// Event types logged by the engine.
const (
	EventSessionStart = "session_start"
	EventSessionEnd   = "session_end"
	EventFocus        = "focus"
	EventFsExit       = "fs_exit"
	EventFsEnter      = "fs_enter"
	EventAiActivate   = "ai_activate"
	EventUpload       = "upload"
)

// Event is an append-only log row. Never mutated or deleted.
type Event struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Type     string    `gorm:"size:32;index" json:"type"`
	Username string    `gorm:"size:64;index" json:"username"`
	Message  string    `json:"message"`
	Color    string    `gorm:"size:16" json:"color"`
	Ts       time.Time `gorm:"index" json:"ts"`
}

func (Event) TableName() string { return "events" }
