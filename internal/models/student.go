package models

import (
	"time"

	"gorm.io/datatypes"
)

// Student is the persistent per-user record. Created at registration and
// never deleted; counters only ever grow.
type Student struct {
	Username          string                         `gorm:"primaryKey;size:64" json:"username"`
	Password          string                         `json:"-"`
	Points            int                            `json:"points"`
	Badges            datatypes.JSONSlice[string]    `json:"badges"`
	Sessions          int                            `json:"sessions"`
	HighFocusSessions int                            `json:"high_focus_sessions"`
	AiSessions        int                            `json:"ai_sessions"`
	QuizCorrect       int                            `json:"quiz_correct"`
	FsExitCount       int                            `json:"fs_exit_count"`
	CreatedAt         time.Time                      `json:"created_at"`
	UpdatedAt         time.Time                      `json:"updated_at"`
}

func (Student) TableName() string { return "students" }

// HasBadge reports whether the badge id is already in the set.
func (s *Student) HasBadge(id string) bool {
	for _, b := range s.Badges {
		if b == id {
			return true
		}
	}
	return false
}
