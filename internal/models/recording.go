package models

import "time"

// Recording is an append-only marker list (snapshots taken from the
// teacher video panel).
type Recording struct {
	ID    uint      `gorm:"primaryKey" json:"id"`
	Label string    `gorm:"size:255" json:"label"`
	Ts    time.Time `json:"ts"`
	Kind  string    `gorm:"size:32" json:"kind"`
}

func (Recording) TableName() string { return "recordings" }
