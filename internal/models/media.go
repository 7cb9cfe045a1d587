package models

import "time"

// Media kinds. At most one record is retained per kind: a new upload
// replaces all prior records of that kind.
const (
	MediaDocument = "document"
	MediaVideo    = "video"
)

// Upload size limits in bytes.
const (
	MaxDocumentSize = 5 * 1024
	MaxVideoSize    = 10 * 1024 * 1024
)

type Media struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Kind    string    `gorm:"size:16;index" json:"kind"`
	Name    string    `gorm:"size:255" json:"name"`
	Size    int64     `json:"size"`
	Payload []byte    `json:"-"`
	Ts      time.Time `json:"ts"`
}

func (Media) TableName() string { return "media" }
