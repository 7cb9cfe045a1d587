package models

import (
	"time"

	"gorm.io/datatypes"
)

// Well-known setting names.
const (
	SettingWebrtc     = "webrtc"
	SettingTeacherCam = "teacherCam"
)

// CamSettingName is the per-username camera-active setting key.
func CamSettingName(username string) string { return "cam_" + username }

// Setting stores feature toggles and small state blobs keyed by name.
type Setting struct {
	Name      string         `gorm:"primaryKey;size:128" json:"name"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }

// WebrtcConfig is the teacher-managed feed/recording toggle blob stored
// under SettingWebrtc.
type WebrtcConfig struct {
	Feeds     bool `json:"feeds"`
	Recording bool `json:"recording"`
}

// CamState is the per-student camera flag stored under cam_<username>.
type CamState struct {
	Active bool      `json:"active"`
	Ts     time.Time `json:"ts"`
}
