package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

const (
	maxDocumentSize = models.MaxDocumentSize
	maxVideoSize    = models.MaxVideoSize
)

// UploadDocument accepts a text document up to 5 KB. Oversize payloads are
// rejected with no store mutation; an accepted upload replaces every prior
// document so exactly one is retained.
func (e *Engine) UploadDocument(name string, payload []byte) (*models.Media, error) {
	if len(payload) > maxDocumentSize {
		return nil, ErrDocumentTooLarge
	}
	m := &models.Media{
		Kind:    models.MediaDocument,
		Name:    name,
		Size:    int64(len(payload)),
		Payload: payload,
		Ts:      time.Now(),
	}
	if err := e.store.ReplaceMedia(m); err != nil {
		return nil, err
	}
	e.store.LogEvent(models.EventUpload, e.cfg.TeacherUsername,
		fmt.Sprintf("Uploaded document: %s", name), "#00d4ff")
	return m, nil
}

// UploadVideo accepts a lesson video up to 10 MB with the same
// single-slot-per-kind semantics.
func (e *Engine) UploadVideo(name string, payload []byte) (*models.Media, error) {
	if len(payload) > maxVideoSize {
		return nil, ErrVideoTooLarge
	}
	m := &models.Media{
		Kind:    models.MediaVideo,
		Name:    name,
		Size:    int64(len(payload)),
		Payload: payload,
		Ts:      time.Now(),
	}
	if err := e.store.ReplaceMedia(m); err != nil {
		return nil, err
	}
	e.store.LogEvent(models.EventUpload, e.cfg.TeacherUsername,
		fmt.Sprintf("Uploaded video: %s", name), "#7b2fff")
	return m, nil
}

// ─── teacher settings / recordings ───

func (e *Engine) WebrtcConfig() (*models.WebrtcConfig, error) {
	var cfg models.WebrtcConfig
	if err := e.store.GetSetting(models.SettingWebrtc, &cfg); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &models.WebrtcConfig{}, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (e *Engine) SetWebrtcConfig(cfg models.WebrtcConfig) error {
	return e.store.PutSetting(models.SettingWebrtc, cfg)
}

// SaveSnapshot appends a recording marker.
func (e *Engine) SaveSnapshot() (*models.Recording, error) {
	now := time.Now()
	rec := &models.Recording{
		Label: fmt.Sprintf("Snapshot %d", now.UnixMilli()),
		Ts:    now,
		Kind:  "snapshot",
	}
	if err := e.store.AddRecording(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
