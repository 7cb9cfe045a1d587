// Package store exposes the shared record collections: students, sessions,
// events, media, settings, recordings.
//
// All mutations are whole-record read-modify-write, so concurrent writers to
// the same record are last-write-wins at record granularity. A single writer
// per record is the expected case (a student writes only their own rows, the
// teacher only reads); a multi-writer deployment would need optimistic
// locking or per-field updates.
package store

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/pkg/logger"
)

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(db *gorm.DB, log *logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// ─── students ───

func (s *Store) PutStudent(st *models.Student) error {
	return storageErr("put student", s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(st).Error)
}

func (s *Store) GetStudent(username string) (*models.Student, error) {
	var st models.Student
	if err := s.db.First(&st, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("get student", err)
	}
	return &st, nil
}

func (s *Store) Students() ([]models.Student, error) {
	var out []models.Student
	if err := s.db.Find(&out).Error; err != nil {
		return nil, storageErr("list students", err)
	}
	return out, nil
}

// ─── sessions ───

func (s *Store) PutSession(sess *models.Session) error {
	return storageErr("put session", s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(sess).Error)
}

func (s *Store) GetSession(username string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.First(&sess, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("get session", err)
	}
	return &sess, nil
}

func (s *Store) Sessions() ([]models.Session, error) {
	var out []models.Session
	if err := s.db.Find(&out).Error; err != nil {
		return nil, storageErr("list sessions", err)
	}
	return out, nil
}

// Heartbeat stamps lastSeen on the user's session.
func (s *Store) Heartbeat(username string, at time.Time) error {
	sess, err := s.GetSession(username)
	if err != nil {
		return err
	}
	sess.LastSeen = at
	return s.PutSession(sess)
}

// SetFullscreen records the current platform fullscreen state on the
// session; leaving fullscreen also stamps lastExit.
func (s *Store) SetFullscreen(username string, inFS bool, at time.Time) error {
	sess, err := s.GetSession(username)
	if err != nil {
		return err
	}
	sess.FsInFullscreen = inFS
	if !inFS {
		sess.LastExit = &at
	}
	return s.PutSession(sess)
}

// IncrementExitCount bumps the fullscreen-exit counter on both the session
// and student rows in one transaction, keeping the two in lockstep.
func (s *Store) IncrementExitCount(username string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sess models.Session
		if err := tx.First(&sess, "username = ?", username).Error; err != nil {
			return err
		}
		sess.FsExitCount++
		if err := tx.Save(&sess).Error; err != nil {
			return err
		}
		var st models.Student
		if err := tx.First(&st, "username = ?", username).Error; err != nil {
			return err
		}
		st.FsExitCount++
		return tx.Save(&st).Error
	})
	return storageErr("increment exit count", err)
}

// ─── events ───

func (s *Store) AddEvent(e *models.Event) error {
	return storageErr("add event", s.db.Create(e).Error)
}

func (s *Store) Events() ([]models.Event, error) {
	var out []models.Event
	if err := s.db.Order("id asc").Find(&out).Error; err != nil {
		return nil, storageErr("list events", err)
	}
	return out, nil
}

// LogEvent is best-effort: a failed event write must never interrupt the
// primary flow, so the error is logged and dropped.
func (s *Store) LogEvent(eventType, username, message, color string) {
	if color == "" {
		color = "#6b8caa"
	}
	e := &models.Event{Type: eventType, Username: username, Message: message, Color: color, Ts: time.Now()}
	if err := s.AddEvent(e); err != nil {
		s.log.Warn("event log write failed", "type", eventType, "user", username, "err", err)
	}
}

// ─── media ───

func (s *Store) Media() ([]models.Media, error) {
	var out []models.Media
	if err := s.db.Order("id asc").Find(&out).Error; err != nil {
		return nil, storageErr("list media", err)
	}
	return out, nil
}

// LatestMedia returns the most recent record of a kind, or ErrNotFound.
func (s *Store) LatestMedia(kind string) (*models.Media, error) {
	var m models.Media
	if err := s.db.Where("kind = ?", kind).Order("id desc").First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr("latest media", err)
	}
	return &m, nil
}

// ReplaceMedia deletes every record of the new record's kind, then inserts
// it, so at most one record per kind is retained.
func (s *Store) ReplaceMedia(m *models.Media) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kind = ?", m.Kind).Delete(&models.Media{}).Error; err != nil {
			return err
		}
		return tx.Create(m).Error
	})
	return storageErr("replace media", err)
}

func (s *Store) DeleteMedia(id uint) error {
	return storageErr("delete media", s.db.Delete(&models.Media{}, id).Error)
}

// ─── settings ───

func (s *Store) PutSetting(name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return storageErr("encode setting", err)
	}
	set := &models.Setting{Name: name, Value: raw}
	return storageErr("put setting", s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(set).Error)
}

// GetSetting decodes the named setting into out. Returns ErrNotFound when
// the setting has never been written.
func (s *Store) GetSetting(name string, out any) error {
	var set models.Setting
	if err := s.db.First(&set, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storageErr("get setting", err)
	}
	if err := json.Unmarshal(set.Value, out); err != nil {
		return storageErr("decode setting", err)
	}
	return nil
}

// ─── recordings ───

func (s *Store) AddRecording(r *models.Recording) error {
	return storageErr("add recording", s.db.Create(r).Error)
}

func (s *Store) Recordings() ([]models.Recording, error) {
	var out []models.Recording
	if err := s.db.Order("id asc").Find(&out).Error; err != nil {
		return nil, storageErr("list recordings", err)
	}
	return out, nil
}
