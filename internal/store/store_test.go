package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Session{},
		&models.Event{},
		&models.Media{},
		&models.Setting{},
		&models.Recording{},
	))
	return New(db, logger.NewNop())
}

func TestStudentRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := &models.Student{
		Username: "ada",
		Password: "hashed",
		Points:   160,
		Badges:   datatypes.JSONSlice[string]{"starter", "pts100"},
	}
	require.NoError(t, s.PutStudent(in))

	out, err := s.GetStudent("ada")
	require.NoError(t, err)
	assert.Equal(t, "ada", out.Username)
	assert.Equal(t, 160, out.Points)
	assert.Equal(t, []string{"starter", "pts100"}, []string(out.Badges))

	out.Points = 185
	require.NoError(t, s.PutStudent(out))
	again, err := s.GetStudent("ada")
	require.NoError(t, err)
	assert.Equal(t, 185, again.Points)
}

func TestGetStudentNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetStudent("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	now := time.Now().Truncate(time.Second)
	require.NoError(t, s.PutSession(&models.Session{
		Username:  "ada",
		Focus:     models.FocusHigh,
		Points:    100,
		StartTime: now,
		LastSeen:  now,
	}))

	sess, err := s.GetSession("ada")
	require.NoError(t, err)
	assert.Equal(t, models.FocusHigh, sess.Focus)
	assert.Equal(t, 100, sess.Points)
}

func TestHeartbeatStampsLastSeen(t *testing.T) {
	s := newTestStore(t)
	start := time.Now().Add(-time.Minute)
	require.NoError(t, s.PutSession(&models.Session{Username: "ada", StartTime: start, LastSeen: start}))

	at := time.Now()
	require.NoError(t, s.Heartbeat("ada", at))

	sess, err := s.GetSession("ada")
	require.NoError(t, err)
	assert.WithinDuration(t, at, sess.LastSeen, time.Second)
}

func TestSetFullscreenStampsLastExit(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutSession(&models.Session{Username: "ada", StartTime: time.Now()}))

	require.NoError(t, s.SetFullscreen("ada", true, time.Now()))
	sess, err := s.GetSession("ada")
	require.NoError(t, err)
	assert.True(t, sess.FsInFullscreen)
	assert.Nil(t, sess.LastExit)

	exitAt := time.Now()
	require.NoError(t, s.SetFullscreen("ada", false, exitAt))
	sess, err = s.GetSession("ada")
	require.NoError(t, err)
	assert.False(t, sess.FsInFullscreen)
	require.NotNil(t, sess.LastExit)
	assert.WithinDuration(t, exitAt, *sess.LastExit, time.Second)
}

func TestIncrementExitCountLockstep(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutStudent(&models.Student{Username: "ada", Badges: datatypes.JSONSlice[string]{}}))
	require.NoError(t, s.PutSession(&models.Session{Username: "ada", StartTime: time.Now()}))

	require.NoError(t, s.IncrementExitCount("ada"))
	require.NoError(t, s.IncrementExitCount("ada"))

	st, err := s.GetStudent("ada")
	require.NoError(t, err)
	sess, err := s.GetSession("ada")
	require.NoError(t, err)
	assert.Equal(t, 2, st.FsExitCount)
	assert.Equal(t, 2, sess.FsExitCount)
}

func TestIncrementExitCountMissingSession(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.IncrementExitCount("ghost"))
}

func TestReplaceMediaKeepsOnePerKind(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.ReplaceMedia(&models.Media{Kind: models.MediaDocument, Name: "a.txt", Payload: []byte("one"), Ts: time.Now()}))
	require.NoError(t, s.ReplaceMedia(&models.Media{Kind: models.MediaDocument, Name: "b.txt", Payload: []byte("two"), Ts: time.Now()}))
	require.NoError(t, s.ReplaceMedia(&models.Media{Kind: models.MediaVideo, Name: "v.mp4", Payload: []byte("vid"), Ts: time.Now()}))

	all, err := s.Media()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	doc, err := s.LatestMedia(models.MediaDocument)
	require.NoError(t, err)
	assert.Equal(t, "b.txt", doc.Name)
	assert.Equal(t, []byte("two"), doc.Payload)
}

func TestLatestMediaNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LatestMedia(models.MediaVideo)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettingRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := models.CamState{Active: true, Ts: time.Now().Truncate(time.Second)}
	require.NoError(t, s.PutSetting(models.CamSettingName("ada"), in))

	var out models.CamState
	require.NoError(t, s.GetSetting(models.CamSettingName("ada"), &out))
	assert.True(t, out.Active)

	var missing models.CamState
	err := s.GetSetting(models.CamSettingName("ghost"), &missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogEventDefaultsColor(t *testing.T) {
	s := newTestStore(t)

	s.LogEvent(models.EventSessionStart, "ada", "ada started a session", "#00d4ff")
	s.LogEvent(models.EventFocus, "ada", "no color given", "")

	events, err := s.Events()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "#00d4ff", events[0].Color)
	assert.Equal(t, "#6b8caa", events[1].Color)
}

func TestRecordings(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddRecording(&models.Recording{Label: "Snapshot 1", Kind: "snapshot", Ts: time.Now()}))

	recs, err := s.Recordings()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "snapshot", recs[0].Kind)
}
