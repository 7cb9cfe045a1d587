package syncer

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/neuraledu/proctor_backend_v1/internal/dashboard"
	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/pkg/logger"
	"github.com/neuraledu/proctor_backend_v1/internal/sched"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

func newTestScheduler(t *testing.T, interval time.Duration) (*Scheduler, *store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{}, &models.Session{}, &models.Event{},
		&models.Media{}, &models.Setting{},
	))
	s := store.New(db, logger.NewNop())
	agg := dashboard.NewAggregator(s, 40, 20)
	return New(interval, s, agg, logger.NewNop()), s
}

func TestBuildStudentViewLevelAndXp(t *testing.T) {
	sch, s := newTestScheduler(t, time.Second)
	require.NoError(t, s.PutStudent(&models.Student{
		Username: "ada", Points: 250, QuizCorrect: 2,
		Badges: datatypes.JSONSlice[string]{"starter", "pts100"},
	}))

	view, err := sch.BuildStudentView("ada")
	require.NoError(t, err)

	assert.Equal(t, 2, view.Level)
	assert.Equal(t, 50, view.XP)
	assert.Equal(t, 250, view.Points)

	byID := map[string]bool{}
	for _, b := range view.Badges {
		byID[b.ID] = b.Earned
	}
	assert.True(t, byID["starter"])
	assert.True(t, byID["pts100"])
	assert.False(t, byID["pts50"])
	assert.Len(t, view.Badges, 6)
}

func TestBuildStudentViewIncludesLatestMedia(t *testing.T) {
	sch, s := newTestScheduler(t, time.Second)
	require.NoError(t, s.PutStudent(&models.Student{Username: "ada", Badges: datatypes.JSONSlice[string]{}}))
	require.NoError(t, s.ReplaceMedia(&models.Media{
		Kind: models.MediaDocument, Name: "notes.txt", Payload: []byte("lesson text"), Ts: time.Now(),
	}))
	require.NoError(t, s.ReplaceMedia(&models.Media{
		Kind: models.MediaVideo, Name: "lesson.mp4", Size: 1024, Ts: time.Now(),
	}))

	view, err := sch.BuildStudentView("ada")
	require.NoError(t, err)

	require.NotNil(t, view.Document)
	assert.Equal(t, "notes.txt", view.Document.Name)
	assert.Equal(t, "lesson text", view.Document.Content)
	require.NotNil(t, view.Video)
	assert.Equal(t, int64(1024), view.Video.Size)
}

func TestBuildStudentViewWithoutMedia(t *testing.T) {
	sch, s := newTestScheduler(t, time.Second)
	require.NoError(t, s.PutStudent(&models.Student{Username: "ada", Badges: datatypes.JSONSlice[string]{}}))

	view, err := sch.BuildStudentView("ada")
	require.NoError(t, err)
	assert.Nil(t, view.Document)
	assert.Nil(t, view.Video)
}

func TestStudentLoopPushesAndHeartbeats(t *testing.T) {
	sch, s := newTestScheduler(t, 10*time.Millisecond)
	require.NoError(t, s.PutStudent(&models.Student{Username: "ada", Badges: datatypes.JSONSlice[string]{}}))
	start := time.Now().Add(-time.Minute)
	require.NoError(t, s.PutSession(&models.Session{Username: "ada", StartTime: start, LastSeen: start}))

	var mu sync.Mutex
	var pushed int
	tasks := sched.NewTaskSet()
	defer tasks.CancelAll()

	sch.StartStudent(tasks, "ada", func(v *StudentView) {
		mu.Lock()
		pushed++
		mu.Unlock()
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return pushed >= 2
	}, 2*time.Second, 10*time.Millisecond)

	sess, err := s.GetSession("ada")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), sess.LastSeen, 5*time.Second)
}

func TestTeacherLoopPushesOverview(t *testing.T) {
	sch, s := newTestScheduler(t, 10*time.Millisecond)
	require.NoError(t, s.PutSession(&models.Session{Username: "ada", StartTime: time.Now()}))

	var mu sync.Mutex
	var last *dashboard.Overview
	tasks := sched.NewTaskSet()
	defer tasks.CancelAll()

	sch.StartTeacher(tasks, func(ov *dashboard.Overview) {
		mu.Lock()
		last = ov
		mu.Unlock()
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return last != nil && last.TotalSessions == 1
	}, 2*time.Second, 10*time.Millisecond)
}
