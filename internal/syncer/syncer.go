// Package syncer runs the fixed-interval refresh loop for each active
// role: teacher loops re-derive the whole dashboard, student loops refresh
// the student's own view and write a liveness heartbeat.
package syncer

import (
	"errors"
	"time"

	"github.com/neuraledu/proctor_backend_v1/internal/dashboard"
	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/pkg/logger"
	"github.com/neuraledu/proctor_backend_v1/internal/sched"
	"github.com/neuraledu/proctor_backend_v1/internal/scoring"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

// XP progression shown on the student progress tab.
const xpPerLevel = 200

type BadgeView struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Earned bool   `json:"earned"`
}

type DocumentView struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type VideoView struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// StudentView is the student's own refreshed document/media and score view.
type StudentView struct {
	Username    string        `json:"username"`
	Points      int           `json:"points"`
	QuizCorrect int           `json:"quiz_correct"`
	Level       int           `json:"level"`
	XP          int           `json:"xp"`
	Badges      []BadgeView   `json:"badges"`
	Document    *DocumentView `json:"document,omitempty"`
	Video       *VideoView    `json:"video,omitempty"`
}

type Scheduler struct {
	interval time.Duration
	store    *store.Store
	agg      *dashboard.Aggregator
	log      *logger.Logger
}

func New(interval time.Duration, s *store.Store, agg *dashboard.Aggregator, log *logger.Logger) *Scheduler {
	return &Scheduler{interval: interval, store: s, agg: agg, log: log}
}

// StartTeacher begins the teacher refresh loop on the session's task set.
// Every tick rebuilds the full dashboard overview and pushes it.
func (s *Scheduler) StartTeacher(tasks *sched.TaskSet, push func(*dashboard.Overview)) {
	tasks.Add(sched.Every(s.interval, func() {
		ov, err := s.agg.Overview()
		if err != nil {
			s.log.Warn("dashboard refresh failed", "err", err)
			return
		}
		push(ov)
	}))
}

// StartStudent begins the student refresh loop: rebuild the student's own
// view, push it, and stamp the liveness heartbeat on their session row.
func (s *Scheduler) StartStudent(tasks *sched.TaskSet, username string, push func(*StudentView)) {
	tasks.Add(sched.Every(s.interval, func() {
		view, err := s.BuildStudentView(username)
		if err != nil {
			s.log.Warn("student refresh failed", "user", username, "err", err)
			return
		}
		push(view)
		if err := s.store.Heartbeat(username, time.Now()); err != nil {
			s.log.Warn("heartbeat write failed", "user", username, "err", err)
		}
	}))
}

// BuildStudentView assembles the score panel and latest course media for
// one student.
func (s *Scheduler) BuildStudentView(username string) (*StudentView, error) {
	st, err := s.store.GetStudent(username)
	if err != nil {
		return nil, err
	}

	view := &StudentView{
		Username:    st.Username,
		Points:      st.Points,
		QuizCorrect: st.QuizCorrect,
		Level:       st.Points/xpPerLevel + 1,
		XP:          st.Points % xpPerLevel,
	}
	for _, b := range scoring.Badges {
		view.Badges = append(view.Badges, BadgeView{ID: b.ID, Label: b.Label, Earned: st.HasBadge(b.ID)})
	}

	if doc, err := s.store.LatestMedia(models.MediaDocument); err == nil {
		view.Document = &DocumentView{Name: doc.Name, Content: string(doc.Payload)}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if vid, err := s.store.LatestMedia(models.MediaVideo); err == nil {
		view.Video = &VideoView{Name: vid.Name, Size: vid.Size}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return view, nil
}
