// Package scoring holds the counter/points/badge transitions over a
// student record.
package scoring

import (
	"fmt"
	"time"

	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

const quizBonus = 25

type Engine struct {
	store *store.Store
}

func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// OnFocusSelect awards the fixed point value for the level, bumps the
// session counters, re-evaluates badges and snapshots the points total onto
// the session record.
func (e *Engine) OnFocusSelect(username string, focus models.Focus) (*models.Student, error) {
	pts, ok := models.FocusPoints[focus]
	if !ok {
		return nil, fmt.Errorf("unknown focus level %q", focus)
	}
	st, err := e.store.GetStudent(username)
	if err != nil {
		return nil, err
	}
	st.Points += pts
	st.Sessions++
	if focus == models.FocusHigh {
		st.HighFocusSessions++
	}
	evaluateBadges(st)
	if err := e.store.PutStudent(st); err != nil {
		return nil, err
	}

	if sess, err := e.store.GetSession(username); err == nil {
		sess.Focus = focus
		sess.Points = st.Points
		sess.LastSeen = time.Now()
		if err := e.store.PutSession(sess); err != nil {
			return nil, err
		}
	}

	e.store.LogEvent(models.EventFocus, username,
		fmt.Sprintf("%s set focus: %s", username, focus), models.FocusColors[focus])
	return st, nil
}

// OnQuizCorrectAnswer awards the fixed quiz bonus and bumps quizCorrect.
// Answer idempotency (re-clicking an answered question) is enforced by the
// caller, which tracks answered questions per generated quiz.
func (e *Engine) OnQuizCorrectAnswer(username string) (*models.Student, error) {
	st, err := e.store.GetStudent(username)
	if err != nil {
		return nil, err
	}
	st.Points += quizBonus
	st.QuizCorrect++
	evaluateBadges(st)
	if err := e.store.PutStudent(st); err != nil {
		return nil, err
	}

	if sess, err := e.store.GetSession(username); err == nil {
		sess.Points = st.Points
		sess.LastSeen = time.Now()
		if err := e.store.PutSession(sess); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// OnAiActivate bumps aiSessions and marks the session as AI-assisted.
func (e *Engine) OnAiActivate(username string) (*models.Student, error) {
	st, err := e.store.GetStudent(username)
	if err != nil {
		return nil, err
	}
	st.AiSessions++
	evaluateBadges(st)
	if err := e.store.PutStudent(st); err != nil {
		return nil, err
	}

	if sess, err := e.store.GetSession(username); err == nil {
		sess.AiUsed = true
		sess.LastSeen = time.Now()
		if err := e.store.PutSession(sess); err != nil {
			return nil, err
		}
	}
	return st, nil
}
