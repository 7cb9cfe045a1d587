package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/neuraledu/proctor_backend_v1/internal/auth"
	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/proctor"
	"github.com/neuraledu/proctor_backend_v1/internal/softai"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

func (e *Engine) studentContext(username string) (*SessionContext, error) {
	ctx, ok := e.Context(username)
	if !ok || ctx.Role != auth.RoleStudent {
		return nil, ErrNoActiveSession
	}
	return ctx, nil
}

// SelectFocus records the self-reported focus level and awards its points.
func (e *Engine) SelectFocus(username string, focus models.Focus) (*models.Student, error) {
	if _, err := e.studentContext(username); err != nil {
		return nil, err
	}
	return e.scoring.OnFocusSelect(username, focus)
}

// ActivateAi runs the content generator over the latest uploaded document.
// Only available once the unlock countdown has elapsed; repeated activation
// returns the already-generated content.
func (e *Engine) ActivateAi(username string) (*softai.Content, error) {
	ctx, err := e.studentContext(username)
	if err != nil {
		return nil, err
	}

	ctx.mu.Lock()
	if ctx.aiActivated {
		content := ctx.content
		ctx.mu.Unlock()
		return content, nil
	}
	if !ctx.aiUnlocked {
		ctx.mu.Unlock()
		return nil, ErrAiLocked
	}
	ctx.aiActivated = true
	ctx.mu.Unlock()

	if _, err := e.scoring.OnAiActivate(username); err != nil {
		return nil, err
	}

	text := ""
	if doc, err := e.store.LatestMedia(models.MediaDocument); err == nil {
		text = string(doc.Payload)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	e.randMu.Lock()
	content := softai.Generate(text, e.rand)
	e.randMu.Unlock()

	ctx.mu.Lock()
	ctx.content = &content
	ctx.answered = map[int]bool{}
	ctx.mu.Unlock()

	e.store.LogEvent(models.EventAiActivate, username,
		fmt.Sprintf("%s activated Soft AI", username), "#7b2fff")
	return &content, nil
}

// QuizResult reports the outcome of one answer submission.
type QuizResult struct {
	Correct         bool   `json:"correct"`
	AlreadyAnswered bool   `json:"already_answered"`
	Answer          string `json:"answer"`
	Points          int    `json:"points"`
}

// AnswerQuiz scores one quiz answer. A question already answered is a
// no-op regardless of the option submitted.
func (e *Engine) AnswerQuiz(username string, questionIndex int, option string) (*QuizResult, error) {
	ctx, err := e.studentContext(username)
	if err != nil {
		return nil, err
	}

	ctx.mu.Lock()
	if ctx.content == nil {
		ctx.mu.Unlock()
		return nil, ErrNoQuiz
	}
	if questionIndex < 0 || questionIndex >= len(ctx.content.Quiz) {
		ctx.mu.Unlock()
		return nil, fmt.Errorf("question index %d out of range", questionIndex)
	}
	q := ctx.content.Quiz[questionIndex]
	if ctx.answered[questionIndex] {
		ctx.mu.Unlock()
		return &QuizResult{AlreadyAnswered: true, Answer: q.Answer}, nil
	}
	ctx.answered[questionIndex] = true
	ctx.mu.Unlock()

	res := &QuizResult{Correct: option == q.Answer, Answer: q.Answer}
	if res.Correct {
		st, err := e.scoring.OnQuizCorrectAnswer(username)
		if err != nil {
			// An unscored answer stays retryable.
			ctx.mu.Lock()
			delete(ctx.answered, questionIndex)
			ctx.mu.Unlock()
			return nil, err
		}
		res.Points = st.Points
	}
	return res, nil
}

// CameraSignal records the student's camera state as reported by the
// browsing context. A denial is a degraded mode, never an error to the
// session.
func (e *Engine) CameraSignal(username string, active, denied bool) error {
	ctx, err := e.studentContext(username)
	if err != nil {
		return err
	}
	if denied {
		active = false
		e.log.Warn("camera degraded", "user", username, "err", &PermissionError{Capability: "camera"})
	}
	ctx.mu.Lock()
	ctx.camActive = active
	ctx.mu.Unlock()
	return e.store.PutSetting(models.CamSettingName(username),
		models.CamState{Active: active, Ts: time.Now()})
}

// releaseCamera is part of every student exit path.
func (e *Engine) releaseCamera(ctx *SessionContext) {
	ctx.mu.Lock()
	active := ctx.camActive
	ctx.camActive = false
	ctx.mu.Unlock()
	if !active {
		return
	}
	e.capture.Release(ctx.Username)
	if err := e.store.PutSetting(models.CamSettingName(ctx.Username),
		models.CamState{Active: false, Ts: time.Now()}); err != nil {
		e.log.Warn("camera setting write failed", "user", ctx.Username, "err", err)
	}
}

func (e *Engine) releaseTeacherCam() {
	if err := e.store.PutSetting(models.SettingTeacherCam, false); err != nil {
		e.log.Warn("teacher camera setting write failed", "err", err)
	}
}

// ─── proctoring signals ───

func (e *Engine) FullscreenSignal(username string, inFullscreen bool) error {
	ctx, err := e.studentContext(username)
	if err != nil {
		return err
	}
	ctx.Machine.HandleFullscreenChange(inFullscreen)
	return nil
}

func (e *Engine) FullscreenDenied(username string) error {
	ctx, err := e.studentContext(username)
	if err != nil {
		return err
	}
	ctx.Machine.HandleFullscreenDenied()
	return nil
}

func (e *Engine) StayInSession(username string) error {
	ctx, err := e.studentContext(username)
	if err != nil {
		return err
	}
	ctx.Machine.StayInSession()
	return nil
}

func (e *Engine) ConfirmExit(username string) error {
	ctx, err := e.studentContext(username)
	if err != nil {
		return err
	}
	ctx.Machine.ConfirmExit()
	return nil
}

// SessionState is the student's live runtime snapshot for the state query.
type SessionState struct {
	SessionID          string `json:"session_id"`
	Username           string `json:"username"`
	Role               string `json:"role"`
	ProctorState       string `json:"proctor_state"`
	FullscreenBlocked  bool   `json:"fullscreen_blocked"`
	CountdownRemaining int    `json:"countdown_remaining"`
	AiUnlocked         bool   `json:"ai_unlocked"`
	AiActivated        bool   `json:"ai_activated"`
	CameraActive       bool   `json:"camera_active"`
}

func (e *Engine) State(username string) (*SessionState, error) {
	ctx, ok := e.Context(username)
	if !ok {
		return nil, ErrNoActiveSession
	}
	s := &SessionState{
		SessionID: ctx.ID,
		Username:  ctx.Username,
		Role:      ctx.Role,
	}
	if ctx.Machine != nil {
		s.ProctorState = ctx.Machine.State().String()
		s.FullscreenBlocked = ctx.Machine.Blocked()
		s.CountdownRemaining = ctx.Machine.CountdownRemaining()
	}
	ctx.mu.Lock()
	s.AiUnlocked = ctx.aiUnlocked
	s.AiActivated = ctx.aiActivated
	s.CameraActive = ctx.camActive
	ctx.mu.Unlock()
	return s, nil
}

// Terminated reports whether a student's machine reached the terminal
// state (the context is discarded on termination, so absence counts).
func (e *Engine) Terminated(username string) bool {
	ctx, ok := e.Context(username)
	if !ok {
		return true
	}
	return ctx.Machine != nil && ctx.Machine.State() == proctor.StateTerminated
}
