// Package engine holds the per-login session runtime: role, timer handles,
// the proctoring machine and the Soft AI unlock state. It is the command
// boundary the transport layer talks to; persistent state is delegated to
// the store.
package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/neuraledu/proctor_backend_v1/internal/auth"
	"github.com/neuraledu/proctor_backend_v1/internal/config"
	"github.com/neuraledu/proctor_backend_v1/internal/dashboard"
	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/pkg/logger"
	"github.com/neuraledu/proctor_backend_v1/internal/proctor"
	"github.com/neuraledu/proctor_backend_v1/internal/sched"
	"github.com/neuraledu/proctor_backend_v1/internal/scoring"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
	"github.com/neuraledu/proctor_backend_v1/internal/syncer"
)

type Deps struct {
	Config     *config.Config
	Store      *store.Store
	Log        *logger.Logger
	Gate       *auth.Gate
	Scoring    *scoring.Engine
	Aggregator *dashboard.Aggregator
	Syncer     *syncer.Scheduler
	Notifier   Notifier
	Fullscreen proctor.Fullscreen
	Capture    Capture

	// Rand seeds quiz option shuffling; nil means time-seeded.
	Rand *rand.Rand
	// TickEvery overrides the one-second countdown period in tests.
	TickEvery time.Duration
}

type Engine struct {
	cfg     *config.Config
	store   *store.Store
	log     *logger.Logger
	gate    *auth.Gate
	scoring *scoring.Engine
	agg     *dashboard.Aggregator
	sync    *syncer.Scheduler
	notify  Notifier
	fs      proctor.Fullscreen
	capture Capture

	tickEvery time.Duration

	randMu sync.Mutex
	rand   *rand.Rand

	mu       sync.Mutex
	sessions map[string]*SessionContext
}

func New(d Deps) *Engine {
	rng := d.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	tick := d.TickEvery
	if tick == 0 {
		tick = time.Second
	}
	return &Engine{
		cfg:       d.Config,
		store:     d.Store,
		log:       d.Log,
		gate:      d.Gate,
		scoring:   d.Scoring,
		agg:       d.Aggregator,
		sync:      d.Syncer,
		notify:    d.Notifier,
		fs:        d.Fullscreen,
		capture:   d.Capture,
		tickEvery: tick,
		rand:      rng,
		sessions:  make(map[string]*SessionContext),
	}
}

// Context returns the active session context for a username, if any.
func (e *Engine) Context(username string) (*SessionContext, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, ok := e.sessions[username]
	return ctx, ok
}

// ─── lifecycle ───

// RegisterStudent creates the student record; it does not open a session.
func (e *Engine) RegisterStudent(username, password string) (*models.Student, error) {
	return e.gate.Register(username, password)
}

// LoginStudent validates credentials, resets the session record and spins
// up the student runtime: sync loop, AI unlock countdown and the
// fullscreen enforcement machine.
func (e *Engine) LoginStudent(username, password string) (*SessionContext, error) {
	if _, err := e.gate.Login(username, password); err != nil {
		return nil, err
	}

	e.dropExisting(username)

	ctx := &SessionContext{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      auth.RoleStudent,
		StartedAt: time.Now(),
		Tasks:     sched.NewTaskSet(),
		answered:  map[int]bool{},
	}
	ctx.Machine = proctor.NewMachine(proctor.Options{
		Username:   username,
		Grace:      e.cfg.ExitGrace,
		TickEvery:  e.tickEvery,
		Store:      e.store,
		Fullscreen: e.fs,
		Notifier:   e.notify,
		Terminate:  func(reason string) { e.teardownStudent(ctx, reason) },
		Log:        e.log,
	})

	e.mu.Lock()
	e.sessions[username] = ctx
	e.mu.Unlock()

	e.store.LogEvent(models.EventSessionStart, username,
		fmt.Sprintf("%s started a session", username), "#00d4ff")

	e.startAiUnlock(ctx)
	e.sync.StartStudent(ctx.Tasks, username, e.notify.StudentRefresh)
	ctx.Machine.Start()

	e.log.Info("student session started", "user", username, "session", ctx.ID)
	return ctx, nil
}

// LoginTeacher opens the teacher role: no session record, just the
// dashboard refresh loop.
func (e *Engine) LoginTeacher(username, password string) (*SessionContext, error) {
	if err := e.gate.LoginTeacher(username, password); err != nil {
		return nil, err
	}

	e.dropExisting(username)

	ctx := &SessionContext{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      auth.RoleTeacher,
		StartedAt: time.Now(),
		Tasks:     sched.NewTaskSet(),
	}
	e.mu.Lock()
	e.sessions[username] = ctx
	e.mu.Unlock()

	e.sync.StartTeacher(ctx.Tasks, e.notify.DashboardRefresh)

	e.log.Info("teacher session started", "user", username, "session", ctx.ID)
	return ctx, nil
}

// Logout ends the session through the same teardown as a termination:
// every timer cancelled as a set, camera released, context discarded.
func (e *Engine) Logout(username string) error {
	ctx, ok := e.Context(username)
	if !ok {
		return ErrNoActiveSession
	}
	if ctx.Role == auth.RoleStudent {
		ctx.Machine.Terminate("logout")
		return nil
	}

	// Teacher: no session record and no proctoring machine to unwind.
	ctx.stopTimers()
	e.releaseTeacherCam()
	e.removeContext(ctx)
	e.log.Info("teacher session ended", "user", username)
	return nil
}

// teardownStudent is the single exit path for student sessions, invoked by
// the proctoring machine on timeout, voluntary exit and logout.
func (e *Engine) teardownStudent(ctx *SessionContext, reason string) {
	ctx.stopTimers()
	e.releaseCamera(ctx)

	msg := fmt.Sprintf("%s exited (%s)", ctx.Username, reason)
	color := "#ff9f0a"
	if reason == "logout" {
		msg = fmt.Sprintf("%s ended session", ctx.Username)
		color = "#6b8caa"
	}
	e.store.LogEvent(models.EventSessionEnd, ctx.Username, msg, color)

	if err := e.store.SetFullscreen(ctx.Username, false, time.Now()); err != nil {
		e.log.Warn("fullscreen status write failed", "user", ctx.Username, "err", err)
	}

	e.notify.SessionTerminated(ctx.Username, reason)
	e.removeContext(ctx)
	e.log.Info("student session ended", "user", ctx.Username, "reason", reason)
}

// dropExisting silently unwinds a leftover context for the username (a
// re-login in the single active browsing context replaces the session).
// The old machine is parked before its grace countdown can expire and
// tear down the replacement session.
func (e *Engine) dropExisting(username string) {
	e.mu.Lock()
	old, ok := e.sessions[username]
	if ok {
		delete(e.sessions, username)
	}
	e.mu.Unlock()
	if !ok {
		return
	}
	if old.Machine != nil {
		old.Machine.Stop()
	}
	old.stopTimers()
	if old.Role == auth.RoleStudent {
		e.releaseCamera(old)
	}
}

func (e *Engine) removeContext(ctx *SessionContext) {
	e.mu.Lock()
	if cur, ok := e.sessions[ctx.Username]; ok && cur == ctx {
		delete(e.sessions, ctx.Username)
	}
	e.mu.Unlock()
}

// ─── soft AI unlock ───

// startAiUnlock arms the one-shot unlock countdown: the Soft AI panel
// opens only after the configured study delay has fully elapsed.
func (e *Engine) startAiUnlock(ctx *SessionContext) {
	secs := int(e.cfg.AiUnlockDelay / time.Second)
	cd := sched.NewCountdown(secs, e.tickEvery,
		func(remaining int, _ float64) {
			e.notify.AiCountdownTick(ctx.Username, remaining)
		},
		func() {
			if ctx.setUnlocked() {
				e.notify.AiUnlocked(ctx.Username)
			}
		},
	)
	ctx.mu.Lock()
	ctx.aiCountdown = cd
	ctx.mu.Unlock()
	cd.Start()
}
