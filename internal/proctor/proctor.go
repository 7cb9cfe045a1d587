// Package proctor owns the fullscreen compliance state machine and the
// exit grace-period countdown for one student session.
package proctor

import (
	"fmt"
	"sync"
	"time"

	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/pkg/logger"
	"github.com/neuraledu/proctor_backend_v1/internal/sched"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

type State int

const (
	// StateEnforced: session active and (unless blocked) in platform
	// fullscreen.
	StateEnforced State = iota
	// StateExited: fullscreen lost, grace countdown running.
	StateExited
	// StateTerminated: session over; terminal.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateEnforced:
		return "enforced"
	case StateExited:
		return "exited"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Termination reasons handed to the engine's teardown path.
const (
	ReasonTimeout   = "fullscreen timeout"
	ReasonVoluntary = "voluntary exit"
)

// Fullscreen is the platform fullscreen capability: requests are forwarded
// to the student's browsing context; the resulting change signal comes back
// through HandleFullscreenChange.
type Fullscreen interface {
	Request(username string)
	Exit(username string)
}

// Notifier receives proctoring state for the student's view.
type Notifier interface {
	FullscreenState(username string, inFullscreen, blocked bool)
	CountdownTick(username string, remaining int, elapsed float64)
}

// Machine is the per-session fullscreen enforcement state machine.
type Machine struct {
	mu        sync.Mutex
	state     State
	blocked   bool
	countdown *sched.Countdown

	username  string
	graceSecs int
	tickEvery time.Duration
	store     *store.Store
	fs        Fullscreen
	notify    Notifier
	terminate func(reason string) // engine teardown; fires exactly once
	log       *logger.Logger
}

type Options struct {
	Username   string
	Grace      time.Duration
	TickEvery  time.Duration // defaults to one second
	Store      *store.Store
	Fullscreen Fullscreen
	Notifier   Notifier
	Terminate  func(reason string)
	Log        *logger.Logger
}

func NewMachine(opts Options) *Machine {
	tick := opts.TickEvery
	if tick == 0 {
		tick = time.Second
	}
	return &Machine{
		state:     StateEnforced,
		username:  opts.Username,
		graceSecs: int(opts.Grace / time.Second),
		tickEvery: tick,
		store:     opts.Store,
		fs:        opts.Fullscreen,
		notify:    opts.Notifier,
		terminate: opts.Terminate,
		log:       opts.Log,
	}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Blocked reports whether the platform denied fullscreen; the session keeps
// running in the degraded enforced-with-warning mode.
func (m *Machine) Blocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blocked
}

// Start requests platform fullscreen. The grant arrives later as a change
// signal; denial arrives through HandleFullscreenDenied.
func (m *Machine) Start() {
	m.fs.Request(m.username)
}

// HandleFullscreenDenied records the degraded mode: the session continues,
// no countdown starts.
func (m *Machine) HandleFullscreenDenied() {
	m.mu.Lock()
	if m.state == StateTerminated {
		m.mu.Unlock()
		return
	}
	m.blocked = true
	m.mu.Unlock()

	m.log.Warn("fullscreen blocked, continuing degraded", "user", m.username)
	m.notify.FullscreenState(m.username, false, true)
}

// HandleFullscreenChange consumes the platform loss/gain-of-fullscreen
// signal and drives the Enforced/Exited transitions.
func (m *Machine) HandleFullscreenChange(inFullscreen bool) {
	m.mu.Lock()
	if m.state == StateTerminated {
		m.mu.Unlock()
		return
	}

	if inFullscreen {
		wasExited := m.state == StateExited
		m.state = StateEnforced
		m.blocked = false
		if wasExited && m.countdown != nil {
			m.countdown.Cancel()
			m.countdown = nil
		}
		m.mu.Unlock()

		if err := m.store.SetFullscreen(m.username, true, time.Now()); err != nil {
			m.log.Warn("fullscreen status write failed", "user", m.username, "err", err)
		}
		m.store.LogEvent(models.EventFsEnter, m.username,
			fmt.Sprintf("%s re-entered fullscreen", m.username), "#00ff88")
		m.notify.FullscreenState(m.username, true, false)
		return
	}

	// Lost fullscreen: enter (or re-enter) the grace period. A countdown is
	// a singleton per session; rapid toggling resets it to the full
	// duration instead of stacking a second one.
	if m.countdown != nil {
		m.countdown.Cancel()
	}
	m.state = StateExited
	m.countdown = sched.NewCountdown(m.graceSecs, m.tickEvery, m.onTick, m.onExpire)
	cd := m.countdown
	m.mu.Unlock()

	if err := m.store.SetFullscreen(m.username, false, time.Now()); err != nil {
		m.log.Warn("fullscreen status write failed", "user", m.username, "err", err)
	}
	if err := m.store.IncrementExitCount(m.username); err != nil {
		m.log.Warn("exit count write failed", "user", m.username, "err", err)
	}
	m.store.LogEvent(models.EventFsExit, m.username,
		fmt.Sprintf("%s exited fullscreen", m.username), "#ff2d55")
	m.notify.FullscreenState(m.username, false, false)
	cd.Start()
}

func (m *Machine) onTick(remaining int, elapsed float64) {
	m.notify.CountdownTick(m.username, remaining, elapsed)
}

func (m *Machine) onExpire() {
	m.Terminate(ReasonTimeout)
}

// StayInSession re-requests fullscreen; the countdown is cancelled only
// when the platform confirms re-entry.
func (m *Machine) StayInSession() {
	m.mu.Lock()
	if m.state != StateExited {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	m.fs.Request(m.username)
}

// ConfirmExit is the student voluntarily ending the session during the
// grace period.
func (m *Machine) ConfirmExit() {
	m.Terminate(ReasonVoluntary)
}

// Terminate moves to the terminal state exactly once: stops the countdown,
// attempts to leave platform fullscreen and hands off to the engine
// teardown (timers, camera, session context).
func (m *Machine) Terminate(reason string) {
	m.mu.Lock()
	if m.state == StateTerminated {
		m.mu.Unlock()
		return
	}
	m.state = StateTerminated
	if m.countdown != nil {
		m.countdown.Cancel()
		m.countdown = nil
	}
	m.mu.Unlock()

	m.fs.Exit(m.username)
	if m.terminate != nil {
		m.terminate(reason)
	}
}

// Stop silently parks the machine in the terminal state: the grace
// countdown is cancelled and later signals are ignored, with no exit
// request and no teardown handoff. Used when a new login replaces the
// session the machine belongs to.
func (m *Machine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateTerminated {
		return
	}
	m.state = StateTerminated
	if m.countdown != nil {
		m.countdown.Cancel()
		m.countdown = nil
	}
}

// CountdownRemaining returns the live grace countdown value, or the full
// duration when none is running.
func (m *Machine) CountdownRemaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countdown == nil {
		return m.graceSecs
	}
	return m.countdown.Remaining()
}
