package engine

import (
	"sync"
	"time"

	"github.com/neuraledu/proctor_backend_v1/internal/proctor"
	"github.com/neuraledu/proctor_backend_v1/internal/sched"
	"github.com/neuraledu/proctor_backend_v1/internal/softai"
)

// SessionContext is the transient in-process state for one logged-in user.
// It is created at login, holds every timer handle for the session, and is
// discarded at logout or termination. Persistent state lives in the store.
type SessionContext struct {
	ID        string
	Username  string
	Role      string
	StartedAt time.Time

	Tasks   *sched.TaskSet
	Machine *proctor.Machine // nil for the teacher role

	mu          sync.Mutex
	aiCountdown *sched.Countdown
	aiUnlocked  bool
	aiActivated bool
	content     *softai.Content
	answered    map[int]bool
	camActive   bool
}

// stopTimers cancels every periodic task belonging to the session: the
// sync loop, the AI unlock countdown and (via the machine) the exit grace
// countdown.
func (c *SessionContext) stopTimers() {
	c.Tasks.CancelAll()
	c.mu.Lock()
	if c.aiCountdown != nil {
		c.aiCountdown.Cancel()
		c.aiCountdown = nil
	}
	c.mu.Unlock()
}

func (c *SessionContext) setUnlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aiActivated {
		return false
	}
	c.aiUnlocked = true
	return true
}

func (c *SessionContext) AiUnlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aiUnlocked
}

func (c *SessionContext) AiActivated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aiActivated
}
