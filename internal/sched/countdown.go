package sched

import (
	"sync"
	"time"
)

// Countdown decrements once per tick interval from a fixed number of
// seconds. OnTick receives the remaining seconds and the normalized
// fraction elapsed (for ring rendering); OnExpire fires exactly once when
// the count reaches zero.
type Countdown struct {
	mu        sync.Mutex
	total     int
	remaining int
	expired   bool
	task      *Task

	interval time.Duration
	onTick   func(remaining int, elapsed float64)
	onExpire func()
}

// NewCountdown creates a countdown of `seconds` ticks. interval is the
// wall-clock tick period (one second in production; tests shorten it).
func NewCountdown(seconds int, interval time.Duration, onTick func(int, float64), onExpire func()) *Countdown {
	return &Countdown{
		total:     seconds,
		remaining: seconds,
		interval:  interval,
		onTick:    onTick,
		onExpire:  onExpire,
	}
}

// Start begins ticking and reports the initial full value.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.task != nil || c.expired {
		c.mu.Unlock()
		return
	}
	c.task = Every(c.interval, c.tick)
	c.mu.Unlock()
	if c.onTick != nil {
		c.onTick(c.total, 0)
	}
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if c.expired || c.remaining <= 0 {
		c.mu.Unlock()
		return
	}
	c.remaining--
	remaining := c.remaining
	elapsed := float64(c.total-remaining) / float64(c.total)
	expire := remaining <= 0
	if expire {
		c.expired = true
		if c.task != nil {
			c.task.Cancel()
		}
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(remaining, elapsed)
	}
	if expire && c.onExpire != nil {
		c.onExpire()
	}
}

// Cancel stops the countdown without firing OnExpire.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expired = true
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Elapsed is the normalized fraction elapsed, recomputed on demand.
func (c *Countdown) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.total-c.remaining) / float64(c.total)
}
