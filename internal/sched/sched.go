// Package sched provides the cancellable periodic-task primitive the
// session engine runs on: tick on a fixed wall-clock interval until
// cancelled or exhausted. No drift correction is applied.
package sched

import (
	"sync"
	"time"
)

// Task runs fn once per interval until cancelled.
type Task struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// Every starts a periodic task. fn runs on its own goroutine.
func Every(interval time.Duration, fn func()) *Task {
	t := &Task{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				fn()
			}
		}
	}()
	return t
}

// Cancel stops the task. Safe to call more than once, and from within fn.
func (t *Task) Cancel() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

// TaskSet tracks every periodic task belonging to one session so they can
// be cancelled as a set on logout or termination. Required to prevent ghost
// mutations after a role switch.
type TaskSet struct {
	mu    sync.Mutex
	tasks []*Task
}

func NewTaskSet() *TaskSet { return &TaskSet{} }

func (s *TaskSet) Add(t *Task) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
	return t
}

// CancelAll clears every tracked task.
func (s *TaskSet) CancelAll() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, t := range tasks {
		t.Cancel()
	}
}
