package sched

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEveryFiresRepeatedly(t *testing.T) {
	var n atomic.Int32
	task := Every(5*time.Millisecond, func() { n.Add(1) })
	defer task.Cancel()

	assert.Eventually(t, func() bool { return n.Load() >= 3 },
		2*time.Second, 5*time.Millisecond)
}

func TestCancelStopsTicks(t *testing.T) {
	var n atomic.Int32
	task := Every(5*time.Millisecond, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() >= 1 },
		2*time.Second, 5*time.Millisecond)
	task.Cancel()

	settled := n.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, n.Load(), settled+1)
}

func TestCancelIsIdempotent(t *testing.T) {
	task := Every(time.Hour, func() {})
	task.Cancel()
	task.Cancel()
}

func TestCancelFromWithinCallback(t *testing.T) {
	var n atomic.Int32
	var ptr atomic.Pointer[Task]
	var once sync.Once
	done := make(chan struct{})
	task := Every(5*time.Millisecond, func() {
		n.Add(1)
		if tk := ptr.Load(); tk != nil {
			tk.Cancel()
			once.Do(func() { close(done) })
		}
	})
	ptr.Store(task)

	<-done
	settled := n.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, n.Load())
}

func TestTaskSetCancelAll(t *testing.T) {
	var n atomic.Int32
	set := NewTaskSet()
	set.Add(Every(5*time.Millisecond, func() { n.Add(1) }))
	set.Add(Every(5*time.Millisecond, func() { n.Add(1) }))

	assert.Eventually(t, func() bool { return n.Load() >= 2 },
		2*time.Second, 5*time.Millisecond)
	set.CancelAll()

	settled := n.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, n.Load(), settled+2)
}

func TestCountdownRunsToExpiry(t *testing.T) {
	var mu sync.Mutex
	var ticks []int
	var expired atomic.Int32

	cd := NewCountdown(3, 5*time.Millisecond,
		func(remaining int, _ float64) {
			mu.Lock()
			ticks = append(ticks, remaining)
			mu.Unlock()
		},
		func() { expired.Add(1) },
	)
	cd.Start()

	assert.Eventually(t, func() bool { return expired.Load() == 1 },
		2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), expired.Load())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3, 2, 1, 0}, ticks)
	assert.Zero(t, cd.Remaining())
	assert.Equal(t, 1.0, cd.Elapsed())
}

func TestCountdownCancelPreventsExpiry(t *testing.T) {
	var expired atomic.Int32
	cd := NewCountdown(2, 5*time.Millisecond, nil, func() { expired.Add(1) })
	cd.Start()
	cd.Cancel()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, expired.Load())
}

func TestCountdownCannotRestartAfterCancel(t *testing.T) {
	var ticked atomic.Int32
	cd := NewCountdown(2, 5*time.Millisecond, func(int, float64) { ticked.Add(1) }, nil)
	cd.Cancel()
	cd.Start()

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, ticked.Load())
}

func TestCountdownStartReportsFullValue(t *testing.T) {
	var first atomic.Int32
	first.Store(-1)
	cd := NewCountdown(20, time.Hour, func(remaining int, _ float64) {
		first.CompareAndSwap(-1, int32(remaining))
	}, nil)
	cd.Start()
	defer cd.Cancel()

	assert.Equal(t, int32(20), first.Load())
}
