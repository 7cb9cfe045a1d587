package proctor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/pkg/logger"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

type fakeFullscreen struct {
	requests atomic.Int32
	exits    atomic.Int32
}

func (f *fakeFullscreen) Request(string) { f.requests.Add(1) }
func (f *fakeFullscreen) Exit(string)   { f.exits.Add(1) }

type fakeNotify struct {
	mu        sync.Mutex
	lastInFS  bool
	lastBlock bool
	states    int
	ticks     []int
}

func (f *fakeNotify) FullscreenState(_ string, inFS, blocked bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastInFS = inFS
	f.lastBlock = blocked
	f.states++
}

func (f *fakeNotify) CountdownTick(_ string, remaining int, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks = append(f.ticks, remaining)
}

func (f *fakeNotify) firstTick() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ticks) == 0 {
		return 0, false
	}
	return f.ticks[0], true
}

func (f *fakeNotify) lastState() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastInFS, f.lastBlock
}

type harness struct {
	machine    *Machine
	store      *store.Store
	fs         *fakeFullscreen
	notify     *fakeNotify
	terminated atomic.Int32
	reasonMu   sync.Mutex
	reason     string
}

func newHarness(t *testing.T, grace time.Duration) *harness {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.Session{}, &models.Event{}))

	s := store.New(db, logger.NewNop())
	require.NoError(t, s.PutStudent(&models.Student{Username: "ada", Badges: datatypes.JSONSlice[string]{}}))
	require.NoError(t, s.PutSession(&models.Session{Username: "ada", StartTime: time.Now()}))

	h := &harness{store: s, fs: &fakeFullscreen{}, notify: &fakeNotify{}}
	h.machine = NewMachine(Options{
		Username:   "ada",
		Grace:      grace,
		TickEvery:  5 * time.Millisecond,
		Store:      s,
		Fullscreen: h.fs,
		Notifier:   h.notify,
		Terminate: func(reason string) {
			h.reasonMu.Lock()
			h.reason = reason
			h.reasonMu.Unlock()
			h.terminated.Add(1)
		},
		Log: logger.NewNop(),
	})
	return h
}

func (h *harness) terminationReason() string {
	h.reasonMu.Lock()
	defer h.reasonMu.Unlock()
	return h.reason
}

func TestStartRequestsFullscreen(t *testing.T) {
	h := newHarness(t, 20*time.Second)
	h.machine.Start()
	assert.Equal(t, int32(1), h.fs.requests.Load())
	assert.Equal(t, StateEnforced, h.machine.State())
}

func TestExitStartsGraceCountdownAtFullValue(t *testing.T) {
	h := newHarness(t, 20*time.Second)

	h.machine.HandleFullscreenChange(false)
	assert.Equal(t, StateExited, h.machine.State())

	first, ok := h.notify.firstTick()
	require.True(t, ok)
	assert.Equal(t, 20, first)

	sess, err := h.store.GetSession("ada")
	require.NoError(t, err)
	assert.False(t, sess.FsInFullscreen)
	assert.NotNil(t, sess.LastExit)
	assert.Equal(t, 1, sess.FsExitCount)
}

func TestTimeoutTerminatesExactlyOnce(t *testing.T) {
	h := newHarness(t, 3*time.Second)

	h.machine.HandleFullscreenChange(false)
	assert.Eventually(t, func() bool { return h.terminated.Load() == 1 },
		2*time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), h.terminated.Load())
	assert.Equal(t, ReasonTimeout, h.terminationReason())
	assert.Equal(t, StateTerminated, h.machine.State())
	assert.Equal(t, int32(1), h.fs.exits.Load())

	// Terminal state: further signals are ignored.
	h.machine.HandleFullscreenChange(true)
	assert.Equal(t, StateTerminated, h.machine.State())
}

func TestReentryCancelsCountdown(t *testing.T) {
	h := newHarness(t, 10*time.Second)

	h.machine.HandleFullscreenChange(false)
	h.machine.HandleFullscreenChange(true)
	assert.Equal(t, StateEnforced, h.machine.State())

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, h.terminated.Load())

	sess, err := h.store.GetSession("ada")
	require.NoError(t, err)
	assert.True(t, sess.FsInFullscreen)

	inFS, blocked := h.notify.lastState()
	assert.True(t, inFS)
	assert.False(t, blocked)
}

func TestRapidToggleResetsCountdown(t *testing.T) {
	h := newHarness(t, 10*time.Second)

	h.machine.HandleFullscreenChange(false)
	h.machine.HandleFullscreenChange(false)
	assert.Equal(t, StateExited, h.machine.State())

	// Countdown restarted at the full duration, not stacked.
	assert.GreaterOrEqual(t, h.machine.CountdownRemaining(), 8)

	sess, err := h.store.GetSession("ada")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.FsExitCount)

	st, err := h.store.GetStudent("ada")
	require.NoError(t, err)
	assert.Equal(t, 2, st.FsExitCount)

	h.machine.Terminate("cleanup")
}

func TestConfirmExitIsVoluntary(t *testing.T) {
	h := newHarness(t, 10*time.Second)

	h.machine.HandleFullscreenChange(false)
	h.machine.ConfirmExit()

	assert.Equal(t, int32(1), h.terminated.Load())
	assert.Equal(t, ReasonVoluntary, h.terminationReason())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), h.terminated.Load())
}

func TestStayRequestsFullscreenAgain(t *testing.T) {
	h := newHarness(t, 10*time.Second)
	h.machine.Start()

	// No-op while enforced.
	h.machine.StayInSession()
	assert.Equal(t, int32(1), h.fs.requests.Load())

	h.machine.HandleFullscreenChange(false)
	h.machine.StayInSession()
	assert.Equal(t, int32(2), h.fs.requests.Load())

	h.machine.Terminate("cleanup")
}

func TestDeniedRunsDegraded(t *testing.T) {
	h := newHarness(t, 10*time.Second)
	h.machine.Start()
	h.machine.HandleFullscreenDenied()

	assert.True(t, h.machine.Blocked())
	assert.Equal(t, StateEnforced, h.machine.State())
	assert.Zero(t, h.terminated.Load())

	_, blocked := h.notify.lastState()
	assert.True(t, blocked)

	// A later grant clears the degraded flag.
	h.machine.HandleFullscreenChange(true)
	assert.False(t, h.machine.Blocked())
}

func TestStopCancelsCountdownWithoutTeardown(t *testing.T) {
	h := newHarness(t, 3*time.Second)

	h.machine.HandleFullscreenChange(false)
	h.machine.Stop()
	assert.Equal(t, StateTerminated, h.machine.State())

	// Past the grace expiry: the cancelled countdown stays silent.
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, h.terminated.Load())
	assert.Zero(t, h.fs.exits.Load())

	// A stopped machine ignores everything, Terminate included.
	h.machine.HandleFullscreenChange(true)
	h.machine.Terminate("late")
	assert.Zero(t, h.terminated.Load())
	assert.Equal(t, StateTerminated, h.machine.State())
}

func TestExitEventsLogged(t *testing.T) {
	h := newHarness(t, 10*time.Second)

	h.machine.HandleFullscreenChange(false)
	h.machine.HandleFullscreenChange(true)
	h.machine.Terminate("cleanup")

	events, err := h.store.Events()
	require.NoError(t, err)
	var types []string
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{models.EventFsExit, models.EventFsEnter}, types)
	assert.Equal(t, "#ff2d55", events[0].Color)
	assert.Equal(t, "#00ff88", events[1].Color)
}
