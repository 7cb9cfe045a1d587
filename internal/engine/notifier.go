package engine

import (
	"github.com/neuraledu/proctor_backend_v1/internal/dashboard"
	"github.com/neuraledu/proctor_backend_v1/internal/syncer"
)

// Notifier is the outbound state-change boundary. The engine issues
// notifications; it holds no knowledge of how they reach a view (the ws
// hubs implement this in production).
type Notifier interface {
	// Proctoring (also satisfies proctor.Notifier).
	FullscreenState(username string, inFullscreen, blocked bool)
	CountdownTick(username string, remaining int, elapsed float64)

	// Soft AI unlock countdown.
	AiCountdownTick(username string, remaining int)
	AiUnlocked(username string)

	SessionTerminated(username, reason string)

	// Periodic refresh pushes.
	DashboardRefresh(ov *dashboard.Overview)
	StudentRefresh(view *syncer.StudentView)
}

// Capture is the platform camera capability: release instructs the
// student's browsing context to stop its media stream.
type Capture interface {
	Release(username string)
}
