package ws

import (
	"github.com/neuraledu/proctor_backend_v1/internal/dashboard"
	"github.com/neuraledu/proctor_backend_v1/internal/syncer"
)

// Notifier adapts the hubs to the engine's outbound boundary: it satisfies
// the engine Notifier, the proctor Fullscreen capability and the engine
// Capture capability, all backed by pushes to the browsing context.
type Notifier struct {
	hubs *Hubs
}

func NewNotifier(h *Hubs) *Notifier { return &Notifier{hubs: h} }

func (n *Notifier) FullscreenState(username string, inFullscreen, blocked bool) {
	n.hubs.Student.Notify(username, StudentMessage{
		Type:         MsgFullscreenState,
		InFullscreen: inFullscreen,
		Blocked:      blocked,
	})
}

func (n *Notifier) CountdownTick(username string, remaining int, elapsed float64) {
	n.hubs.Student.Notify(username, StudentMessage{
		Type:      MsgCountdownTick,
		Remaining: remaining,
		Elapsed:   elapsed,
	})
}

func (n *Notifier) AiCountdownTick(username string, remaining int) {
	n.hubs.Student.Notify(username, StudentMessage{Type: MsgAiCountdown, Remaining: remaining})
}

func (n *Notifier) AiUnlocked(username string) {
	n.hubs.Student.Notify(username, StudentMessage{Type: MsgAiUnlocked})
}

func (n *Notifier) SessionTerminated(username, reason string) {
	n.hubs.Student.Notify(username, StudentMessage{Type: MsgSessionTerminated, Reason: reason})
}

func (n *Notifier) DashboardRefresh(ov *dashboard.Overview) {
	n.hubs.Dashboard.Broadcast(ov)
}

func (n *Notifier) StudentRefresh(view *syncer.StudentView) {
	n.hubs.Student.Notify(view.Username, StudentMessage{Type: MsgRefresh, View: view})
}

// Request asks the browsing context to enter platform fullscreen; the
// grant or denial comes back through the session signal endpoints.
func (n *Notifier) Request(username string) {
	n.hubs.Student.Notify(username, StudentMessage{Type: MsgFullscreenRequest})
}

// Exit asks the browsing context to leave platform fullscreen.
func (n *Notifier) Exit(username string) {
	n.hubs.Student.Notify(username, StudentMessage{Type: MsgFullscreenExit})
}

// Release asks the browsing context to stop its camera stream.
func (n *Notifier) Release(username string) {
	n.hubs.Student.Notify(username, StudentMessage{Type: MsgCameraRelease})
}
