package engine

import (
	"errors"
	"fmt"
)

// PermissionError marks a denied platform capability (camera, fullscreen).
// It degrades a single feature; the session keeps running.
type PermissionError struct {
	Capability string
}

func (e *PermissionError) Error() string { return e.Capability + " permission denied" }

var (
	ErrNoActiveSession  = errors.New("no active session")
	ErrAiLocked         = errors.New("soft ai not unlocked yet")
	ErrNoQuiz           = errors.New("no quiz generated")
	ErrDocumentTooLarge = fmt.Errorf("document exceeds %d bytes", maxDocumentSize)
	ErrVideoTooLarge    = fmt.Errorf("video exceeds %d bytes", maxVideoSize)
)
