package capture

import (
	"fmt"

	"verivote/pkg/platform/sentinel"
)

// ErrBusy is returned when the camera is already held by another session.
var ErrBusy = fmt.Errorf("camera %w", sentinel.ErrUnavailable)

// Guard serializes access to the camera. The camera is a scarce, exclusively
// owned resource: only one enrollment or verification session may hold it at
// a time, and a session that cannot acquire it fails fast rather than
// silently sharing frames.
type Guard struct {
	slot chan struct{}
}

func NewGuard() *Guard {
	g := &Guard{slot: make(chan struct{}, 1)}
	g.slot <- struct{}{}
	return g
}

// TryAcquire claims the camera without blocking. On success it returns a
// release func; the caller must invoke it exactly once when the capture
// phases end.
func (g *Guard) TryAcquire() (release func(), err error) {
	select {
	case <-g.slot:
		return func() { g.slot <- struct{}{} }, nil
	default:
		return nil, ErrBusy
	}
}
