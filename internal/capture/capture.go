// Package capture defines the contracts for the external capture
// collaborator: the frame source (camera loop) and the pluggable feature
// extractors. The core never implements these; entry points supply them.
package capture

import (
	"context"
	"errors"
)

// ErrExhausted is returned by a FrameSource that has no more frames to give.
// The capture loop treats it as the end of the window, not a failure.
var ErrExhausted = errors.New("frame source exhausted")

// Frame is one opaque image sample from the collaborator. The core never
// inspects frame bytes; only extractors do.
type Frame []byte

// FrameSource yields live frames and is expected to be called in a bounded
// loop. Next blocks until a frame is available or ctx is done.
type FrameSource interface {
	Next(ctx context.Context) (Frame, error)
}

// FaceExtractor produces a face embedding from a frame. ok is false when no
// face was detected in the frame.
type FaceExtractor interface {
	ExtractFace(frame Frame) (features []float64, ok bool)
}

// IrisExtractor produces an iris texture feature vector from a frame. ok is
// false when no iris was located.
type IrisExtractor interface {
	ExtractIris(frame Frame) (features []float64, ok bool)
}

// Pipeline bundles the capture collaborator with the extraction models for
// one session. It replaces ambient model globals: construct it once at
// startup and pass it explicitly into every enrollment or verification call.
type Pipeline struct {
	Frames FrameSource
	Face   FaceExtractor
	Iris   IrisExtractor
}
