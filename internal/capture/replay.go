package capture

import (
	"context"
	"sync"
)

// Replay is a Pipeline backed by pre-extracted feature vectors instead of a
// live camera. The HTTP and CLI entry points use it to hand the core samples
// captured elsewhere; tests use it for deterministic sessions.
//
// Each Next call advances a cursor; the extractors return the vector recorded
// for the current frame, so one frame yields at most one sample per modality.
type Replay struct {
	mu     sync.Mutex
	face   [][]float64
	iris   [][]float64
	cursor int
}

// NewReplay builds a replay source over pre-extracted samples. A nil entry in
// either slice models a frame where that modality detected nothing.
func NewReplay(face, iris [][]float64) *Replay {
	return &Replay{face: face, iris: iris}
}

// Pipeline returns the replay wired as all three capture roles.
func (r *Replay) Pipeline() Pipeline {
	return Pipeline{Frames: r, Face: r, Iris: r}
}

func (r *Replay) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor >= len(r.face) && r.cursor >= len(r.iris) {
		return nil, ErrExhausted
	}
	r.cursor++
	return Frame{}, nil
}

func (r *Replay) ExtractFace(Frame) ([]float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.cursor - 1
	if idx < 0 || idx >= len(r.face) || r.face[idx] == nil {
		return nil, false
	}
	return r.face[idx], true
}

func (r *Replay) ExtractIris(Frame) ([]float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.cursor - 1
	if idx < 0 || idx >= len(r.iris) || r.iris[idx] == nil {
		return nil, false
	}
	return r.iris[idx], true
}
