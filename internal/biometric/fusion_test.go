package biometric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFuseWeightedScore(t *testing.T) {
	cfg := DefaultConfig()

	// Face distance 0.4 -> conf 0.6; iris distance 1200 -> conf 0.4, failed.
	// Combined 0.6*0.6 + 0.4*0.4 = 0.52 <= 0.65 and iris failed, so rejected.
	face := Verdict{Confidence: 0.6, Passed: true}
	iris := Verdict{Confidence: 0.4, Passed: false}

	res := Fuse(face, iris, cfg)
	assert.InDelta(t, 0.52, res.CombinedScore, 1e-9)
	assert.False(t, res.Accepted)
}

func TestFuseBothPassedAcceptsRegardlessOfScore(t *testing.T) {
	cfg := DefaultConfig()

	// Face conf 0.7 passed, iris conf 0.55 passed: combined is only 0.64 but
	// both modalities passing accepts outright.
	res := Fuse(Verdict{Confidence: 0.7, Passed: true}, Verdict{Confidence: 0.55, Passed: true}, cfg)
	assert.InDelta(t, 0.64, res.CombinedScore, 1e-9)
	assert.True(t, res.Accepted)
}

func TestFuseCombinedScoreOverridesModalityFailure(t *testing.T) {
	cfg := DefaultConfig()

	// Iris failed outright but the weighted score clears the threshold.
	res := Fuse(Verdict{Confidence: 0.9, Passed: true}, Verdict{Confidence: 0.5, Passed: false}, cfg)
	assert.InDelta(t, 0.74, res.CombinedScore, 1e-9)
	assert.True(t, res.Accepted)
}

func TestFuseDefaultsReject(t *testing.T) {
	res := Fuse(Verdict{}, Verdict{}, DefaultConfig())
	assert.Equal(t, 0.0, res.CombinedScore)
	assert.False(t, res.Accepted)
}

func TestFuseDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	face := Verdict{Confidence: 0.81, Passed: true}
	iris := Verdict{Confidence: 0.33, Passed: false}

	first := Fuse(face, iris, cfg)
	for range 10 {
		assert.Equal(t, first, Fuse(face, iris, cfg))
	}
}

func TestFuseRespectsConfiguredWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FaceWeight = 0.5
	cfg.IrisWeight = 0.5
	cfg.AcceptThreshold = 0.5

	res := Fuse(Verdict{Confidence: 0.4}, Verdict{Confidence: 0.8}, cfg)
	assert.InDelta(t, 0.6, res.CombinedScore, 1e-9)
	assert.True(t, res.Accepted)
}
