package biometric

import "math"

// Matcher compares live feature vectors against stored templates. It is a
// pure function of its inputs; all tuning comes from the Config handed to the
// constructor, never from package state.
type Matcher struct {
	cfg Config
}

func NewMatcher(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Match compares one live sample against the stored template for a modality.
// A length mismatch between live and stored vectors is an expected capture
// artifact (partial occlusion, detector variance), so it yields a failed
// verdict with zero confidence rather than an error.
func (m *Matcher) Match(modality Modality, live, stored []float64) Verdict {
	if len(live) == 0 || len(live) != len(stored) {
		return Verdict{}
	}

	switch modality {
	case ModalityFace:
		return m.matchFace(live, stored)
	case ModalityIris:
		return m.matchIris(live, stored)
	default:
		return Verdict{}
	}
}

func (m *Matcher) matchFace(live, stored []float64) Verdict {
	var distance float64
	switch m.cfg.FaceMetric {
	case MetricEuclidean:
		distance = euclideanDistance(live, stored)
	default:
		d, ok := cosineDistance(live, stored)
		if !ok {
			return Verdict{}
		}
		distance = d
	}

	return Verdict{
		Confidence: clamp01(1 - distance),
		Passed:     distance < m.cfg.FaceThreshold,
	}
}

func (m *Matcher) matchIris(live, stored []float64) Verdict {
	distance := euclideanDistance(live, stored)
	return Verdict{
		Confidence: math.Max(0, 1-distance/m.cfg.IrisMaxDistance),
		Passed:     distance < m.cfg.IrisThreshold,
	}
}

// cosineDistance returns 1 - cos(a, b). A zero-norm vector has no defined
// direction, so it reports not-ok and the caller treats the sample as
// uncomparable.
func cosineDistance(a, b []float64) (float64, bool) {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), true
}

func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
