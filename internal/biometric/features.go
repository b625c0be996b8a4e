package biometric

// Iris feature vector layout. The extractor samples three concentric rings of
// the normalized iris image for four statistics each (mean, stddev, median,
// variance), then an 8x8 grid of blocks for two statistics each (mean,
// stddev): 3*4 + 64*2 = 140 elements.
const (
	IrisRingCount     = 3
	IrisRingStats     = 4
	IrisGridBlocks    = 64
	IrisBlockStats    = 2
	IrisFeatureLength = IrisRingCount*IrisRingStats + IrisGridBlocks*IrisBlockStats
)

// ValidIrisFeatures reports whether a vector has the exact layout the iris
// extractor produces. Vectors of any other length must never be compared or
// stored as templates.
func ValidIrisFeatures(v []float64) bool {
	return len(v) == IrisFeatureLength
}
