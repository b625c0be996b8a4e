package biometric

// Modality is one biometric channel.
type Modality string

const (
	ModalityFace Modality = "face"
	ModalityIris Modality = "iris"
)

// Verdict is the ephemeral result of one comparison between a live sample and
// a stored template. It is never persisted.
type Verdict struct {
	Confidence float64 // 0.0 - 1.0, normalized from the distance metric
	Passed     bool
}

// FusionResult combines two modality verdicts into one decision.
type FusionResult struct {
	CombinedScore float64
	Accepted      bool
}

// Metric selects the face distance function. The cosine metric matches
// embeddings from the standard model; the euclidean metric matches the
// L2-normalized embeddings of the alternate pipeline.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// Config carries all decision tuning. Weights and thresholds are deployment
// configuration, not constants, so alternate installs can tune strictness.
type Config struct {
	FaceMetric      Metric
	FaceThreshold   float64
	IrisThreshold   float64
	IrisMaxDistance float64
	FaceWeight      float64
	IrisWeight      float64
	AcceptThreshold float64
}

// DefaultConfig returns the tuning the reference deployment ships with.
func DefaultConfig() Config {
	return Config{
		FaceMetric:      MetricCosine,
		FaceThreshold:   0.6,
		IrisThreshold:   1000,
		IrisMaxDistance: 2000,
		FaceWeight:      0.6,
		IrisWeight:      0.4,
		AcceptThreshold: 0.65,
	}
}
