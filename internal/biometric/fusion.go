package biometric

// Fuse applies score-level fusion to the two modality verdicts. The combined
// score is the weighted sum of the per-modality confidences, and the session
// is accepted when both modalities passed outright, or when the combined
// score clears the accept threshold.
//
// The OR clause lets a strong combined score override a single-modality
// failure. That trade-off is intentional and configurable via
// Config.AcceptThreshold; see DESIGN.md for the policy discussion.
func Fuse(face, iris Verdict, cfg Config) FusionResult {
	combined := face.Confidence*cfg.FaceWeight + iris.Confidence*cfg.IrisWeight
	return FusionResult{
		CombinedScore: combined,
		Accepted:      (face.Passed && iris.Passed) || combined > cfg.AcceptThreshold,
	}
}
