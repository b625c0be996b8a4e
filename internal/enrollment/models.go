package enrollment

import (
	"time"

	"verivote/pkg/domain"
)

// Metadata is the demographic record kept alongside the biometric templates.
type Metadata struct {
	NationalID string    `json:"national_id"`
	Birthdate  string    `json:"birthdate"` // YYYY-MM-DD
	EnrolledAt time.Time `json:"enrolled_at"`
}

// Template is one identity's enrolled reference data: a face embedding, an
// iris feature vector, and the metadata record. Created once at enrollment
// and immutable until re-enrollment or a full wipe.
type Template struct {
	Identity domain.Identity
	Face     []float64
	Iris     []float64
	Metadata Metadata
}
