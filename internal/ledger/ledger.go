// Package ledger is the durable, identity-keyed record of cast votes. Its
// core obligation is the uniqueness guarantee: at most one VoteRecord per
// identity, enforced by an atomic check-and-insert in every implementation.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"verivote/pkg/domain"
	"verivote/pkg/platform/sentinel"
)

// ErrDuplicateVote is returned by Record when the identity already holds a
// vote. It wraps sentinel.ErrConflict.
var ErrDuplicateVote = fmt.Errorf("already voted: %w", sentinel.ErrConflict)

// VoteRecord is created exactly once per identity on a successful fusion
// decision. It is never mutated or deleted except by the administrative wipe.
type VoteRecord struct {
	ID            uuid.UUID       `json:"id"`
	Identity      domain.Identity `json:"identity"`
	Choice        string          `json:"choice"`
	CombinedScore float64         `json:"combined_score"`
	FacePassed    bool            `json:"face_passed"`
	IrisPassed    bool            `json:"iris_passed"`
	CastAt        time.Time       `json:"cast_at"`
}

// Ledger is the narrow contract all vote mutation goes through. Record must
// perform the existence check and the insert as one atomic, serialized
// operation: concurrent attempts for the same identity must not both succeed,
// across sessions and (for durable backends) across OS processes.
type Ledger interface {
	Record(ctx context.Context, record VoteRecord) error
	HasVoted(ctx context.Context, identity domain.Identity) (bool, error)
	List(ctx context.Context) ([]VoteRecord, error)
	ClearAll(ctx context.Context) error
}
