package enrollment

import (
	"context"
	"fmt"

	"verivote/pkg/domain"
	"verivote/pkg/platform/sentinel"
)

// ErrNotEnrolled is returned by Lookup when no template exists for an
// identity. It wraps sentinel.ErrNotFound so infrastructure layers can keep
// matching on the generic sentinel.
var ErrNotEnrolled = fmt.Errorf("identity not enrolled: %w", sentinel.ErrNotFound)

// Store holds enrolled reference templates. Enroll overwrites any prior
// template for the identity; whether re-enrollment is permitted is a policy
// decision owned by callers, not by the store.
type Store interface {
	Enroll(ctx context.Context, template Template) error
	Lookup(ctx context.Context, identity domain.Identity) (Template, error)
	ClearAll(ctx context.Context) error
}
