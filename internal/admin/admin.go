// Package admin holds the destructive administrative operations. They are
// deliberately separate from the voter-facing services so the HTTP layer can
// gate them behind the admin role.
package admin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"verivote/internal/enrollment"
	"verivote/internal/ledger"
)

// Service performs election resets.
type Service struct {
	templates enrollment.Store
	votes     ledger.Ledger
	log       *zap.Logger
}

func NewService(templates enrollment.Store, votes ledger.Ledger, log *zap.Logger) *Service {
	return &Service{templates: templates, votes: votes, log: log}
}

// WipeAll clears every enrolled template and every vote record. Both stores
// are attempted even if one fails so a partial wipe never silently skips the
// other half; the joined error reports everything that went wrong.
func (s *Service) WipeAll(ctx context.Context) error {
	var templateErr, voteErr error
	if err := s.templates.ClearAll(ctx); err != nil {
		templateErr = fmt.Errorf("clear templates: %w", err)
	}
	if err := s.votes.ClearAll(ctx); err != nil {
		voteErr = fmt.Errorf("clear votes: %w", err)
	}
	if err := errors.Join(templateErr, voteErr); err != nil {
		return err
	}
	s.log.Warn("all enrollment and vote data wiped")
	return nil
}
