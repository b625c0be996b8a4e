package ledger

import (
	"context"
	"sort"
	"sync"

	"verivote/pkg/domain"
)

// InMemoryLedger enforces uniqueness with a single mutex around the
// check-and-insert. Used by tests and ephemeral development runs.
type InMemoryLedger struct {
	mu    sync.RWMutex
	votes map[domain.Identity]VoteRecord
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{votes: make(map[domain.Identity]VoteRecord)}
}

func (l *InMemoryLedger) Record(_ context.Context, record VoteRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.votes[record.Identity]; exists {
		return ErrDuplicateVote
	}
	l.votes[record.Identity] = record
	return nil
}

func (l *InMemoryLedger) HasVoted(_ context.Context, identity domain.Identity) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, exists := l.votes[identity]
	return exists, nil
}

func (l *InMemoryLedger) List(_ context.Context) ([]VoteRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	records := make([]VoteRecord, 0, len(l.votes))
	for _, r := range l.votes {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CastAt.Before(records[j].CastAt) })
	return records, nil
}

func (l *InMemoryLedger) ClearAll(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.votes = make(map[domain.Identity]VoteRecord)
	return nil
}
