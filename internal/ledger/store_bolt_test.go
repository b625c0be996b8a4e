package ledger

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verivote/internal/platform/logger"
)

func newBoltLedger(t *testing.T) (*BoltLedger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "votes.db")
	l, err := NewBoltLedger(path, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l, path
}

func TestBoltLedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	l, _ := newBoltLedger(t)

	want := testRecord("john doe")
	require.NoError(t, l.Record(ctx, want))

	voted, err := l.HasVoted(ctx, "john doe")
	require.NoError(t, err)
	assert.True(t, voted)

	records, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, want.ID, records[0].ID)
	assert.Equal(t, want.Choice, records[0].Choice)
	assert.InDelta(t, want.CombinedScore, records[0].CombinedScore, 1e-12)
}

func TestBoltLedgerRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	l, _ := newBoltLedger(t)

	first := testRecord("alice")
	require.NoError(t, l.Record(ctx, first))

	second := testRecord("alice")
	second.Choice = "AAP"
	assert.ErrorIs(t, l.Record(ctx, second), ErrDuplicateVote)

	// The losing write must not have replaced the committed record.
	records, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, first.Choice, records[0].Choice)
}

func TestBoltLedgerSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "votes.db")

	l, err := NewBoltLedger(path, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, testRecord("bob")))
	require.NoError(t, l.Close())

	reopened, err := NewBoltLedger(path, logger.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	voted, err := reopened.HasVoted(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, voted)
	assert.ErrorIs(t, reopened.Record(ctx, testRecord("bob")), ErrDuplicateVote)
}

func TestBoltLedgerConcurrentUniqueness(t *testing.T) {
	ctx := context.Background()
	l, _ := newBoltLedger(t)
	const goroutines = 32

	var wg sync.WaitGroup
	var successes atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Record(ctx, testRecord("contested")); err == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
}

func TestBoltLedgerReinitializesCorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "votes.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a bolt database"), 0o600))

	l, err := NewBoltLedger(path, logger.NewNop())
	require.NoError(t, err)
	defer l.Close()

	// Fresh ledger works, and the unreadable history was quarantined, not
	// silently deleted.
	require.NoError(t, l.Record(ctx, testRecord("carol")))
	matches, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestBoltLedgerClearAllIdempotent(t *testing.T) {
	ctx := context.Background()
	l, _ := newBoltLedger(t)
	require.NoError(t, l.Record(ctx, testRecord("dave")))

	require.NoError(t, l.ClearAll(ctx))
	require.NoError(t, l.ClearAll(ctx))

	records, err := l.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.NoError(t, l.Record(ctx, testRecord("dave")))
}
