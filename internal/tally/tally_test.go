package tally

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verivote/internal/ledger"
	"verivote/pkg/domain"
)

func record(identity, choice string, score float64, face, iris bool, castAt time.Time) ledger.VoteRecord {
	return ledger.VoteRecord{
		ID:            uuid.New(),
		Identity:      domain.Identity(identity),
		Choice:        choice,
		CombinedScore: score,
		FacePassed:    face,
		IrisPassed:    iris,
		CastAt:        castAt,
	}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	records := []ledger.VoteRecord{
		record("alice", "BJP", 0.9, true, true, base.Add(time.Hour)),
		record("bob", "Congress", 0.7, true, false, base),
		record("carol", "BJP", 0.8, false, true, base.Add(2*time.Hour)),
	}

	summary := Summarize(records)
	assert.Equal(t, 3, summary.TotalVotes)
	assert.Equal(t, map[string]int{"BJP": 2, "Congress": 1}, summary.Choices)
	assert.InDelta(t, 0.8, summary.AverageScore, 1e-9)
	assert.Equal(t, 2, summary.FacePassed)
	assert.Equal(t, 2, summary.IrisPassed)
	assert.Equal(t, base, summary.FirstVote)
	assert.Equal(t, base.Add(2*time.Hour), summary.LastVote)
	assert.Equal(t, map[string]int{
		"2026-04-10T09": 1,
		"2026-04-10T10": 1,
		"2026-04-10T11": 1,
	}, summary.Hourly)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.TotalVotes)
	assert.Empty(t, summary.Choices)
	assert.Zero(t, summary.AverageScore)
	assert.True(t, summary.FirstVote.IsZero())
}

func TestServiceResults(t *testing.T) {
	votes := ledger.NewInMemoryLedger()
	require.NoError(t, votes.Record(context.Background(), record("alice", "AAP", 0.75, true, true, time.Now())))

	svc := NewService(votes)
	summary, err := svc.Results(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalVotes)
	assert.Equal(t, 1, summary.Choices["AAP"])

	exported, err := svc.Export(context.Background())
	require.NoError(t, err)
	require.Len(t, exported, 1)
	assert.Equal(t, "AAP", exported[0].Choice)
}
