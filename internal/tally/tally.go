// Package tally aggregates the vote ledger into election results. It only
// reads; all mutation stays behind the ledger's Record path.
package tally

import (
	"context"
	"fmt"
	"time"

	"verivote/internal/ledger"
)

// Summary is a point-in-time aggregation of the ledger. Counts per choice
// include only choices that actually received votes; Hourly buckets votes by
// the UTC hour they were cast in.
type Summary struct {
	TotalVotes   int            `json:"total_votes"`
	Choices      map[string]int `json:"choices"`
	AverageScore float64        `json:"average_score"`
	FacePassed   int            `json:"face_passed"`
	IrisPassed   int            `json:"iris_passed"`
	Hourly       map[string]int `json:"hourly"`
	FirstVote    time.Time      `json:"first_vote,omitzero"`
	LastVote     time.Time      `json:"last_vote,omitzero"`
}

// hourLayout keys the Hourly buckets.
const hourLayout = "2006-01-02T15"

// Summarize aggregates a slice of records. It is a pure function so the HTTP
// layer and the CLI can both reuse it on exported data.
func Summarize(records []ledger.VoteRecord) Summary {
	summary := Summary{
		Choices: make(map[string]int, 4),
		Hourly:  make(map[string]int),
	}
	if len(records) == 0 {
		return summary
	}

	var scoreSum float64
	summary.FirstVote = records[0].CastAt
	summary.LastVote = records[0].CastAt
	for _, record := range records {
		summary.TotalVotes++
		summary.Choices[record.Choice]++
		summary.Hourly[record.CastAt.UTC().Format(hourLayout)]++
		scoreSum += record.CombinedScore
		if record.FacePassed {
			summary.FacePassed++
		}
		if record.IrisPassed {
			summary.IrisPassed++
		}
		if record.CastAt.Before(summary.FirstVote) {
			summary.FirstVote = record.CastAt
		}
		if record.CastAt.After(summary.LastVote) {
			summary.LastVote = record.CastAt
		}
	}
	summary.AverageScore = scoreSum / float64(summary.TotalVotes)
	return summary
}

// Service exposes results over a live ledger.
type Service struct {
	votes ledger.Ledger
}

func NewService(votes ledger.Ledger) *Service {
	return &Service{votes: votes}
}

// Results summarizes the current ledger contents.
func (s *Service) Results(ctx context.Context) (Summary, error) {
	records, err := s.votes.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list votes: %w", err)
	}
	return Summarize(records), nil
}

// Export returns the raw ledger records, ordered by cast time, for audit.
func (s *Service) Export(ctx context.Context) ([]ledger.VoteRecord, error) {
	records, err := s.votes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return records, nil
}
