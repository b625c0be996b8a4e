package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"verivote/pkg/domain"
)

// PostgresLedger persists votes in PostgreSQL. The primary key on identity
// plus ON CONFLICT DO NOTHING gives the atomic insert-if-absent across any
// number of sessions and processes.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// EnsureSchema creates the votes table when missing.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS votes (
			identity       TEXT PRIMARY KEY,
			id             UUID NOT NULL,
			choice         TEXT NOT NULL,
			combined_score DOUBLE PRECISION NOT NULL,
			face_passed    BOOLEAN NOT NULL,
			iris_passed    BOOLEAN NOT NULL,
			cast_at        TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure votes schema: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Record(ctx context.Context, record VoteRecord) error {
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO votes (identity, id, choice, combined_score, face_passed, iris_passed, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (identity) DO NOTHING
	`,
		record.Identity.String(),
		record.ID,
		record.Choice,
		record.CombinedScore,
		record.FacePassed,
		record.IrisPassed,
		record.CastAt,
	)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert vote result: %w", err)
	}
	if affected == 0 {
		return ErrDuplicateVote
	}
	return nil
}

func (l *PostgresLedger) HasVoted(ctx context.Context, identity domain.Identity) (bool, error) {
	var voted bool
	err := l.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM votes WHERE identity = $1)`,
		identity.String(),
	).Scan(&voted)
	if err != nil {
		return false, fmt.Errorf("check vote: %w", err)
	}
	return voted, nil
}

func (l *PostgresLedger) List(ctx context.Context) ([]VoteRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT identity, id, choice, combined_score, face_passed, iris_passed, cast_at
		FROM votes ORDER BY cast_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	var records []VoteRecord
	for rows.Next() {
		var record VoteRecord
		var identity string
		if err := rows.Scan(&identity, &record.ID, &record.Choice,
			&record.CombinedScore, &record.FacePassed, &record.IrisPassed, &record.CastAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		record.Identity = domain.Identity(identity)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return records, nil
}

func (l *PostgresLedger) ClearAll(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, `TRUNCATE votes`); err != nil {
		return fmt.Errorf("clear votes: %w", err)
	}
	return nil
}
