package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"verivote/pkg/domain"
)

// PostgresStore persists templates in PostgreSQL. The float8[] columns keep
// the fixed-shape vector schema at the storage boundary; conversion to native
// slices happens only here, at the edge.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the enrollments table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS enrollments (
			identity      TEXT PRIMARY KEY,
			face_template FLOAT8[] NOT NULL,
			iris_template FLOAT8[] NOT NULL,
			national_id   TEXT NOT NULL,
			birthdate     TEXT NOT NULL,
			enrolled_at   TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure enrollments schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Enroll(ctx context.Context, template Template) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enrollments (identity, face_template, iris_template, national_id, birthdate, enrolled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (identity) DO UPDATE SET
			face_template = EXCLUDED.face_template,
			iris_template = EXCLUDED.iris_template,
			national_id   = EXCLUDED.national_id,
			birthdate     = EXCLUDED.birthdate,
			enrolled_at   = EXCLUDED.enrolled_at
	`,
		template.Identity.String(),
		pq.Array(template.Face),
		pq.Array(template.Iris),
		template.Metadata.NationalID,
		template.Metadata.Birthdate,
		template.Metadata.EnrolledAt,
	)
	if err != nil {
		return fmt.Errorf("upsert enrollment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Lookup(ctx context.Context, identity domain.Identity) (Template, error) {
	template := Template{Identity: identity}
	var face, iris pq.Float64Array
	err := s.db.QueryRowContext(ctx, `
		SELECT face_template, iris_template, national_id, birthdate, enrolled_at
		FROM enrollments WHERE identity = $1
	`, identity.String()).Scan(
		&face,
		&iris,
		&template.Metadata.NationalID,
		&template.Metadata.Birthdate,
		&template.Metadata.EnrolledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, ErrNotEnrolled
	}
	if err != nil {
		return Template{}, fmt.Errorf("lookup enrollment: %w", err)
	}
	template.Face = []float64(face)
	template.Iris = []float64(iris)
	return template, nil
}

func (s *PostgresStore) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE enrollments`); err != nil {
		return fmt.Errorf("clear enrollments: %w", err)
	}
	return nil
}
