package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"attest/internal/verification"
	"attest/pkg/platform/sentinel"
)

// PostgresSubmissionStore persists submission records in PostgreSQL. The
// verification result and face match payloads are stored as JSONB; scalar
// columns carry the fields queried by dashboards.
//
// Schema (migrations live with the deployment):
//
//	CREATE TABLE submissions (
//	    id            UUID PRIMARY KEY,
//	    user_id       TEXT NOT NULL,
//	    document_type TEXT NOT NULL,
//	    valid         BOOLEAN NOT NULL,
//	    result        JSONB NOT NULL,
//	    face_match    JSONB NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX submissions_user_created_idx ON submissions (user_id, created_at DESC);
type PostgresSubmissionStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed submission store.
func NewPostgres(db *sql.DB) *PostgresSubmissionStore {
	return &PostgresSubmissionStore{db: db}
}

func (s *PostgresSubmissionStore) Save(ctx context.Context, record *verification.SubmissionRecord) error {
	result, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("encode verification result: %w", err)
	}
	face, err := json.Marshal(record.FaceMatch)
	if err != nil {
		return fmt.Errorf("encode face match: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, user_id, document_type, valid, result, face_match, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			valid = EXCLUDED.valid,
			result = EXCLUDED.result,
			face_match = EXCLUDED.face_match`,
		record.ID, record.UserID, record.DocumentType, record.Result.Valid, result, face, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

func (s *PostgresSubmissionStore) FindByID(ctx context.Context, id uuid.UUID) (*verification.SubmissionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, document_type, result, face_match, created_at
		FROM submissions WHERE id = $1`, id)

	record, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("submission %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return record, nil
}

func (s *PostgresSubmissionStore) ListByUser(ctx context.Context, userID string, limit int) ([]*verification.SubmissionRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, document_type, result, face_match, created_at
		FROM submissions WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := make([]*verification.SubmissionRecord, 0)
	for rows.Next() {
		record, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*verification.SubmissionRecord, error) {
	var (
		record verification.SubmissionRecord
		result []byte
		face   []byte
	)
	if err := row.Scan(&record.ID, &record.UserID, &record.DocumentType, &result, &face, &record.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result, &record.Result); err != nil {
		return nil, fmt.Errorf("decode verification result: %w", err)
	}
	if err := json.Unmarshal(face, &record.FaceMatch); err != nil {
		return nil, fmt.Errorf("decode face match: %w", err)
	}
	return &record, nil
}
