package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore creates a new Postgres store
func NewPostgresStore(url string, logger *slog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{db: db, logger: logger}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *PostgresStore) Migrate(ctx context.Context) error {
	schema := `
	-- Verification submissions
	CREATE TABLE IF NOT EXISTS submissions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		chain_id BIGINT NOT NULL,
		address TEXT NOT NULL,
		contract_name TEXT NOT NULL,
		compiler_version TEXT NOT NULL,
		guid TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- Indexes
	CREATE INDEX IF NOT EXISTS idx_submissions_address ON submissions(chain_id, address);
	CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);
	CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	s.logger.Info("database migrations complete")
	return nil
}

// CreateSubmission records a new submission
func (s *PostgresStore) CreateSubmission(ctx context.Context, sub *Submission) error {
	if sub.ID == "" {
		sub.ID = generateID()
	}
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now

	query := `
		INSERT INTO submissions (id, chain_id, address, contract_name, compiler_version, guid, status, detail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		sub.ID, sub.ChainID, sub.Address, sub.ContractName, sub.CompilerVersion,
		sub.GUID, sub.Status, sub.Detail, sub.CreatedAt, sub.UpdatedAt,
	)
	return err
}

// GetSubmission retrieves a submission by ID
func (s *PostgresStore) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	query := `
		SELECT id, chain_id, address, contract_name, compiler_version, guid, status, detail, created_at, updated_at
		FROM submissions
		WHERE id = $1
	`
	var sub Submission
	var detail sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.ChainID, &sub.Address, &sub.ContractName, &sub.CompilerVersion,
		&sub.GUID, &sub.Status, &detail, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	sub.Detail = detail.String
	return &sub, err
}

// UpdateSubmissionStatus updates a submission's status and detail
func (s *PostgresStore) UpdateSubmissionStatus(ctx context.Context, id, status, detail string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE submissions SET status = $1, detail = $2, updated_at = NOW() WHERE id = $3",
		status, detail, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// ListSubmissions lists submissions newest first with cursor-based
// pagination. The cursor is the created_at of the last row seen.
func (s *PostgresStore) ListSubmissions(ctx context.Context, filter SubmissionFilter, pagination PaginationParams) (*PaginatedResult[Submission], error) {
	query := `
		SELECT id, chain_id, address, contract_name, compiler_version, guid, status, detail, created_at, updated_at
		FROM submissions
	`
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.ChainID != 0 {
		conds = append(conds, "chain_id = "+arg(filter.ChainID))
	}
	if filter.Address != "" {
		conds = append(conds, "address = "+arg(filter.Address))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(filter.Status))
	}
	if pagination.Cursor != "" {
		cursor, err := time.Parse(time.RFC3339Nano, pagination.Cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}
		conds = append(conds, "created_at < "+arg(cursor))
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC LIMIT " + arg(pagination.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		var sub Submission
		var detail sql.NullString
		if err := rows.Scan(
			&sub.ID, &sub.ChainID, &sub.Address, &sub.ContractName, &sub.CompilerVersion,
			&sub.GUID, &sub.Status, &detail, &sub.CreatedAt, &sub.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sub.Detail = detail.String
		submissions = append(submissions, sub)
	}

	hasMore := len(submissions) > pagination.Limit
	var nextCursor string
	if hasMore {
		submissions = submissions[:pagination.Limit]
	}
	if hasMore && len(submissions) > 0 {
		nextCursor = submissions[len(submissions)-1].CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	return &PaginatedResult[Submission]{
		Data:       submissions,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}, rows.Err()
}
