package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is RFC 3339 with fixed-width fractional seconds so that
// stored timestamps compare correctly as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	schema := `
	-- Verification submissions
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		chain_id INTEGER NOT NULL,
		address TEXT NOT NULL,
		contract_name TEXT NOT NULL,
		compiler_version TEXT NOT NULL,
		guid TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
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

// CreateSubmission records a new submission. ID and timestamps are
// assigned here when the caller leaves them zero.
func (s *SQLiteStore) CreateSubmission(ctx context.Context, sub *Submission) error {
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		sub.ID, sub.ChainID, sub.Address, sub.ContractName, sub.CompilerVersion,
		sub.GUID, sub.Status, sub.Detail,
		sub.CreatedAt.Format(timeLayout), sub.UpdatedAt.Format(timeLayout),
	)
	return err
}

// GetSubmission retrieves a submission by ID
func (s *SQLiteStore) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	query := `
		SELECT id, chain_id, address, contract_name, compiler_version, guid, status, detail, created_at, updated_at
		FROM submissions
		WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	sub, err := scanSubmission(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return sub, err
}

// UpdateSubmissionStatus updates a submission's status and detail
func (s *SQLiteStore) UpdateSubmissionStatus(ctx context.Context, id, status, detail string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE submissions SET status = ?, detail = ?, updated_at = ? WHERE id = ?",
		status, detail, time.Now().UTC().Format(timeLayout), id,
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
func (s *SQLiteStore) ListSubmissions(ctx context.Context, filter SubmissionFilter, pagination PaginationParams) (*PaginatedResult[Submission], error) {
	query := `
		SELECT id, chain_id, address, contract_name, compiler_version, guid, status, detail, created_at, updated_at
		FROM submissions
	`
	var conds []string
	var args []any
	if filter.ChainID != 0 {
		conds = append(conds, "chain_id = ?")
		args = append(args, filter.ChainID)
	}
	if filter.Address != "" {
		conds = append(conds, "address = ?")
		args = append(args, filter.Address)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if pagination.Cursor != "" {
		conds = append(conds, "created_at < ?")
		args = append(args, pagination.Cursor)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, pagination.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *sub)
	}

	hasMore := len(submissions) > pagination.Limit
	var nextCursor string
	if hasMore {
		submissions = submissions[:pagination.Limit]
	}
	if hasMore && len(submissions) > 0 {
		nextCursor = submissions[len(submissions)-1].CreatedAt.Format(timeLayout)
	}

	return &PaginatedResult[Submission]{
		Data:       submissions,
		HasMore:    hasMore,
		NextCursor: nextCursor,
	}, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*Submission, error) {
	var sub Submission
	var detail sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(
		&sub.ID, &sub.ChainID, &sub.Address, &sub.ContractName, &sub.CompilerVersion,
		&sub.GUID, &sub.Status, &detail, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Detail = detail.String
	if sub.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if sub.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &sub, nil
}
