package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pendergraft/verifactor/internal/config"
)

// SubmissionStore handles verification submission records
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *Submission) error
	GetSubmission(ctx context.Context, id string) (*Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id, status, detail string) error
	ListSubmissions(ctx context.Context, filter SubmissionFilter, pagination PaginationParams) (*PaginatedResult[Submission], error)
}

// Store combines the submission store with lifecycle methods.
// Domain services define their own minimal interfaces based on their actual usage.
type Store interface {
	SubmissionStore

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}

// Submission is one verification request relayed to the explorer
type Submission struct {
	ID              string    `json:"id"`
	ChainID         int       `json:"chain_id"`
	Address         string    `json:"address"`
	ContractName    string    `json:"contract_name"`
	CompilerVersion string    `json:"compiler_version"`
	GUID            string    `json:"guid"`
	Status          string    `json:"status"`
	Detail          string    `json:"detail,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SubmissionFilter contains filter options for listing submissions
type SubmissionFilter struct {
	ChainID int
	Address string
	Status  string
}

// PaginationParams contains pagination options
type PaginationParams struct {
	Limit  int
	Cursor string
}

// PaginatedResult contains paginated results
type PaginatedResult[T any] struct {
	Data       []T
	HasMore    bool
	NextCursor string
}

// New creates a new store based on configuration
func New(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSQLiteStore(cfg.SQLite.Path, logger)
	case "postgres":
		return NewPostgresStore(cfg.Postgres.URL, logger)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
