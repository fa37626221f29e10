// Package domain contains the business logic for relayed verification
// submissions.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pendergraft/verifactor/internal/observability/metrics"
	"github.com/pendergraft/verifactor/internal/storage"
	"github.com/pendergraft/verifactor/internal/verify"
)

// ErrNotFound is returned when a submission does not exist.
var ErrNotFound = errors.New("submission not found")

// Store is the storage surface the service needs.
type Store interface {
	CreateSubmission(ctx context.Context, sub *storage.Submission) error
	GetSubmission(ctx context.Context, id string) (*storage.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, id, status, detail string) error
	ListSubmissions(ctx context.Context, filter storage.SubmissionFilter, pagination storage.PaginationParams) (*storage.PaginatedResult[storage.Submission], error)
}

// Verifier submits sources to the explorer and checks their status.
type Verifier interface {
	Submit(ctx context.Context, req verify.Request) (string, error)
	CheckOnce(ctx context.Context, chainID int, guid string) (*verify.Result, error)
}

// Service defines the submission service interface.
type Service interface {
	// Create relays a verification request to the explorer and records it.
	Create(ctx context.Context, req CreateRequest) (*Submission, error)

	// Get retrieves a submission, refreshing pending ones against the
	// explorer first.
	Get(ctx context.Context, id string) (*Submission, error)

	// List lists submissions with filtering and pagination.
	List(ctx context.Context, filter ListFilter, pagination PaginationParams) (*ListResult, error)
}

// service implements the Service interface.
type service struct {
	store    Store
	verifier Verifier
	logger   *slog.Logger
}

// NewService creates a new submission service.
func NewService(store Store, verifier Verifier, logger *slog.Logger) Service {
	return &service{store: store, verifier: verifier, logger: logger}
}

// Create relays a verification request to the explorer and records it.
// Validation and submission errors pass through from the verify layer;
// nothing is recorded unless the explorer accepted the submission.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Submission, error) {
	guid, err := s.verifier.Submit(ctx, verify.Request{
		ChainID:          req.ChainID,
		Address:          req.Address,
		Source:           req.Source,
		ContractName:     req.ContractName,
		CompilerVersion:  req.CompilerVersion,
		OptimizationRuns: req.OptimizationRuns,
		ConstructorArgs:  req.ConstructorArgs,
		EVMVersion:       req.EVMVersion,
		LicenseCode:      req.LicenseCode,
	})
	if err != nil {
		return nil, err
	}

	sub := &storage.Submission{
		ChainID:         req.ChainID,
		Address:         req.Address,
		ContractName:    req.ContractName,
		CompilerVersion: req.CompilerVersion,
		GUID:            guid,
		Status:          verify.StatusPending.String(),
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("recording submission: %w", err)
	}

	metrics.RecordSubmission(sub.Status)
	return toSubmission(sub), nil
}

// Get retrieves a submission. Pending submissions are refreshed with a
// single status check; the explorer owns the truth until the state is
// terminal.
func (s *service) Get(ctx context.Context, id string) (*Submission, error) {
	sub, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting submission: %w", err)
	}

	if verify.StatusFromString(sub.Status) == verify.StatusPending {
		res, err := s.verifier.CheckOnce(ctx, sub.ChainID, sub.GUID)
		if err != nil {
			// Serve the stored state; the next read retries.
			s.logger.Warn("status refresh failed", "id", sub.ID, "guid", sub.GUID, "error", err)
			return toSubmission(sub), nil
		}
		if res.Status.Terminal() {
			if err := s.store.UpdateSubmissionStatus(ctx, sub.ID, res.Status.String(), res.Detail); err != nil {
				return nil, fmt.Errorf("updating submission: %w", err)
			}
			sub.Status = res.Status.String()
			sub.Detail = res.Detail
			metrics.RecordVerificationOutcome(sub.Status)
		}
	}

	return toSubmission(sub), nil
}

// List lists submissions with filtering and pagination.
func (s *service) List(ctx context.Context, filter ListFilter, pagination PaginationParams) (*ListResult, error) {
	result, err := s.store.ListSubmissions(ctx, storage.SubmissionFilter{
		ChainID: filter.ChainID,
		Address: filter.Address,
		Status:  filter.Status,
	}, storage.PaginationParams{
		Limit:  pagination.Limit,
		Cursor: pagination.Cursor,
	})
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}

	submissions := make([]Submission, len(result.Data))
	for i, sub := range result.Data {
		submissions[i] = *toSubmission(&sub)
	}

	return &ListResult{
		Submissions: submissions,
		HasMore:     result.HasMore,
		NextCursor:  result.NextCursor,
	}, nil
}

func toSubmission(sub *storage.Submission) *Submission {
	return &Submission{
		ID:              sub.ID,
		ChainID:         sub.ChainID,
		Address:         sub.Address,
		ContractName:    sub.ContractName,
		CompilerVersion: sub.CompilerVersion,
		GUID:            sub.GUID,
		Status:          sub.Status,
		Detail:          sub.Detail,
		CreatedAt:       sub.CreatedAt,
		UpdatedAt:       sub.UpdatedAt,
	}
}
