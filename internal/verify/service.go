package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/pendergraft/verifactor/internal/explorer"
	"github.com/pendergraft/verifactor/internal/licenses"
	"github.com/pendergraft/verifactor/internal/source"
	"github.com/pendergraft/verifactor/internal/validation"
)

// Common errors returned by the verification service.
var (
	ErrInvalidAddress         = errors.New("invalid address")
	ErrInvalidChainID         = errors.New("invalid chain ID")
	ErrInvalidCompilerVersion = errors.New("invalid compiler version")
	ErrInvalidConstructorArgs = errors.New("invalid constructor arguments")
	ErrEmptySource            = errors.New("source is empty")
)

// Poll cadence. The explorer compiles and compares bytecode with
// roughly bounded latency, so the interval is fixed: no backoff, no
// jitter, give up after the ceiling.
const (
	PollInterval    = 5 * time.Second
	MaxPollAttempts = 12
)

// Submitter is the explorer surface the service needs.
type Submitter interface {
	SubmitSource(ctx context.Context, chainID int, req explorer.SubmitRequest) (string, error)
	CheckStatus(ctx context.Context, chainID int, guid string) (string, error)
}

// Service drives the clean-submit-poll flow.
type Service struct {
	explorer Submitter
	clock    clock.Clock
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock substitutes the wall clock, for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// NewService creates a verification service.
func NewService(exp Submitter, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		explorer: exp,
		clock:    clock.New(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify cleans the source, submits it, and polls until a terminal
// result or the attempt ceiling. Submission rejections come back as
// errors (explorer.ErrRejected); everything after a successful submit
// is reported through the Result.
func (s *Service) Verify(ctx context.Context, req Request) (*Result, error) {
	guid, err := s.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Poll(ctx, req.ChainID, guid)
}

// Submit validates and submits a request, returning the tracking guid
// without polling.
func (s *Service) Submit(ctx context.Context, req Request) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}

	cleaned := source.Clean(req.Source)

	licenseCode := req.LicenseCode
	if licenseCode == 0 {
		licenseCode = licenses.DetectCode(cleaned)
	}

	guid, err := s.explorer.SubmitSource(ctx, req.ChainID, explorer.SubmitRequest{
		ContractAddress:  req.Address,
		SourceCode:       cleaned,
		ContractName:     req.ContractName,
		CompilerVersion:  req.CompilerVersion,
		OptimizationUsed: req.OptimizationRuns > 0,
		Runs:             req.OptimizationRuns,
		ConstructorArgs:  strings.TrimPrefix(req.ConstructorArgs, "0x"),
		EVMVersion:       req.EVMVersion,
		LicenseType:      licenseCode,
	})
	if err != nil {
		return "", fmt.Errorf("submitting source: %w", err)
	}

	s.logger.Info("verification submitted",
		"chain_id", req.ChainID,
		"address", req.Address,
		"contract", req.ContractName,
		"guid", guid,
	)
	return guid, nil
}

// Poll checks the verification status every PollInterval until the
// explorer reports a terminal state, the context is canceled, or
// MaxPollAttempts checks have been consumed. A network error during a
// check consumes the attempt and the loop carries on; the ceiling
// already bounds the total wait.
func (s *Service) Poll(ctx context.Context, chainID int, guid string) (*Result, error) {
	for attempt := 1; attempt <= MaxPollAttempts; attempt++ {
		raw, err := s.explorer.CheckStatus(ctx, chainID, guid)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("status check failed",
				"guid", guid,
				"attempt", attempt,
				"error", err,
			)
		} else {
			status, detail := Classify(raw)
			if status.Terminal() {
				return &Result{Status: status, Detail: detail, GUID: guid, Attempts: attempt}, nil
			}
			s.logger.Debug("verification pending", "guid", guid, "attempt", attempt)
		}

		if attempt == MaxPollAttempts {
			break
		}

		timer := s.clock.Timer(PollInterval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	return &Result{Status: StatusTimedOut, GUID: guid, Attempts: MaxPollAttempts}, nil
}

// CheckOnce performs a single status check, mapping the explorer's
// text to a Result. Used where the caller owns the cadence (the relay
// API refreshes on read).
func (s *Service) CheckOnce(ctx context.Context, chainID int, guid string) (*Result, error) {
	raw, err := s.explorer.CheckStatus(ctx, chainID, guid)
	if err != nil {
		return nil, fmt.Errorf("checking status: %w", err)
	}
	status, detail := Classify(raw)
	return &Result{Status: status, Detail: detail, GUID: guid, Attempts: 1}, nil
}

func validateRequest(req Request) error {
	if err := validation.ValidateAddress(req.Address); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if err := validation.ValidateChainID(req.ChainID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChainID, err)
	}
	if err := validation.ValidateCompilerVersion(req.CompilerVersion); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCompilerVersion, err)
	}
	if err := validation.ValidateConstructorArgs(req.ConstructorArgs); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConstructorArgs, err)
	}
	if strings.TrimSpace(req.Source) == "" {
		return ErrEmptySource
	}
	return nil
}
