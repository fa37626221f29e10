// Package transport provides HTTP handlers for the submissions domain.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pendergraft/verifactor/internal/explorer"
	"github.com/pendergraft/verifactor/internal/submissions/domain"
	"github.com/pendergraft/verifactor/internal/verify"
)

// Service defines the submission service interface for HTTP transport.
type Service interface {
	Create(ctx context.Context, req domain.CreateRequest) (*domain.Submission, error)
	Get(ctx context.Context, id string) (*domain.Submission, error)
	List(ctx context.Context, filter domain.ListFilter, pagination domain.PaginationParams) (*domain.ListResult, error)
}

// Handler handles HTTP requests for submissions.
type Handler struct {
	svc Service
}

// NewHandler creates a new submissions HTTP handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all submission routes on a chi router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body")
		return
	}

	var req CreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON")
		return
	}

	sub, err := h.svc.Create(r.Context(), req.ToDomain())
	if err != nil {
		switch {
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		case errors.Is(err, explorer.ErrRejected):
			writeError(w, http.StatusUnprocessableEntity, "SUBMISSION_REJECTED", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit verification")
		}
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Submission not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get submission")
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	var chainID int
	if c := r.URL.Query().Get("chain_id"); c != "" {
		chainID, _ = strconv.Atoi(c)
	}

	result, err := h.svc.List(r.Context(), domain.ListFilter{
		ChainID: chainID,
		Address: r.URL.Query().Get("address"),
		Status:  r.URL.Query().Get("status"),
	}, domain.PaginationParams{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list submissions")
		return
	}

	writeJSON(w, http.StatusOK, SubmissionListResponse{
		Data: result.Submissions,
		Pagination: Pagination{
			Limit:      limit,
			HasMore:    result.HasMore,
			NextCursor: result.NextCursor,
		},
	})
}

// isValidationError reports whether the error came from request
// validation in the verify layer.
func isValidationError(err error) bool {
	return errors.Is(err, verify.ErrInvalidAddress) ||
		errors.Is(err, verify.ErrInvalidChainID) ||
		errors.Is(err, verify.ErrInvalidCompilerVersion) ||
		errors.Is(err, verify.ErrInvalidConstructorArgs) ||
		errors.Is(err, verify.ErrEmptySource)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
