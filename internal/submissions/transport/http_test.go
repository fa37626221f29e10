package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pendergraft/verifactor/internal/explorer"
	"github.com/pendergraft/verifactor/internal/submissions/domain"
	"github.com/pendergraft/verifactor/internal/verify"
)

// mockService implements Service for testing
type mockService struct {
	submissions map[string]*domain.Submission
	createErr   error
}

func newMockService() *mockService {
	return &mockService{submissions: make(map[string]*domain.Submission)}
}

func (m *mockService) Create(ctx context.Context, req domain.CreateRequest) (*domain.Submission, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	sub := &domain.Submission{
		ID:           "sub-1",
		ChainID:      req.ChainID,
		Address:      req.Address,
		ContractName: req.ContractName,
		GUID:         "guid-1",
		Status:       "pending",
	}
	m.submissions[sub.ID] = sub
	return sub, nil
}

func (m *mockService) Get(ctx context.Context, id string) (*domain.Submission, error) {
	sub, ok := m.submissions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sub, nil
}

func (m *mockService) List(ctx context.Context, filter domain.ListFilter, pagination domain.PaginationParams) (*domain.ListResult, error) {
	var subs []domain.Submission
	for _, sub := range m.submissions {
		subs = append(subs, *sub)
	}
	return &domain.ListResult{Submissions: subs}, nil
}

func setupRouter(svc Service) *chi.Mux {
	r := chi.NewRouter()
	h := NewHandler(svc)
	r.Route("/api/v1/verifications", h.RegisterRoutes)
	return r
}

const createBody = `{
	"chainId": 11155111,
	"address": "0x1234567890abcdef1234567890abcdef12345678",
	"source": "pragma solidity ^0.8.0;\ncontract A {}",
	"contractName": "A",
	"compilerVersion": "v0.8.21+commit.d9974bed"
}`

func TestHandler_Create(t *testing.T) {
	svc := newMockService()
	router := setupRouter(svc)

	req := httptest.NewRequest("POST", "/api/v1/verifications", bytes.NewBufferString(createBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp domain.Submission
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", resp.ID)
	assert.Equal(t, "guid-1", resp.GUID)
	assert.Equal(t, "pending", resp.Status)
}

func TestHandler_Create_InvalidJSON(t *testing.T) {
	router := setupRouter(newMockService())

	req := httptest.NewRequest("POST", "/api/v1/verifications", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestHandler_Create_ValidationError(t *testing.T) {
	svc := newMockService()
	svc.createErr = fmt.Errorf("%w: must be 0x-prefixed", verify.ErrInvalidAddress)
	router := setupRouter(svc)

	req := httptest.NewRequest("POST", "/api/v1/verifications", bytes.NewBufferString(createBody))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestHandler_Create_ExplorerRejection(t *testing.T) {
	svc := newMockService()
	svc.createErr = fmt.Errorf("submitting source: %w: Invalid API Key", explorer.ErrRejected)
	router := setupRouter(svc)

	req := httptest.NewRequest("POST", "/api/v1/verifications", bytes.NewBufferString(createBody))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SUBMISSION_REJECTED", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Invalid API Key")
}

func TestHandler_Get(t *testing.T) {
	svc := newMockService()
	svc.submissions["sub-9"] = &domain.Submission{ID: "sub-9", Status: "verified"}
	router := setupRouter(svc)

	req := httptest.NewRequest("GET", "/api/v1/verifications/sub-9", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "verified", resp.Status)
}

func TestHandler_Get_NotFound(t *testing.T) {
	router := setupRouter(newMockService())

	req := httptest.NewRequest("GET", "/api/v1/verifications/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestHandler_List(t *testing.T) {
	svc := newMockService()
	svc.submissions["sub-1"] = &domain.Submission{ID: "sub-1", Status: "pending"}
	svc.submissions["sub-2"] = &domain.Submission{ID: "sub-2", Status: "verified"}
	router := setupRouter(svc)

	req := httptest.NewRequest("GET", "/api/v1/verifications?limit=10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SubmissionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 10, resp.Pagination.Limit)
}
