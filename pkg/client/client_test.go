package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_SubmitVerification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/verifications" {
			t.Errorf("Expected path /api/v1/verifications, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}

		var req VerificationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.ChainID != 11155111 {
			t.Errorf("Expected chainId 11155111, got %d", req.ChainID)
		}
		if req.ContractName != "Token" {
			t.Errorf("Expected contract Token, got %s", req.ContractName)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "sub-123",
			"chainId": 11155111,
			"address": req.Address,
			"guid":    "guid-abc",
			"status":  "pending",
		})
	}))
	defer server.Close()

	client := New(server.URL)
	sub, err := client.SubmitVerification(context.Background(), VerificationRequest{
		ChainID:         11155111,
		Address:         "0x1234567890abcdef1234567890abcdef12345678",
		Source:          "pragma solidity ^0.8.0; contract Token {}",
		ContractName:    "Token",
		CompilerVersion: "v0.8.24+commit.e11b9ed9",
	})
	if err != nil {
		t.Fatalf("SubmitVerification() error = %v", err)
	}

	if sub.ID != "sub-123" {
		t.Errorf("SubmitVerification().ID = %s, want sub-123", sub.ID)
	}
	if sub.GUID != "guid-abc" {
		t.Errorf("SubmitVerification().GUID = %s, want guid-abc", sub.GUID)
	}
	if sub.Status != "pending" {
		t.Errorf("SubmitVerification().Status = %s, want pending", sub.Status)
	}
}

func TestClient_GetVerification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/verifications/sub-123" {
			t.Errorf("Expected path /api/v1/verifications/sub-123, got %s", r.URL.Path)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"id":           "sub-123",
			"chainId":      1,
			"address":      "0x1234567890abcdef1234567890abcdef12345678",
			"contractName": "Token",
			"status":       "verified",
		})
	}))
	defer server.Close()

	client := New(server.URL)
	sub, err := client.GetVerification(context.Background(), "sub-123")
	if err != nil {
		t.Fatalf("GetVerification() error = %v", err)
	}

	if sub.Status != "verified" {
		t.Errorf("GetVerification().Status = %s, want verified", sub.Status)
	}
	if sub.ContractName != "Token" {
		t.Errorf("GetVerification().ContractName = %s, want Token", sub.ContractName)
	}
}

func TestClient_ListVerifications(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/verifications" {
			t.Errorf("Expected path /api/v1/verifications, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "failed" {
			t.Errorf("Expected status=failed query, got %s", got)
		}
		if got := r.URL.Query().Get("chain_id"); got != "1" {
			t.Errorf("Expected chain_id=1 query, got %s", got)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "sub-1", "status": "failed", "detail": "Fail - Unable to verify"},
			},
			"pagination": map[string]any{
				"limit":   20,
				"hasMore": false,
			},
		})
	}))
	defer server.Close()

	client := New(server.URL)
	resp, err := client.ListVerifications(context.Background(), ListFilter{
		ChainID: 1,
		Status:  "failed",
	})
	if err != nil {
		t.Fatalf("ListVerifications() error = %v", err)
	}

	if len(resp.Data) != 1 {
		t.Fatalf("ListVerifications() returned %d submissions, want 1", len(resp.Data))
	}
	if resp.Data[0].Detail != "Fail - Unable to verify" {
		t.Errorf("ListVerifications()[0].Detail = %s, want Fail - Unable to verify", resp.Data[0].Detail)
	}
	if resp.Pagination.HasMore {
		t.Error("ListVerifications().Pagination.HasMore = true, want false")
	}
}

func TestClient_ErrorHandling(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"code":    "NOT_FOUND",
				"message": "Submission not found",
			},
		})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.GetVerification(context.Background(), "nonexistent")
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("Expected APIError, got %T", err)
	}
	if apiErr.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %s", apiErr.Code)
	}
}

func TestClient_ErrorHandling_NonJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.GetVerification(context.Background(), "sub-1")
	if err == nil {
		t.Fatal("Expected error for 502 response")
	}
	if _, ok := err.(*APIError); ok {
		t.Error("Expected plain error for non-JSON body, got APIError")
	}
}
