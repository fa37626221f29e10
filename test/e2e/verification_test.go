//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"testing"

	"github.com/pendergraft/verifactor/pkg/client"
)

const sampleSource = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.24;

contract Counter {
    uint256 public count;

    function increment() external {
        count++;
    }
}
`

func sampleRequest(address string) client.VerificationRequest {
	return client.VerificationRequest{
		ChainID:         11155111,
		Address:         address,
		Source:          sampleSource,
		ContractName:    "Counter",
		CompilerVersion: "v0.8.24+commit.e11b9ed9",
	}
}

func TestSubmitAndTrackVerification(t *testing.T) {
	ctx := context.Background()
	c := newClient(testCtx.TestServer)

	// Verify on the second status check
	testCtx.Explorer.scriptNext("Pending in queue", "Pass - Verified")

	sub, err := c.SubmitVerification(ctx, sampleRequest("0x1111111111111111111111111111111111111111"))
	if err != nil {
		t.Fatalf("SubmitVerification() error = %v", err)
	}
	if sub.Status != "pending" {
		t.Errorf("initial status = %s, want pending", sub.Status)
	}
	if sub.GUID == "" {
		t.Error("expected a tracking guid")
	}

	// First read refreshes against the explorer: still pending
	got, err := c.GetVerification(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetVerification() error = %v", err)
	}
	if got.Status != "pending" {
		t.Errorf("status after first check = %s, want pending", got.Status)
	}

	// Second read lands on the verified result
	got, err = c.GetVerification(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetVerification() error = %v", err)
	}
	if got.Status != "verified" {
		t.Errorf("status after second check = %s, want verified", got.Status)
	}

	// Terminal state is persisted: further reads don't change it
	got, err = c.GetVerification(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetVerification() error = %v", err)
	}
	if got.Status != "verified" {
		t.Errorf("status after terminal = %s, want verified", got.Status)
	}
}

func TestFailureDetailPreserved(t *testing.T) {
	ctx := context.Background()
	c := newClient(testCtx.TestServer)

	detail := "Fail - Unable to verify. Compiled bytecode does not match"
	testCtx.Explorer.scriptNext(detail)

	sub, err := c.SubmitVerification(ctx, sampleRequest("0x2222222222222222222222222222222222222222"))
	if err != nil {
		t.Fatalf("SubmitVerification() error = %v", err)
	}

	got, err := c.GetVerification(ctx, sub.ID)
	if err != nil {
		t.Fatalf("GetVerification() error = %v", err)
	}
	if got.Status != "failed" {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if got.Detail != detail {
		t.Errorf("detail = %q, want the explorer text verbatim %q", got.Detail, detail)
	}
}

func TestSubmitValidationErrors(t *testing.T) {
	ctx := context.Background()
	c := newClient(testCtx.TestServer)

	tests := []struct {
		name   string
		mutate func(*client.VerificationRequest)
	}{
		{"bad address", func(r *client.VerificationRequest) { r.Address = "0x123" }},
		{"zero chain", func(r *client.VerificationRequest) { r.ChainID = 0 }},
		{"empty source", func(r *client.VerificationRequest) { r.Source = "" }},
		{"bare compiler version", func(r *client.VerificationRequest) { r.CompilerVersion = "0.8.24" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleRequest("0x3333333333333333333333333333333333333333")
			tt.mutate(&req)
			_, err := c.SubmitVerification(ctx, req)
			assertHTTPError(t, err, "INVALID_REQUEST")
		})
	}
}

func TestGetVerificationNotFound(t *testing.T) {
	c := newClient(testCtx.TestServer)
	_, err := c.GetVerification(context.Background(), "does-not-exist")
	assertHTTPError(t, err, "NOT_FOUND")
}

func TestListVerifications(t *testing.T) {
	ctx := context.Background()
	c := newClient(testCtx.TestServer)

	// Seed a handful of submissions on a chain no other test uses
	for i := 0; i < 3; i++ {
		addr := fmt.Sprintf("0x4%039d", i)
		req := sampleRequest(addr)
		req.ChainID = 137
		if _, err := c.SubmitVerification(ctx, req); err != nil {
			t.Fatalf("seeding submission %d: %v", i, err)
		}
	}

	resp, err := c.ListVerifications(ctx, client.ListFilter{ChainID: 137})
	if err != nil {
		t.Fatalf("ListVerifications() error = %v", err)
	}
	if len(resp.Data) != 3 {
		t.Errorf("ListVerifications() returned %d submissions, want 3", len(resp.Data))
	}
	for _, s := range resp.Data {
		if s.ChainID != 137 {
			t.Errorf("filter leaked chain %d into results", s.ChainID)
		}
	}

	// Paginate one at a time
	page, err := c.ListVerifications(ctx, client.ListFilter{ChainID: 137, Limit: 1})
	if err != nil {
		t.Fatalf("ListVerifications() error = %v", err)
	}
	if len(page.Data) != 1 {
		t.Fatalf("page size = %d, want 1", len(page.Data))
	}
	if !page.Pagination.HasMore {
		t.Fatal("expected more pages")
	}

	next, err := c.ListVerifications(ctx, client.ListFilter{ChainID: 137, Limit: 1, Cursor: page.Pagination.NextCursor})
	if err != nil {
		t.Fatalf("ListVerifications() with cursor error = %v", err)
	}
	if len(next.Data) != 1 {
		t.Fatalf("second page size = %d, want 1", len(next.Data))
	}
	if next.Data[0].ID == page.Data[0].ID {
		t.Error("cursor returned the same submission twice")
	}
}
