//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/pendergraft/verifactor/internal/config"
	"github.com/pendergraft/verifactor/internal/server"
	"github.com/pendergraft/verifactor/internal/storage"
	"github.com/pendergraft/verifactor/pkg/client"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestContext holds shared test infrastructure
type TestContext struct {
	PostgresContainer *postgres.PostgresContainer
	ConnString        string
	Explorer          *stubExplorer
	TestServer        *httptest.Server
	Store             storage.Store
}

// setupPostgresE starts a Postgres container and returns the connection string
func setupPostgresE(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("verifactor"),
		postgres.WithUsername("verifactor"),
		postgres.WithPassword("verifactor"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = postgresContainer.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	return postgresContainer, connString, nil
}

// stubExplorer fakes the Etherscan v2 verification API. Each submission
// gets a guid; status checks replay a per-guid script of result texts,
// sticking on the last entry once exhausted.
type stubExplorer struct {
	mu      sync.Mutex
	server  *httptest.Server
	nextID  int
	scripts map[string][]string // guid -> remaining status texts
	// script applied to the next submission
	pendingScript []string
}

func newStubExplorer() *stubExplorer {
	s := &stubExplorer{
		scripts:       make(map[string][]string),
		pendingScript: []string{"Pass - Verified"},
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *stubExplorer) URL() string { return s.server.URL }

func (s *stubExplorer) Close() { s.server.Close() }

// scriptNext sets the status sequence for the next submitted guid
func (s *stubExplorer) scriptNext(statuses ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingScript = statuses
}

func (s *stubExplorer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.URL.Query().Get("apikey") == "" {
		writeEnvelope(w, "0", "NOTOK", "Missing or unsupported chainid parameter (required for v2 api)")
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			writeEnvelope(w, "0", "NOTOK", "Error! Malformed request")
			return
		}
		if r.PostForm.Get("sourceCode") == "" {
			writeEnvelope(w, "0", "NOTOK", "Error! Missing source code")
			return
		}

		s.nextID++
		guid := fmt.Sprintf("stubguid%06d", s.nextID)
		script := s.pendingScript
		s.pendingScript = []string{"Pass - Verified"}
		s.scripts[guid] = script
		writeEnvelope(w, "1", "OK", guid)
		return
	}

	// checkverifystatus
	guid := r.URL.Query().Get("guid")
	script, ok := s.scripts[guid]
	if !ok {
		writeEnvelope(w, "0", "NOTOK", "Fail - Unable to locate guid")
		return
	}

	result := script[0]
	if len(script) > 1 {
		s.scripts[guid] = script[1:]
	}

	status := "0"
	if result == "Pass - Verified" {
		status = "1"
	}
	writeEnvelope(w, status, "OK", result)
}

func writeEnvelope(w http.ResponseWriter, status, message, result string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  status,
		"message": message,
		"result":  result,
	})
}

// startServerE starts the verifactor relay in-process against the stub explorer
func startServerE(connString, explorerURL string) (*httptest.Server, storage.Store, error) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Storage: config.StorageConfig{
			Type: "postgres",
			Postgres: config.PostgresConfig{
				URL: connString,
			},
		},
		Explorer: config.ExplorerConfig{
			BaseURL:        explorerURL,
			APIKey:         "e2e-test-key",
			TimeoutSeconds: 10,
			RequestsPerSec: 100,
			Burst:          100,
		},
		Logging:   config.LoggingConfig{Level: "debug", Format: "text"},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Security:  config.SecurityConfig{MaxBodySizeMB: 10},
		Proxy:     config.ProxyConfig{TrustProxy: false},
		Metrics:   config.MetricsConfig{Enabled: false},
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store, err := storage.New(cfg.Storage, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create store: %w", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	srv := server.New(cfg, store, logger)
	testServer := httptest.NewServer(srv.Handler())

	return testServer, store, nil
}

// newClient creates an API client for the test server
func newClient(testServer *httptest.Server) *client.Client {
	return client.New(testServer.URL)
}

// assertHTTPError asserts that an error is an APIError with the expected code
func assertHTTPError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected an error")
	}
	apiErr, ok := err.(*client.APIError)
	if !ok {
		t.Fatalf("Error should be an APIError, got %T: %v", err, err)
	}
	if apiErr.Code != expectedCode {
		t.Fatalf("Error code = %s, want %s", apiErr.Code, expectedCode)
	}
}
