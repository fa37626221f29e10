//go:build e2e

package e2e

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestHealthEndpoints(t *testing.T) {
	for _, path := range []string{"/health", "/healthz", "/readyz"} {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(testCtx.TestServer.URL + path)
			if err != nil {
				t.Fatalf("GET %s error = %v", path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decoding %s response: %v", path, err)
			}
			if body["status"] == "" {
				t.Errorf("GET %s returned no status field", path)
			}
		})
	}
}
