//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	// a make unique to this run, so the suite can be re-run against a dirty store
	mk := fmt.Sprintf("E2EMake%d%d", time.Now().Unix(), rand.Intn(100000))

	var created map[string]any
	doJSON(t, http.MethodPost, baseURL+"/api/cars", map[string]any{
		"make":      mk,
		"model":     "Roadster",
		"year":      2019,
		"price":     25000,
		"location":  "Testville",
		"condition": "used",
		"image":     "/uploads/e2e.jpg",
	}, &created, 201)

	id, ok := created["id"].(float64)
	if !ok || id < 1 {
		t.Fatalf("created id missing: %#v", created)
	}

	var got map[string]any
	doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/cars/%d", baseURL, int(id)), nil, &got, 200)
	if got["make"] != mk {
		t.Fatalf("get by id: %#v", got)
	}

	var filtered []map[string]any
	doJSON(t, http.MethodGet, baseURL+"/api/cars?make="+mk, nil, &filtered, 200)
	if len(filtered) != 1 {
		t.Fatalf("expected 1 filtered car, got %d", len(filtered))
	}

	var makes []string
	doJSON(t, http.MethodGet, baseURL+"/api/makes", nil, &makes, 200)
	found := false
	for _, m := range makes {
		if m == mk {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("make %q missing from facet %v", mk, makes)
	}

	var pr map[string]any
	doJSON(t, http.MethodGet, baseURL+"/api/price-range", nil, &pr, 200)
	if pr["minPrice"] == nil || pr["maxPrice"] == nil {
		t.Fatalf("price range after create: %#v", pr)
	}

	doJSON(t, http.MethodGet, baseURL+"/api/cars/99999999", nil, nil, 404)
}

func TestSystem_E2E_ValidationError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var e map[string]any
	doJSON(t, http.MethodPost, baseURL+"/api/cars", map[string]any{
		"make": "BMW",
	}, &e, 400)

	msg, _ := e["error"].(string)
	if msg == "" {
		t.Fatalf("expected error body: %#v", e)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
