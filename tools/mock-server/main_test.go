package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func loadTestFixture(t *testing.T) *searchAPIResponse {
	t.Helper()
	path := filepath.Join("testdata", "search_response.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	var resp searchAPIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return &resp
}

func TestLoadFixture(t *testing.T) {
	fixture := loadTestFixture(t)
	if len(fixture.Results) == 0 {
		t.Fatal("expected results in fixture")
	}
	if fixture.ResultCount != len(fixture.Results) {
		t.Errorf("resultCount=%d, want %d", fixture.ResultCount, len(fixture.Results))
	}
}

func TestSearchHandler_AllResults(t *testing.T) {
	fixture := loadTestFixture(t)
	handler := searchHandler(testLogger(), fixture)
	req := httptest.NewRequest(http.MethodGet, "/search?term=bible&country=us&entity=software&limit=250", http.NoBody)
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", w.Code, http.StatusOK)
	}

	var resp searchAPIResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ResultCount != len(fixture.Results) {
		t.Errorf("resultCount=%d, want %d", resp.ResultCount, len(fixture.Results))
	}
	if len(resp.Results) != len(fixture.Results) {
		t.Errorf("results=%d, want %d", len(resp.Results), len(fixture.Results))
	}
}

func TestSearchHandler_Limit(t *testing.T) {
	fixture := loadTestFixture(t)
	handler := searchHandler(testLogger(), fixture)
	req := httptest.NewRequest(http.MethodGet, "/search?term=bible&limit=3", http.NoBody)
	w := httptest.NewRecorder()

	handler(w, req)

	var resp searchAPIResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Errorf("results=%d, want 3", len(resp.Results))
	}
	if resp.ResultCount != 3 {
		t.Errorf("resultCount=%d, want 3", resp.ResultCount)
	}
}

func TestSearchHandler_Deterministic(t *testing.T) {
	fixture := loadTestFixture(t)
	handler := searchHandler(testLogger(), fixture)

	bodies := make([]string, 2)
	for i := range bodies {
		req := httptest.NewRequest(http.MethodGet, "/search?term=prayer+app&limit=250", http.NoBody)
		w := httptest.NewRecorder()
		handler(w, req)
		bodies[i] = w.Body.String()
	}

	if bodies[0] != bodies[1] {
		t.Error("expected identical responses for repeated requests with the same term")
	}
}

func TestRotate(t *testing.T) {
	a, b, c := json.RawMessage(`"a"`), json.RawMessage(`"b"`), json.RawMessage(`"c"`)
	out := rotate([]json.RawMessage{a, b, c}, 1)
	if string(out[0]) != `"b"` || string(out[1]) != `"c"` || string(out[2]) != `"a"` {
		t.Errorf("rotate by 1 = %s %s %s, want b c a", out[0], out[1], out[2])
	}
}

func TestRotationFor_Stable(t *testing.T) {
	if rotationFor("bible sleep", 20) != rotationFor("bible sleep", 20) {
		t.Error("expected stable rotation for the same term")
	}
	if got := rotationFor("anything", 0); got != 0 {
		t.Errorf("rotationFor with empty fixture = %d, want 0", got)
	}
	if got := rotationFor("bible sleep", 20); got < 0 || got >= 20 {
		t.Errorf("rotation %d out of range [0,20)", got)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
