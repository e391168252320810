// Package main implements a mock iTunes Search API server for local
// development. It serves app entries from a JSON fixture so the tracker
// can run without touching the real API, rotating the result order per
// search term so different keywords land the tracked app at different
// ranks.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"
)

type searchAPIResponse struct {
	ResultCount int               `json:"resultCount"`
	Results     []json.RawMessage `json:"results"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/search_response.json", "path to search response fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "results", len(fixture.Results))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", searchHandler(logger, fixture))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock iTunes server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*searchAPIResponse, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var resp searchAPIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &resp, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// rotationFor maps a search term to a stable starting offset, so the
// same term always produces the same ranking and different terms
// usually produce different ones.
func rotationFor(term string, n int) int {
	if n == 0 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(term))
	return int(h.Sum32() % uint32(n)) //nolint:gosec // n is a small fixture length
}

// rotate returns results shifted left by offset, wrapping around.
func rotate(results []json.RawMessage, offset int) []json.RawMessage {
	if len(results) == 0 || offset == 0 {
		return results
	}
	out := make([]json.RawMessage, 0, len(results))
	out = append(out, results[offset:]...)
	out = append(out, results[:offset]...)
	return out
}

func searchHandler(logger *slog.Logger, fixture *searchAPIResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("term")
		limitStr := r.URL.Query().Get("limit")

		limit := 50
		if limitStr != "" {
			if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
				limit = v
			}
		}

		results := rotate(fixture.Results, rotationFor(term, len(fixture.Results)))
		if limit < len(results) {
			results = results[:limit]
		}

		// Return empty array instead of null when the fixture is empty.
		if results == nil {
			results = []json.RawMessage{}
		}

		resp := searchAPIResponse{
			ResultCount: len(results),
			Results:     results,
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(resp)
		logger.Info("search",
			"term", term,
			"country", r.URL.Query().Get("country"),
			"returned", len(results),
			"limit", limit,
		)
	}
}
