// Package testutil provides helpers for tests that talk to a fake feed host.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/slipstream/tvrage/internal/config"
)

// FeedServer stands in for the TVRage feed host and records every request
// path it receives.
type FeedServer struct {
	*httptest.Server

	mu    sync.Mutex
	paths []string
}

// NewFeedServer starts a feed server backed by handler.
// The server is closed when the test finishes.
func NewFeedServer(t *testing.T, handler http.Handler) *FeedServer {
	t.Helper()

	fs := &FeedServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.paths = append(fs.paths, r.URL.RequestURI())
		fs.mu.Unlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(fs.Close)

	return fs
}

// Config returns a client configuration pointing at the server.
func (fs *FeedServer) Config() config.TVRageConfig {
	return config.TVRageConfig{
		BaseURL:   fs.URL,
		Timeout:   5,
		UserAgent: "tvrage-test",
	}
}

// Requests returns the request URIs seen so far, in arrival order.
func (fs *FeedServer) Requests() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.paths...)
}

// Logger returns a debug-level logger writing through t.Log.
func Logger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}
