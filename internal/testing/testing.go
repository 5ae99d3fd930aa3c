// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/services"
	"github.com/iuliopime/bmat/internal/shared"
)

// MockAdapter is a configurable test double for [services.Adapter].
// Zero values resolve and search to no match, playlist writes succeed.
type MockAdapter struct {
	Platform services.Platform

	ResolveIdentity *models.TrackIdentity
	ResolveErr      error
	SearchIdentity  *models.TrackIdentity
	SearchErr       error
	PlaylistID      string
	CreateErr       error
	AddErr          error

	mu       sync.Mutex
	Searches []string
	Added    []string
}

func (m *MockAdapter) ResolveURL(ctx context.Context, rawURL string) (*models.TrackIdentity, error) {
	return m.ResolveIdentity, m.ResolveErr
}

func (m *MockAdapter) Search(ctx context.Context, query string) (*models.TrackIdentity, error) {
	m.mu.Lock()
	m.Searches = append(m.Searches, query)
	m.mu.Unlock()
	return m.SearchIdentity, m.SearchErr
}

func (m *MockAdapter) CreatePlaylist(ctx context.Context, name string, trackIDs []string) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	return m.PlaylistID, nil
}

func (m *MockAdapter) AddToPlaylist(ctx context.Context, playlistID, trackID string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	m.mu.Lock()
	m.Added = append(m.Added, trackID)
	m.mu.Unlock()
	return nil
}

func (m *MockAdapter) Name() services.Platform { return m.Platform }

// AddedTracks returns a copy of the track identifiers recorded by
// AddToPlaylist, safe to call while the fan-out is still running.
func (m *MockAdapter) AddedTracks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Added))
	copy(out, m.Added)
	return out
}

// SearchQueries returns a copy of the queries passed to Search.
func (m *MockAdapter) SearchQueries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Searches))
	copy(out, m.Searches)
	return out
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// MustOpenDB creates an in-memory sqlite database with migrations applied
// and registers cleanup with the test.
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	// each sqlite connection gets its own in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}
