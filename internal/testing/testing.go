// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"tunebridge/internal/services"
)

// MockCatalog is a test double for [services.SourceCatalog].
type MockCatalog struct {
	Entries []*services.PlaylistEntry
	Err     error
	Calls   int
}

func (m *MockCatalog) FetchPlaylistTracks(ctx context.Context, playlistID string) ([]*services.PlaylistEntry, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entries, nil
}

func (m *MockCatalog) Name() string { return "mock-catalog" }

// MockPlatform is a test double for [services.VideoPlatform]. Search
// results are keyed by query; unknown queries return an empty list.
type MockPlatform struct {
	Results        map[string][]services.SearchResult
	SearchErr      error
	CreateErr      error
	AddErr         error
	SearchCalls    int
	CreatedID      string
	CreatedTitle   string
	AddedVideoIDs  []string
	CreateRequests int
}

func (m *MockPlatform) SearchVideos(ctx context.Context, query string) ([]services.SearchResult, error) {
	m.SearchCalls++
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Results[query], nil
}

func (m *MockPlatform) CreatePlaylist(ctx context.Context, title, description string, visibility services.Visibility) (string, error) {
	m.CreateRequests++
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	if m.CreatedID == "" {
		m.CreatedID = "PL-mock"
	}
	m.CreatedTitle = title
	return m.CreatedID, nil
}

func (m *MockPlatform) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	m.AddedVideoIDs = append(m.AddedVideoIDs, videoID)
	return nil
}

func (m *MockPlatform) Name() string { return "mock-platform" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
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

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
