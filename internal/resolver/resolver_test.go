package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tunebridge/internal/services"
	"tunebridge/internal/shared"
)

type mockPlatform struct {
	results     map[string][]services.SearchResult
	searchErr   error
	searchCalls int
}

func (m *mockPlatform) SearchVideos(ctx context.Context, query string) ([]services.SearchResult, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results[query], nil
}

func (m *mockPlatform) CreatePlaylist(ctx context.Context, title, description string, visibility services.Visibility) (string, error) {
	return "", fmt.Errorf("not used")
}

func (m *mockPlatform) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error {
	return fmt.Errorf("not used")
}

func (m *mockPlatform) Name() string { return "mock" }

func TestResolveCandidate(t *testing.T) {
	t.Run("Selects Second Of Two Or More", func(t *testing.T) {
		platform := &mockPlatform{results: map[string][]services.SearchResult{
			"Song A Artist X": {
				{VideoID: "promoted", Title: "Song A (Reaction)"},
				{VideoID: "canonical", Title: "Song A - Artist X"},
				{VideoID: "third", Title: "Song A (Cover)"},
			},
		}}

		r := New(platform, Opts{SkipTop: DefaultSkipTop})
		match, err := r.ResolveCandidate(context.Background(), "Song A Artist X")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if match.VideoID != "canonical" {
			t.Errorf("expected second result selected, got %q", match.VideoID)
		}
	})

	t.Run("Selects Sole Result", func(t *testing.T) {
		platform := &mockPlatform{results: map[string][]services.SearchResult{
			"Song B Artist Y": {{VideoID: "only", Title: "Song B"}},
		}}

		r := New(platform, Opts{SkipTop: DefaultSkipTop})
		match, err := r.ResolveCandidate(context.Background(), "Song B Artist Y")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if match.VideoID != "only" {
			t.Errorf("expected sole result selected, got %q", match.VideoID)
		}
	})

	t.Run("Empty Results Is No Match", func(t *testing.T) {
		platform := &mockPlatform{results: map[string][]services.SearchResult{}}

		r := New(platform, Opts{})
		match, err := r.ResolveCandidate(context.Background(), "nothing here")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if match.Found() {
			t.Errorf("expected no match, got %q", match.VideoID)
		}
	})

	t.Run("Memoizes Per Exact Query", func(t *testing.T) {
		platform := &mockPlatform{results: map[string][]services.SearchResult{
			"Song A Artist X": {
				{VideoID: "first"},
				{VideoID: "second"},
			},
		}}

		r := New(platform, Opts{})
		first, err := r.ResolveCandidate(context.Background(), "Song A Artist X")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := r.ResolveCandidate(context.Background(), "Song A Artist X")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if platform.searchCalls != 1 {
			t.Errorf("expected exactly 1 search call, got %d", platform.searchCalls)
		}
		if first != second {
			t.Errorf("expected identical cached result, got %v and %v", first, second)
		}
	})

	t.Run("Memoizes No Match", func(t *testing.T) {
		platform := &mockPlatform{results: map[string][]services.SearchResult{}}

		r := New(platform, Opts{})
		r.ResolveCandidate(context.Background(), "unmatched query")
		r.ResolveCandidate(context.Background(), "unmatched query")

		if platform.searchCalls != 1 {
			t.Errorf("expected no-match outcome to be cached, got %d search calls", platform.searchCalls)
		}
	})

	t.Run("Search Failure Propagates And Is Not Cached", func(t *testing.T) {
		platform := &mockPlatform{searchErr: fmt.Errorf("%w: status 429", shared.ErrSearchUnavailable)}

		r := New(platform, Opts{})
		_, err := r.ResolveCandidate(context.Background(), "Song A Artist X")
		if !errors.Is(err, shared.ErrSearchUnavailable) {
			t.Fatalf("expected ErrSearchUnavailable, got %v", err)
		}

		// Recovery: the failed lookup must not have been memoized.
		platform.searchErr = nil
		platform.results = map[string][]services.SearchResult{
			"Song A Artist X": {{VideoID: "recovered"}},
		}

		match, err := r.ResolveCandidate(context.Background(), "Song A Artist X")
		if err != nil {
			t.Fatalf("expected recovery, got %v", err)
		}
		if match.VideoID != "recovered" {
			t.Errorf("expected fresh search after failure, got %q", match.VideoID)
		}
		if platform.searchCalls != 2 {
			t.Errorf("expected 2 search calls, got %d", platform.searchCalls)
		}
	})

	t.Run("Wraps Unadorned Transport Errors", func(t *testing.T) {
		platform := &mockPlatform{searchErr: errors.New("connection reset")}

		r := New(platform, Opts{})
		_, err := r.ResolveCandidate(context.Background(), "anything")
		if !errors.Is(err, shared.ErrSearchUnavailable) {
			t.Errorf("expected ErrSearchUnavailable wrap, got %v", err)
		}
	})

	t.Run("Eviction Triggers Fresh Search", func(t *testing.T) {
		platform := &mockPlatform{results: map[string][]services.SearchResult{}}
		for i := 0; i < 201; i++ {
			q := fmt.Sprintf("query %d", i)
			platform.results[q] = []services.SearchResult{{VideoID: fmt.Sprintf("vid%d", i)}}
		}

		r := New(platform, Opts{CacheSize: DefaultCacheSize})
		for i := 0; i < 201; i++ {
			if _, err := r.ResolveCandidate(context.Background(), fmt.Sprintf("query %d", i)); err != nil {
				t.Fatalf("resolve %d failed: %v", i, err)
			}
		}

		if platform.searchCalls != 201 {
			t.Fatalf("expected 201 search calls, got %d", platform.searchCalls)
		}

		// query 0 was first in and untouched since, so it was evicted and
		// repeating it must hit the network again.
		if _, err := r.ResolveCandidate(context.Background(), "query 0"); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if platform.searchCalls != 202 {
			t.Errorf("expected a fresh search for the evicted query, got %d calls", platform.searchCalls)
		}

		// query 1 is still cached.
		if _, err := r.ResolveCandidate(context.Background(), "query 1"); err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if platform.searchCalls != 202 {
			t.Errorf("expected cached hit for query 1, got %d calls", platform.searchCalls)
		}
	})

	t.Run("Configurable Skip Policy", func(t *testing.T) {
		results := []services.SearchResult{
			{VideoID: "r0"}, {VideoID: "r1"}, {VideoID: "r2"}, {VideoID: "r3"},
		}

		tests := []struct {
			skipTop int
			want    string
		}{
			{skipTop: 0, want: "r0"},
			{skipTop: 1, want: "r1"},
			{skipTop: 2, want: "r2"},
			{skipTop: 10, want: "r3"}, // clamped to last available
		}

		for _, tt := range tests {
			t.Run(fmt.Sprintf("skip %d", tt.skipTop), func(t *testing.T) {
				platform := &mockPlatform{results: map[string][]services.SearchResult{"q": results}}
				r := New(platform, Opts{SkipTop: tt.skipTop})

				match, err := r.ResolveCandidate(context.Background(), "q")
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if match.VideoID != tt.want {
					t.Errorf("expected %q, got %q", tt.want, match.VideoID)
				}
			})
		}
	})
}
