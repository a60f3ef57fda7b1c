package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tunebridge/internal/shared"
)

func TestParseVisibility(t *testing.T) {
	for _, valid := range []string{"public", "unlisted", "private"} {
		v, err := ParseVisibility(valid)
		if err != nil {
			t.Errorf("expected %q to parse, got %v", valid, err)
		}
		if string(v) != valid {
			t.Errorf("expected %q, got %q", valid, v)
		}
	}

	if _, err := ParseVisibility("friends-only"); err == nil {
		t.Error("expected error for invalid visibility")
	}
}

func TestSearchVideos(t *testing.T) {
	t.Run("Ranked Results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("q"); got != "Song A Artist X" {
				t.Errorf("expected verbatim query, got %q", got)
			}
			if got := r.URL.Query().Get("type"); got != "video" {
				t.Errorf("expected type=video, got %q", got)
			}

			resp := youtubeSearchResponse{Items: []youtubeSearchItem{
				{ID: youtubeSearchID{Kind: "youtube#video", VideoID: "vid1"}, Snippet: youtubeSnippet{Title: "Song A (Official Video)"}},
				{ID: youtubeSearchID{Kind: "youtube#video", VideoID: "vid2"}, Snippet: youtubeSnippet{Title: "Song A - Artist X"}},
			}}
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		svc := &YouTubeService{baseURL: server.URL, httpClient: server.Client()}

		results, err := svc.SearchVideos(context.Background(), "Song A Artist X")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].VideoID != "vid1" || results[1].VideoID != "vid2" {
			t.Errorf("results out of order: %+v", results)
		}
	})

	t.Run("Empty Result List", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(youtubeSearchResponse{})
		}))
		defer server.Close()

		svc := &YouTubeService{baseURL: server.URL, httpClient: server.Client()}

		results, err := svc.SearchVideos(context.Background(), "obscure query")
		if err != nil {
			t.Fatalf("expected no error for empty results, got %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected empty results, got %d", len(results))
		}
	})

	t.Run("Rate Limited", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
		}))
		defer server.Close()

		svc := &YouTubeService{baseURL: server.URL, httpClient: server.Client()}

		_, err := svc.SearchVideos(context.Background(), "anything")
		if !errors.Is(err, shared.ErrSearchUnavailable) {
			t.Errorf("expected ErrSearchUnavailable, got %v", err)
		}
	})
}

func TestCreatePlaylist(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/playlists" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}

			body, _ := io.ReadAll(r.Body)
			var req struct {
				Snippet struct {
					Title       string `json:"title"`
					Description string `json:"description"`
				} `json:"snippet"`
				Status struct {
					PrivacyStatus string `json:"privacyStatus"`
				} `json:"status"`
			}
			if err := json.Unmarshal(body, &req); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if req.Snippet.Title != "My Mix" {
				t.Errorf("expected title 'My Mix', got %q", req.Snippet.Title)
			}
			if req.Status.PrivacyStatus != "unlisted" {
				t.Errorf("expected privacyStatus unlisted, got %q", req.Status.PrivacyStatus)
			}

			fmt.Fprint(w, `{"id":"pl123"}`)
		}))
		defer server.Close()

		svc := &YouTubeService{baseURL: server.URL, httpClient: server.Client()}

		id, err := svc.CreatePlaylist(context.Background(), "My Mix", "from spotify", VisibilityUnlisted)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id != "pl123" {
			t.Errorf("expected playlist ID pl123, got %s", id)
		}
	})

	t.Run("Missing ID In Response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		}))
		defer server.Close()

		svc := &YouTubeService{baseURL: server.URL, httpClient: server.Client()}

		if _, err := svc.CreatePlaylist(context.Background(), "My Mix", "", VisibilityPrivate); err == nil {
			t.Error("expected error for response without playlist ID")
		}
	})
}

func TestAddVideoToPlaylist(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlistItems" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}

			body, _ := io.ReadAll(r.Body)
			var req struct {
				Snippet struct {
					PlaylistID string `json:"playlistId"`
					ResourceID struct {
						Kind    string `json:"kind"`
						VideoID string `json:"videoId"`
					} `json:"resourceId"`
				} `json:"snippet"`
			}
			if err := json.Unmarshal(body, &req); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if req.Snippet.PlaylistID != "pl123" || req.Snippet.ResourceID.VideoID != "vid1" {
				t.Errorf("unexpected insert body: %+v", req)
			}
			if req.Snippet.ResourceID.Kind != "youtube#video" {
				t.Errorf("expected resource kind youtube#video, got %q", req.Snippet.ResourceID.Kind)
			}

			fmt.Fprint(w, `{"id":"item1"}`)
		}))
		defer server.Close()

		svc := &YouTubeService{baseURL: server.URL, httpClient: server.Client()}

		if err := svc.AddVideoToPlaylist(context.Background(), "pl123", "vid1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("API Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"message":"insufficient permissions"}}`)
		}))
		defer server.Close()

		svc := &YouTubeService{baseURL: server.URL, httpClient: server.Client()}

		err := svc.AddVideoToPlaylist(context.Background(), "pl123", "vid1")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
