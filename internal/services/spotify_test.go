package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tunebridge/internal/shared"
)

func TestNewSpotifyService(t *testing.T) {
	t.Run("With Valid Credentials", func(t *testing.T) {
		srv, err := NewSpotifyService(context.Background(), shared.SpotifyConfig{
			ClientID:     "test_client_id",
			ClientSecret: "test_client_secret",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if srv.Name() != "Spotify" {
			t.Errorf("expected service name 'Spotify', got %s", srv.Name())
		}
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		_, err := NewSpotifyService(context.Background(), shared.SpotifyConfig{
			ClientSecret: "test_client_secret",
		})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Missing Client Secret", func(t *testing.T) {
		_, err := NewSpotifyService(context.Background(), shared.SpotifyConfig{
			ClientID: "test_client_id",
		})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestFetchPlaylistTracks(t *testing.T) {
	t.Run("Single Page With Removed Entries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/abc123/tracks" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}

			page := SpotifyPaginatedItems{
				Items: []SpotifyPlaylistItem{
					{Track: &SpotifyTrack{ID: "t1", Name: "Song A", Artists: []SpotifyArtist{{Name: "Artist X"}}}},
					{Track: nil},
					{Track: &SpotifyTrack{ID: "t2", Name: "Song B", Artists: []SpotifyArtist{{Name: "Artist Y"}, {Name: "Artist Z"}}}},
				},
				Total: 3,
			}
			json.NewEncoder(w).Encode(page)
		}))
		defer server.Close()

		svc := &SpotifyService{baseURL: server.URL, httpClient: server.Client()}

		entries, err := svc.FetchPlaylistTracks(context.Background(), "abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}
		if entries[0] == nil || entries[0].Title != "Song A" {
			t.Errorf("unexpected first entry: %+v", entries[0])
		}
		if entries[1] != nil {
			t.Errorf("expected nil entry for removed track, got %+v", entries[1])
		}
		if entries[2] == nil || len(entries[2].Artists) != 2 {
			t.Errorf("unexpected third entry: %+v", entries[2])
		}
	})

	t.Run("Follows Pagination", func(t *testing.T) {
		calls := 0
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			offset := r.URL.Query().Get("offset")

			var page SpotifyPaginatedItems
			if offset == "0" {
				next := server.URL + "/playlists/abc123/tracks?limit=100&offset=1"
				page = SpotifyPaginatedItems{
					Items: []SpotifyPlaylistItem{
						{Track: &SpotifyTrack{Name: "First", Artists: []SpotifyArtist{{Name: "A"}}}},
					},
					Next: &next,
				}
			} else {
				page = SpotifyPaginatedItems{
					Items: []SpotifyPlaylistItem{
						{Track: &SpotifyTrack{Name: "Second", Artists: []SpotifyArtist{{Name: "B"}}}},
					},
				}
			}
			json.NewEncoder(w).Encode(page)
		}))
		defer server.Close()

		svc := &SpotifyService{baseURL: server.URL, httpClient: server.Client()}

		entries, err := svc.FetchPlaylistTracks(context.Background(), "abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if calls != 2 {
			t.Errorf("expected 2 page fetches, got %d", calls)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Title != "First" || entries[1].Title != "Second" {
			t.Errorf("entries out of order: %+v", entries)
		}
	})

	t.Run("Playlist Not Found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"status":404,"message":"Not found."}}`)
		}))
		defer server.Close()

		svc := &SpotifyService{baseURL: server.URL, httpClient: server.Client()}

		_, err := svc.FetchPlaylistTracks(context.Background(), "missing")
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		svc := &SpotifyService{baseURL: server.URL, httpClient: server.Client()}

		_, err := svc.FetchPlaylistTracks(context.Background(), "abc123")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
