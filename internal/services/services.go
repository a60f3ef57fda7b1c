// package services defines the collaborator interfaces the conversion
// pipeline consumes and implements them for Spotify and YouTube
package services

import (
	"context"
	"fmt"
)

// SourceCatalog is the music service holding the originating playlist.
//
// FetchPlaylistTracks returns the full, ordered track listing for a
// playlist. Entries may be nil where a track was removed from the catalog
// or is otherwise unplayable; callers must skip those.
type SourceCatalog interface {
	FetchPlaylistTracks(ctx context.Context, playlistID string) ([]*PlaylistEntry, error)
	Name() string
}

// VideoPlatform is the destination service where matched videos are
// searched and the new playlist is created.
type VideoPlatform interface {
	// SearchVideos issues a text search and returns the platform's ranked
	// result list. An empty slice is a valid response.
	SearchVideos(ctx context.Context, query string) ([]SearchResult, error)

	// CreatePlaylist creates a new playlist and returns its ID.
	CreatePlaylist(ctx context.Context, title, description string, visibility Visibility) (string, error)

	// AddVideoToPlaylist appends a video to an existing playlist.
	AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error

	Name() string
}

// PlaylistEntry is one slot in a source playlist.
type PlaylistEntry struct {
	Title   string
	Artists []string
}

// SearchResult is one ranked hit from the video platform's search surface.
type SearchResult struct {
	VideoID string
	Title   string
	Channel string
}

// Visibility is the privacy status of a created playlist.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// ParseVisibility validates a user-supplied visibility string.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate:
		return Visibility(s), nil
	default:
		return "", fmt.Errorf("invalid visibility %q: must be public, unlisted, or private", s)
	}
}
