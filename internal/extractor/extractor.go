// Package extractor turns a Spotify playlist URL into the ordered list of
// search queries used to find matching videos.
//
// A query is the track's display title followed by its credited artists
// joined with ", ". Removed (nil) playlist entries are skipped silently;
// ordering matches the source playlist exactly and repeated tracks are
// kept as repeated queries.
package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"tunebridge/internal/services"
	"tunebridge/internal/shared"
)

// TrackQuery is the derived search string for one source track.
type TrackQuery string

// playlistIDPattern matches the alphanumeric ID following the literal
// "playlist/" path segment. Scheme, host, and query parameters around it
// are irrelevant.
var playlistIDPattern = regexp.MustCompile(`playlist/([a-zA-Z0-9]+)`)

// ParsePlaylistID extracts the playlist ID embedded in a Spotify playlist
// URL. This validates only the URL shape; whether the ID resolves to an
// existing playlist surfaces later from the catalog's own response.
func ParsePlaylistID(playlistURL string) (string, error) {
	m := playlistIDPattern.FindStringSubmatch(playlistURL)
	if m == nil {
		return "", fmt.Errorf("%w: %q has no playlist/<id> segment", shared.ErrInvalidPlaylistURL, playlistURL)
	}
	return m[1], nil
}

// QueryForEntry builds the search query for a single playlist entry.
func QueryForEntry(entry *services.PlaylistEntry) TrackQuery {
	artists := strings.Join(entry.Artists, ", ")
	return TrackQuery(fmt.Sprintf("%s %s", entry.Title, artists))
}

// Extractor builds track queries from a source catalog.
type Extractor struct {
	catalog services.SourceCatalog
}

// New creates an Extractor backed by the given source catalog.
func New(catalog services.SourceCatalog) *Extractor {
	return &Extractor{catalog: catalog}
}

// ExtractTracks parses the playlist URL, fetches the full track listing,
// and returns one TrackQuery per playable track in original order.
func (e *Extractor) ExtractTracks(ctx context.Context, playlistURL string) ([]TrackQuery, error) {
	playlistID, err := ParsePlaylistID(playlistURL)
	if err != nil {
		return nil, err
	}

	entries, err := e.catalog.FetchPlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist tracks: %w", err)
	}

	queries := make([]TrackQuery, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		queries = append(queries, QueryForEntry(entry))
	}

	return queries, nil
}
