package tasks

import "fmt"

// ProgressUpdate represents a progress event during a conversion.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ExtractTracks Phase = iota
	ResolveQueries
	CreatePlaylist
	AddVideos
)

func (p Phase) String() string {
	switch p {
	case ExtractTracks:
		return "extract_tracks"
	case ResolveQueries:
		return "resolve_queries"
	case CreatePlaylist:
		return "create_playlist"
	case AddVideos:
		return "add_videos"
	default:
		return ""
	}
}

func extractingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractTracks,
		Step:    1,
		Total:   1,
		Message: "Fetching source playlist from Spotify...",
	}
}

func extractedUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Extracted %d track queries", count),
	}
}

// queryOutcomeUpdate is the single progress event emitted for one resolved
// query; Data carries the full QueryResult.
func queryOutcomeUpdate(step, total int, result QueryResult) ProgressUpdate {
	var msg string
	switch result.Outcome {
	case OutcomeMatched:
		msg = fmt.Sprintf("[%d/%d] %s → %s", step, total, result.Query, result.Link)
	case OutcomeNoMatch:
		msg = fmt.Sprintf("[%d/%d] %s → no match found", step, total, result.Query)
	case OutcomeFailed:
		msg = fmt.Sprintf("[%d/%d] %s → search failed: %v", step, total, result.Query, result.Err)
	}

	return ProgressUpdate{
		Phase:   ResolveQueries,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    result,
	}
}

func createPlaylistUpdate(playlistID, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", title, playlistID),
	}
}

func addVideoUpdate(step, total int, videoID string, err error) ProgressUpdate {
	msg := fmt.Sprintf("Added video %d/%d", step, total)
	if err != nil {
		msg = fmt.Sprintf("Failed to add video %d/%d (%s): %v", step, total, videoID, err)
	}

	return ProgressUpdate{
		Phase:   AddVideos,
		Step:    step,
		Total:   total,
		Message: msg,
	}
}
