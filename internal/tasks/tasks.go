// Package tasks orchestrates the playlist conversion pipeline with
// real-time progress reporting.
//
// [ConvertEngine.Convert] maps the extractor's queries through the
// resolver sequentially, accumulating destination video links in source
// order. [ConvertEngine.Publish] materializes a conversion result as a
// remote playlist. Progress updates flow through non-blocking channel
// sends so reporting can never stall the pipeline.
package tasks

import (
	"context"
	"fmt"
	"strings"

	"tunebridge/internal/extractor"
	"tunebridge/internal/resolver"
	"tunebridge/internal/services"
	"tunebridge/internal/shared"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

const (
	watchURLTemplate    = "https://www.youtube.com/watch?v=%s"
	playlistURLTemplate = "https://www.youtube.com/playlist?list=%s"
)

// Outcome classifies the result of resolving one query.
type Outcome int

const (
	OutcomeMatched Outcome = iota
	OutcomeNoMatch
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeFailed:
		return "failed"
	default:
		return ""
	}
}

// QueryResult records the outcome of one track query. Every query produces
// exactly one record; unmatched and failed queries are never dropped.
type QueryResult struct {
	Query         string  // the track query as searched
	Outcome       Outcome // matched, no_match, or failed
	VideoID       string  // matched video identifier, empty otherwise
	Link          string  // fully-qualified watch URL, empty otherwise
	Confidence    float64 // Jaro-Winkler similarity of query vs matched title
	LowConfidence bool    // matched but flagged for review
	Err           error   // set when Outcome is OutcomeFailed
}

// ConvertResult contains all data from a conversion run.
type ConvertResult struct {
	SourceURL    string        // the playlist URL as given
	Results      []QueryResult // per-query outcomes in source order
	Links        []string      // watch URLs for matched queries, in order
	TotalQueries int
	MatchedCount int
	NoMatchCount int
	FailedCount  int
}

// MatchPercentage returns the share of queries that matched.
func (r *ConvertResult) MatchPercentage() float64 {
	if r.TotalQueries == 0 {
		return 0
	}
	return float64(r.MatchedCount) / float64(r.TotalQueries) * 100
}

// VideoAddFailure records a per-video insert failure during publication.
type VideoAddFailure struct {
	VideoID string
	Err     error
}

// PublishResult contains the created playlist and per-video add outcomes.
type PublishResult struct {
	PlaylistID  string
	PlaylistURL string
	Added       int
	Failures    []VideoAddFailure
}

// TrackExtractor is the extraction surface the engine consumes.
type TrackExtractor interface {
	ExtractTracks(ctx context.Context, playlistURL string) ([]extractor.TrackQuery, error)
}

// CandidateResolver is the resolution surface the engine consumes.
type CandidateResolver interface {
	ResolveCandidate(ctx context.Context, query string) (resolver.CandidateMatch, error)
}

// ConvertEngine drives the two-stage conversion pipeline.
type ConvertEngine struct {
	extractor  TrackExtractor
	resolver   CandidateResolver
	platform   services.VideoPlatform
	minConf    float64
	similarity *metrics.JaroWinkler
}

// NewConvertEngine creates an engine from its collaborators. minConfidence
// sets the similarity threshold below which a match is flagged for review;
// values outside (0, 1] disable flagging.
func NewConvertEngine(ext TrackExtractor, res CandidateResolver, platform services.VideoPlatform, minConfidence float64) *ConvertEngine {
	return &ConvertEngine{
		extractor:  ext,
		resolver:   res,
		platform:   platform,
		minConf:    minConfidence,
		similarity: metrics.NewJaroWinkler(),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default so progress reporting never stalls execution.
func (e *ConvertEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Convert extracts track queries from the source playlist and resolves each
// to a destination video, in source order.
//
// Extraction failure aborts the run: no partial query list is usable
// without a valid source. A per-query search failure is recorded as a
// failed result and processing continues; it is never recorded as "no
// match". Exactly one progress event is emitted per query.
func (e *ConvertEngine) Convert(ctx context.Context, playlistURL string, progress chan<- ProgressUpdate) (*ConvertResult, error) {
	e.sendProgress(progress, extractingUpdate())

	queries, err := e.extractor.ExtractTracks(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	total := len(queries)
	e.sendProgress(progress, extractedUpdate(total))

	result := &ConvertResult{
		SourceURL:    playlistURL,
		Results:      make([]QueryResult, 0, total),
		TotalQueries: total,
	}

	for i, q := range queries {
		query := string(q)

		match, err := e.resolver.ResolveCandidate(ctx, query)

		var qr QueryResult
		switch {
		case err != nil:
			qr = QueryResult{Query: query, Outcome: OutcomeFailed, Err: err}
			result.FailedCount++

		case !match.Found():
			qr = QueryResult{Query: query, Outcome: OutcomeNoMatch}
			result.NoMatchCount++

		default:
			qr = QueryResult{
				Query:   query,
				Outcome: OutcomeMatched,
				VideoID: match.VideoID,
				Link:    fmt.Sprintf(watchURLTemplate, match.VideoID),
			}
			qr.Confidence = e.confidence(query, match.Title)
			qr.LowConfidence = e.minConf > 0 && e.minConf <= 1 && qr.Confidence < e.minConf
			result.MatchedCount++
			result.Links = append(result.Links, qr.Link)
		}

		result.Results = append(result.Results, qr)
		e.sendProgress(progress, queryOutcomeUpdate(i+1, total, qr))
	}

	return result, nil
}

// confidence scores how closely the matched video title resembles the
// query. Report-only: it never changes which candidate is selected.
func (e *ConvertEngine) confidence(query, matchedTitle string) float64 {
	if matchedTitle == "" {
		return 0
	}
	return strutil.Similarity(strings.ToLower(query), strings.ToLower(matchedTitle), e.similarity)
}

// Publish creates a playlist on the video platform and inserts every
// matched video in order. Per-video insert failures are recorded and do not
// abort the remaining inserts.
func (e *ConvertEngine) Publish(ctx context.Context, result *ConvertResult, title, description string, visibility services.Visibility, progress chan<- ProgressUpdate) (*PublishResult, error) {
	if e.platform == nil {
		return nil, fmt.Errorf("%w: video platform not initialized", shared.ErrNotAuthenticated)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("no matched videos - cannot create empty playlist")
	}

	playlistID, err := e.platform.CreatePlaylist(ctx, title, description, visibility)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	e.sendProgress(progress, createPlaylistUpdate(playlistID, title))

	pub := &PublishResult{
		PlaylistID:  playlistID,
		PlaylistURL: fmt.Sprintf(playlistURLTemplate, playlistID),
	}

	videoIDs := make([]string, 0, result.MatchedCount)
	for _, qr := range result.Results {
		if qr.Outcome == OutcomeMatched {
			videoIDs = append(videoIDs, qr.VideoID)
		}
	}

	for i, videoID := range videoIDs {
		err := e.platform.AddVideoToPlaylist(ctx, playlistID, videoID)
		if err != nil {
			pub.Failures = append(pub.Failures, VideoAddFailure{VideoID: videoID, Err: err})
		} else {
			pub.Added++
		}
		e.sendProgress(progress, addVideoUpdate(i+1, len(videoIDs), videoID, err))
	}

	return pub, nil
}
