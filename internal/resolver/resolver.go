// Package resolver picks one destination video per track query.
//
// Resolution is a verbatim text search against the video platform followed
// by a selection policy over the ranked result list. The platform's top hit
// is frequently a promoted, remixed, or otherwise non-canonical result for
// a plain title+artist query, so the default policy skips it when a second
// result exists. Results are memoized per exact query string for the
// lifetime of the run in a bounded LRU cache.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"tunebridge/internal/services"
	"tunebridge/internal/shared"

	"golang.org/x/time/rate"
)

const (
	// DefaultSkipTop is the number of top-ranked results treated as
	// non-canonical and skipped when more results are available. This is
	// an empirically tuned policy, not a guarantee; mismatches it causes
	// are surfaced through confidence flags rather than hidden.
	DefaultSkipTop = 1

	// DefaultCacheSize bounds the per-run query memoization cache.
	DefaultCacheSize = 200
)

// CandidateMatch is the resolver's outcome for one query: a video
// identifier, or the zero value when no acceptable match exists.
type CandidateMatch struct {
	VideoID string
	Title   string
}

// Found reports whether the match holds a video identifier. A zero-valued
// match is the valid "no match" outcome, not an error.
func (m CandidateMatch) Found() bool {
	return m.VideoID != ""
}

// Opts configures a Resolver. SkipTop of 0 means the top result is always
// taken; use [DefaultOpts] for the tuned defaults.
type Opts struct {
	SkipTop      int     // top results to skip when more are available
	CacheSize    int     // memoization cache capacity
	SearchPerSec float64 // outbound search rate limit; 0 disables
}

// DefaultOpts returns the tuned default resolution policy.
func DefaultOpts() Opts {
	return Opts{
		SkipTop:   DefaultSkipTop,
		CacheSize: DefaultCacheSize,
	}
}

// Resolver resolves track queries to candidate videos with per-run
// memoization.
//
// Not safe for concurrent use: the cache is unsynchronized because the
// conversion pipeline is strictly sequential.
type Resolver struct {
	platform services.VideoPlatform
	cache    *QueryCache
	skipTop  int
	limiter  *rate.Limiter
}

// New creates a Resolver searching the given platform.
func New(platform services.VideoPlatform, opts Opts) *Resolver {
	skipTop := opts.SkipTop
	if skipTop < 0 {
		skipTop = 0
	}

	var limiter *rate.Limiter
	if opts.SearchPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.SearchPerSec), 1)
	}

	return &Resolver{
		platform: platform,
		cache:    NewQueryCache(opts.CacheSize),
		skipTop:  skipTop,
		limiter:  limiter,
	}
}

// ResolveCandidate returns the candidate video for a query.
//
// A cache hit returns without any network interaction, including cached
// "no match" outcomes. On a miss, one search is issued and the outcome is
// cached before returning. A search transport failure wraps
// [shared.ErrSearchUnavailable] and is never retried here, nor downgraded
// to "no match": conflating the two would hide outages as unmatched
// tracks. Failed lookups are not cached.
func (r *Resolver) ResolveCandidate(ctx context.Context, query string) (CandidateMatch, error) {
	if match, ok := r.cache.Get(query); ok {
		return match, nil
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return CandidateMatch{}, fmt.Errorf("%w: %v", shared.ErrSearchUnavailable, err)
		}
	}

	results, err := r.platform.SearchVideos(ctx, query)
	if err != nil {
		if errors.Is(err, shared.ErrSearchUnavailable) {
			return CandidateMatch{}, err
		}
		return CandidateMatch{}, fmt.Errorf("%w: %v", shared.ErrSearchUnavailable, err)
	}

	match := r.selectCandidate(results)
	r.cache.Add(query, match)

	return match, nil
}

// selectCandidate applies the skip-top policy to a ranked result list: pick
// the result after the skipped prefix when enough results exist, otherwise
// the last available one; an empty list is "no match".
func (r *Resolver) selectCandidate(results []services.SearchResult) CandidateMatch {
	if len(results) == 0 {
		return CandidateMatch{}
	}

	idx := r.skipTop
	if idx > len(results)-1 {
		idx = len(results) - 1
	}

	return CandidateMatch{
		VideoID: results[idx].VideoID,
		Title:   results[idx].Title,
	}
}
