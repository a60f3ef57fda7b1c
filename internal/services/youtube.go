// YouTube Data API v3 implementation of [VideoPlatform]
//
// Endpoint shapes follow https://developers.google.com/youtube/v3/docs
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"tunebridge/internal/shared"

	"golang.org/x/oauth2"
)

const (
	youtubeBaseURL  = "https://www.googleapis.com/youtube/v3"
	youtubeAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	youtubeTokenURL = "https://oauth2.googleapis.com/token"

	// Scope required for playlist creation and item insertion.
	youtubeScope = "https://www.googleapis.com/auth/youtube.force-ssl"

	searchMaxResults = 10
)

// NewYouTubeOAuthConfig builds the OAuth2 authorization code config for the
// YouTube Data API. The interactive login flow (browser + localhost
// callback) lives in internal/server; this only describes the endpoints.
func NewYouTubeOAuthConfig(cfg shared.YouTubeConfig) (*oauth2.Config, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: youtube client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:8888/callback"
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{youtubeScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  youtubeAuthURL,
			TokenURL: youtubeTokenURL,
		},
	}, nil
}

type youtubeSearchID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

type youtubeSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
}

type youtubeSearchItem struct {
	ID      youtubeSearchID `json:"id"`
	Snippet youtubeSnippet  `json:"snippet"`
}

type youtubeSearchResponse struct {
	Items []youtubeSearchItem `json:"items"`
}

// YouTubeService implements [VideoPlatform] for the YouTube Data API.
//
// The service is designed against an already-authenticated client handle:
// pass an [oauth2] HTTP client carrying the user's token. It never sees
// raw credentials.
type YouTubeService struct {
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeService creates a YouTube service using the given authenticated
// HTTP client.
func NewYouTubeService(httpClient *http.Client) *YouTubeService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &YouTubeService{
		baseURL:    youtubeBaseURL,
		httpClient: httpClient,
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

func (y *YouTubeService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: youtube API status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: youtube API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// SearchVideos issues a verbatim text search and returns the ranked result
// list. Transport failures, rate limiting, and malformed responses all wrap
// [shared.ErrSearchUnavailable] so callers can distinguish an outage from
// an empty result.
func (y *YouTubeService) SearchVideos(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := fmt.Sprintf("/search?part=snippet&type=video&maxResults=%d&q=%s",
		searchMaxResults, url.QueryEscape(query))

	var resp youtubeSearchResponse
	if err := y.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSearchUnavailable, err)
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, SearchResult{
			VideoID: item.ID.VideoID,
			Title:   item.Snippet.Title,
			Channel: item.Snippet.ChannelTitle,
		})
	}

	return results, nil
}

// CreatePlaylist creates a new playlist with the given title, description,
// and privacy status, returning the new playlist's ID.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, title, description string, visibility Visibility) (string, error) {
	body := map[string]any{
		"snippet": map[string]any{
			"title":           title,
			"description":     description,
			"defaultLanguage": "en",
		},
		"status": map[string]any{
			"privacyStatus": string(visibility),
		},
	}

	var resp struct {
		ID string `json:"id"`
	}

	if err := y.doRequest(ctx, http.MethodPost, "/playlists?part=snippet,status", body, &resp); err != nil {
		return "", fmt.Errorf("failed to create playlist: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("%w: playlist creation returned no ID", shared.ErrAPIRequest)
	}

	return resp.ID, nil
}

// AddVideoToPlaylist appends a video to the end of an existing playlist.
func (y *YouTubeService) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error {
	body := map[string]any{
		"snippet": map[string]any{
			"playlistId": playlistID,
			"resourceId": map[string]any{
				"kind":    "youtube#video",
				"videoId": videoID,
			},
		},
	}

	if err := y.doRequest(ctx, http.MethodPost, "/playlistItems?part=snippet", body, nil); err != nil {
		return fmt.Errorf("failed to add video %s: %w", videoID, err)
	}

	return nil
}
