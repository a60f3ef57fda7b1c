// Package services defines the two collaborator interfaces the conversion
// pipeline consumes and implements them against real HTTP APIs.
//
// # Interfaces
//
// [SourceCatalog] is the music service holding the originating playlist
// (Spotify). [VideoPlatform] is the service where matched videos are
// searched and the new playlist is materialized (YouTube).
//
// # Spotify Implementation
//
// [SpotifyService] authenticates with the OAuth2 client credentials flow:
// reading public playlists needs no user consent, so there is no
// interactive login on the source side. The [clientcredentials.Config]
// token source fetches and refreshes tokens transparently.
//
// # YouTube Implementation
//
// [YouTubeService] talks to the YouTube Data API v3 (search.list,
// playlists.insert, playlistItems.insert). It is constructed from an
// already-authenticated *http.Client; the interactive authorization code
// flow that produces it lives in internal/server and cmd.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrSearchUnavailable] : search transport failed (distinct from an empty result)
//   - [shared.ErrAPIRequest] : HTTP request failed or returned non-2xx
//   - [shared.ErrPlaylistNotFound] : playlist ID not found on the source catalog
//   - [shared.ErrMissingCredentials] : constructor called without credentials
package services
