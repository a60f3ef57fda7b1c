package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Extraction errors
	ErrInvalidPlaylistURL = fmt.Errorf("invalid playlist URL")

	// API and resolution errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrSearchUnavailable = fmt.Errorf("search unavailable")
	ErrPlaylistNotFound  = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
