package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"tunebridge/internal/server"
	"tunebridge/internal/services"
	"tunebridge/internal/shared"
)

// authTimeout bounds how long the login flow waits for the browser callback.
const authTimeout = 3 * time.Minute

// tokenPath returns where the YouTube OAuth token is persisted.
func (r *Runner) tokenPath() string {
	if p := r.config.Credentials.YouTube.TokenPath; p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "token.json"
	}
	return filepath.Join(home, ".tunebridge", "token.json")
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: no saved token at %s (run 'auth login')", shared.ErrNotAuthenticated, path)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: token file is corrupt: %v", shared.ErrNotAuthenticated, err)
	}

	return &token, nil
}

// youtubePlatform returns an authenticated [services.VideoPlatform], using
// the saved OAuth token. A pre-injected platform (tests) takes precedence.
func (r *Runner) youtubePlatform(ctx context.Context) (services.VideoPlatform, error) {
	if r.platform != nil {
		return r.platform, nil
	}

	conf, err := services.NewYouTubeOAuthConfig(r.config.Credentials.YouTube)
	if err != nil {
		return nil, err
	}

	token, err := loadToken(r.tokenPath())
	if err != nil {
		return nil, err
	}

	return services.NewYouTubeService(conf.Client(ctx, token)), nil
}

// AuthLogin runs the browser-based OAuth2 authorization code flow for the
// YouTube account and saves the resulting token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	conf, err := services.NewYouTubeOAuthConfig(r.config.Credentials.YouTube)
	if err != nil {
		return err
	}

	state := shared.GenerateID()
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline)

	r.logger.Info("starting YouTube authorization", "redirect", conf.RedirectURL)
	r.writePlain("Opening browser for YouTube authorization...\n")
	r.writePlain("If the browser does not open, visit:\n%s\n", authURL)

	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	token, err := server.WaitForAuthorization(waitCtx, conf, state)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	path := r.tokenPath()
	if err := saveToken(path, token); err != nil {
		return err
	}

	r.logger.Info("token saved", "path", path)
	return r.writePlain("✓ Authorization successful\n")
}

// AuthStatus reports whether a saved YouTube token exists and is current.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	path := r.tokenPath()

	token, err := loadToken(path)
	if err != nil {
		r.writePlain("✗ Not authenticated: %v\n", err)
		return nil
	}

	r.writePlain("Token file: %s\n", path)
	if token.Expiry.IsZero() {
		return r.writePlain("✓ Token present (no recorded expiry)\n")
	}

	if token.Valid() {
		return r.writePlain("✓ Token valid until %s\n", token.Expiry.Format(time.RFC1123))
	}

	if token.RefreshToken != "" {
		return r.writePlain("✓ Access token expired %s; refresh token available\n", token.Expiry.Format(time.RFC1123))
	}

	return r.writePlain("✗ Token expired %s (run 'auth login')\n", token.Expiry.Format(time.RFC1123))
}

// authCommand handles YouTube account authorization.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize the YouTube account used for playlist creation",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Run the browser-based OAuth flow and save the token",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check the saved token",
				Action: r.AuthStatus,
			},
		},
	}
}
