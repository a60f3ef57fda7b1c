package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "tunebridge.db" {
			t.Errorf("expected database path tunebridge.db, got %s", config.Database.Path)
		}

		if config.Resolver.SkipTop != 1 {
			t.Errorf("expected resolver skip_top 1, got %d", config.Resolver.SkipTop)
		}

		if config.Resolver.CacheSize != 200 {
			t.Errorf("expected resolver cache_size 200, got %d", config.Resolver.CacheSize)
		}

		if config.Credentials.YouTube.RedirectURI != "http://localhost:8888/callback" {
			t.Errorf("expected youtube redirect URI http://localhost:8888/callback, got %s", config.Credentials.YouTube.RedirectURI)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[resolver]
skip_top = 2
cache_size = 500
search_per_sec = 5.0

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[credentials.youtube]
client_id = "yt_client_id"
client_secret = "yt_secret"
redirect_uri = "http://localhost:9999/callback"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Resolver.SkipTop != 2 {
			t.Errorf("expected skip_top 2, got %d", config.Resolver.SkipTop)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadEnv Overrides", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_spotify_id")
		t.Setenv("YOUTUBE_CLIENT_SECRET", "env_yt_secret")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "file_spotify_id"

		LoadEnv(config)

		if config.Credentials.Spotify.ClientID != "env_spotify_id" {
			t.Errorf("expected env override env_spotify_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.YouTube.ClientSecret != "env_yt_secret" {
			t.Errorf("expected env override env_yt_secret, got %s", config.Credentials.YouTube.ClientSecret)
		}
	})
}
