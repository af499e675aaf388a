package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ya_projects/internal/config"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(t, err)
	return path
}

func validConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.Driver = config.DriverMemory
	cfg.Auth.SecretKey = "0123456789abcdef"
	return cfg
}

func TestLoadConfig_Success(t *testing.T) {
	json := `{
		"app": "notes",
		"server": {"addr": ":9000"},
		"database": {"driver": "postgres", "url": "postgres://u:p@localhost/notes"},
		"auth": {"secret_key": "super-secret-key-123", "session_ttl": "2h"},
		"feeds": {"rss_feeds": ["https://example.com/rss", "http://foo.bar/feed"], "poll_interval": "10s"}
	}`
	path := writeTempConfig(t, json)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, config.AppNotes, cfg.App)
	require.Equal(t, ":9000", cfg.Server.Addr)
	require.Equal(t, "postgres://u:p@localhost/notes", cfg.Database.URL)
	require.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	require.Equal(t, []string{"https://example.com/rss", "http://foo.bar/feed"}, cfg.Feeds.URLs)
	require.Equal(t, 10*time.Second, cfg.Feeds.PollInterval)

	// значения по умолчанию сохраняются
	require.Equal(t, 10, cfg.News.CountOnHomePage)
	require.Equal(t, "sessionid", cfg.Auth.CookieName)
	require.Equal(t, "/auth/login/", cfg.Auth.LoginURL)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeTempConfig(t, `{"database": {"url": "postgres://file"}}`)
	t.Setenv("YA_DATABASE_URL", "postgres://env")
	t.Setenv("YA_NEWS_COUNT_ON_HOME_PAGE", "5")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://env", cfg.Database.URL)
	require.Equal(t, 5, cfg.News.CountOnHomePage)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := config.LoadConfig("/nonexistent/config.json")
	require.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, `{ invalid json }`)
	_, err := config.LoadConfig(path)
	require.Error(t, err)
}

func TestValidate_Success(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:    "unknown app",
			mutate:  func(cfg *config.Config) { cfg.App = "blog" },
			wantErr: "unknown app",
		},
		{
			name:    "unknown driver",
			mutate:  func(cfg *config.Config) { cfg.Database.Driver = "mysql" },
			wantErr: "unknown database driver",
		},
		{
			name: "postgres without url",
			mutate: func(cfg *config.Config) {
				cfg.Database.Driver = config.DriverPostgres
				cfg.Database.URL = ""
			},
			wantErr: "database url is required",
		},
		{
			name:    "short secret",
			mutate:  func(cfg *config.Config) { cfg.Auth.SecretKey = "short" },
			wantErr: "secret key",
		},
		{
			name:    "page size",
			mutate:  func(cfg *config.Config) { cfg.News.CountOnHomePage = 0 },
			wantErr: "news count on home page",
		},
		{
			name: "poll interval",
			mutate: func(cfg *config.Config) {
				cfg.Feeds.URLs = []string{"https://example.com/rss"}
				cfg.Feeds.PollInterval = time.Second
			},
			wantErr: "poll interval must be ≥ 5",
		},
		{
			name: "invalid url",
			mutate: func(cfg *config.Config) {
				cfg.Feeds.URLs = []string{"not-a-url", "http://foo.bar/feed"}
			},
			wantErr: "invalid RSS URL",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
