package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	errs "marketpulse/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{"nifty50", "sensex", "intraday", "banknifty"}, cfg.Campaign.Hashtags)
	assert.Equal(t, 2000, cfg.Campaign.TotalTarget)
	assert.Equal(t, 200, cfg.Campaign.BatchSize)
	assert.Equal(t, 3, cfg.Campaign.MaxPatience)
	assert.Equal(t, 24*time.Hour, cfg.Campaign.TimeWindow)
	assert.Equal(t, "twitter_cookies.json", cfg.Paths.SessionFile)
	assert.Equal(t, 7, cfg.Session.MaxAgeDays)
	assert.Equal(t, DurationRange{Min: 60 * time.Second, Max: 120 * time.Second}, cfg.Timing.BatchPause)
	assert.Equal(t, DurationRange{Min: 15 * time.Second, Max: 30 * time.Second}, cfg.Timing.InterTaskDelay)
	assert.Equal(t, 0.6, cfg.Analysis.SignalWeight)
	assert.Equal(t, 0.4, cfg.Analysis.EngagementWeight)
	assert.False(t, cfg.UI.Progress)
	assert.True(t, cfg.UI.Notifications)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MARKETPULSE_HASHTAGS", "#nifty50, sensex,,")
	t.Setenv("MARKETPULSE_TOTAL_TARGET", "400")
	t.Setenv("MARKETPULSE_DATA_DIR", "/tmp/pulse")
	t.Setenv("MARKETPULSE_SESSION_ENCRYPT", "true")
	t.Setenv("MARKETPULSE_HEADLESS", "false")
	t.Setenv("MARKETPULSE_SEED", "42")
	t.Setenv("MARKETPULSE_LOG_LEVEL", "debug")
	t.Setenv("MARKETPULSE_PROGRESS", "true")
	t.Setenv("MARKETPULSE_NOTIFICATIONS", "false")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, []string{"nifty50", "sensex"}, cfg.Campaign.Hashtags)
	assert.Equal(t, 400, cfg.Campaign.TotalTarget)
	assert.Equal(t, filepath.Join("/tmp/pulse", "raw_tweets"), cfg.Paths.RawDir)
	assert.Equal(t, filepath.Join("/tmp/pulse", "crawl_history.db"), cfg.Paths.HistoryDB)
	assert.True(t, cfg.Session.Encrypt)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, int64(42), cfg.Timing.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.UI.Progress)
	assert.False(t, cfg.UI.Notifications)
}

func TestLoadFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("MARKETPULSE_BATCH_SIZE", "lots")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MARKETPULSE_BATCH_SIZE")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
campaign:
  hashtags: [banknifty]
  total_target: 100
timing:
  batch_pause:
    min: 1m
    max: 1m30s
  reload_settle: 500ms
browser:
  item_wait_timeout: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, []string{"banknifty"}, cfg.Campaign.Hashtags)
	assert.Equal(t, 100, cfg.Campaign.TotalTarget)
	assert.Equal(t, DurationRange{Min: time.Minute, Max: 90 * time.Second}, cfg.Timing.BatchPause)
	assert.Equal(t, 500*time.Millisecond, cfg.Timing.ReloadSettle)
	assert.Equal(t, 10*time.Second, cfg.Browser.ItemWaitTimeout)
	// untouched sections keep their defaults
	assert.Equal(t, 200, cfg.Campaign.BatchSize)
}

func TestLoadFromFileErrors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("campaign: [unclosed"), 0644))
	assert.Error(t, cfg.LoadFromFile(bad))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"hashtag with prefix", func(c *Config) { c.Campaign.Hashtags = []string{"#nifty"} }, "without '#'"},
		{"blank hashtag", func(c *Config) { c.Campaign.Hashtags = []string{" "} }, "must not be blank"},
		{"negative target", func(c *Config) { c.Campaign.TotalTarget = -1 }, "cannot be negative"},
		{"zero batch", func(c *Config) { c.Campaign.BatchSize = 0 }, "batch size"},
		{"inverted range", func(c *Config) { c.Timing.PassPause = DurationRange{Min: 4 * time.Second, Max: time.Second} }, "timing.pass_pause"},
		{"no scrolls", func(c *Config) { c.Timing.ScrollCount = IntRange{} }, "timing.scroll_count"},
		{"no cookie domains", func(c *Config) { c.Browser.CookieDomains = nil }, "cookie domain"},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errs.IsType(err, errs.ErrorTypeConfig))
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Campaign.BatchSize = 0
	cfg.Logging.Level = "chatty"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeConfig, errs.TypeOf(err))
	assert.Contains(t, err.Error(), "batch size")
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Campaign.Hashtags = []string{"intraday"}
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, cfg, loaded)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\ncampaign:\n  batch_size: 50\n"), 0644))
	t.Setenv("MARKETPULSE_BATCH_SIZE", "75")
	t.Setenv("MARKETPULSE_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 75, cfg.Campaign.BatchSize)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadUsesConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elsewhere.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  progress: true\ncampaign:\n  hashtags: [sensex]\n"), 0644))
	t.Setenv(PathEnv, path)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.UI.Progress)
	assert.Equal(t, []string{"sensex"}, cfg.Campaign.Hashtags)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("campaign:\n  batch_size: 0\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeConfig))
}

func TestDurationParsing(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte("campaign:\n  time_window: 12h\n"), &cfg))
	assert.Equal(t, 12*time.Hour, cfg.Campaign.TimeWindow)
}
