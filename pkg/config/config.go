package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	errs "marketpulse/pkg/errors"
)

// PathEnv names the config file when set. Without it the standard
// locations are searched.
const PathEnv = "MARKETPULSE_CONFIG"

// Config holds every setting of a pipeline run. It is built once at startup
// and passed down by pointer; nothing mutates it afterwards.
type Config struct {
	// Which hashtags to crawl and how much to collect
	Campaign CampaignConfig `yaml:"campaign" json:"campaign"`

	// Input and output locations
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// Persisted login state
	Session SessionConfig `yaml:"session" json:"session"`

	// Browser and target site
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Randomized pacing of the crawl
	Timing TimingConfig `yaml:"timing" json:"timing"`

	// Signal aggregation outputs
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Terminal progress view and desktop notifications
	UI UIConfig `yaml:"ui" json:"ui"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CampaignConfig describes the crawl campaign
type CampaignConfig struct {
	Hashtags    []string      `yaml:"hashtags" json:"hashtags"`
	TotalTarget int           `yaml:"total_target" json:"total_target"`
	BatchSize   int           `yaml:"batch_size" json:"batch_size"`
	MaxPatience int           `yaml:"max_patience" json:"max_patience"`
	TimeWindow  time.Duration `yaml:"time_window" json:"time_window"`
}

// PathsConfig holds directory and file locations
type PathsConfig struct {
	RawDir       string `yaml:"raw_dir" json:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir" json:"processed_dir"`
	AnalysisDir  string `yaml:"analysis_dir" json:"analysis_dir"`
	SessionFile  string `yaml:"session_file" json:"session_file"`
	HistoryDB    string `yaml:"history_db" json:"history_db"`
}

// SessionConfig controls session validity and storage
type SessionConfig struct {
	MaxAgeDays int  `yaml:"max_age_days" json:"max_age_days"`
	Encrypt    bool `yaml:"encrypt" json:"encrypt"`
}

// BrowserConfig holds browser and target site settings
type BrowserConfig struct {
	SiteURL         string        `yaml:"site_url" json:"site_url"`
	WarmupURL       string        `yaml:"warmup_url" json:"warmup_url"`
	CookieDomains   []string      `yaml:"cookie_domains" json:"cookie_domains"`
	UserAgent       string        `yaml:"user_agent" json:"user_agent"`
	Headless        bool          `yaml:"headless" json:"headless"`
	ItemWaitTimeout time.Duration `yaml:"item_wait_timeout" json:"item_wait_timeout"`
	TabWaitTimeout  time.Duration `yaml:"tab_wait_timeout" json:"tab_wait_timeout"`
	MinNavInterval  time.Duration `yaml:"min_nav_interval" json:"min_nav_interval"`
	ExecPath        string        `yaml:"exec_path" json:"exec_path"`
}

// DurationRange is an inclusive [Min, Max] interval for randomized waits
type DurationRange struct {
	Min time.Duration `yaml:"min" json:"min"`
	Max time.Duration `yaml:"max" json:"max"`
}

// IntRange is an inclusive [Min, Max] interval for randomized counts
type IntRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// TimingConfig holds every jitter range used by the crawl
type TimingConfig struct {
	Seed           int64         `yaml:"seed" json:"seed"`
	ScrollCount    IntRange      `yaml:"scroll_count" json:"scroll_count"`
	ScrollDelay    DurationRange `yaml:"scroll_delay" json:"scroll_delay"`
	PassPause      DurationRange `yaml:"pass_pause" json:"pass_pause"`
	BatchPause     DurationRange `yaml:"batch_pause" json:"batch_pause"`
	JitterMoves    IntRange      `yaml:"jitter_moves" json:"jitter_moves"`
	JitterDelay    DurationRange `yaml:"jitter_delay" json:"jitter_delay"`
	InterTaskDelay DurationRange `yaml:"inter_task_delay" json:"inter_task_delay"`
	ReloadSettle   time.Duration `yaml:"reload_settle" json:"reload_settle"`
	LoginWarmup    DurationRange `yaml:"login_warmup" json:"login_warmup"`
}

// AnalysisConfig holds signal aggregation settings
type AnalysisConfig struct {
	SignalWeight     float64       `yaml:"signal_weight" json:"signal_weight"`
	EngagementWeight float64       `yaml:"engagement_weight" json:"engagement_weight"`
	ChartBucket      time.Duration `yaml:"chart_bucket" json:"chart_bucket"`
	FeedSize         int           `yaml:"feed_size" json:"feed_size"`
	SampleSize       int           `yaml:"sample_size" json:"sample_size"`
}

// UIConfig holds terminal presentation settings
type UIConfig struct {
	// Progress replaces console logs with a live crawl view while the
	// campaign runs. It needs an interactive terminal.
	Progress      bool `yaml:"progress" json:"progress"`
	Notifications bool `yaml:"notifications" json:"notifications"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with the stock campaign
func DefaultConfig() *Config {
	return &Config{
		Campaign: CampaignConfig{
			Hashtags:    []string{"nifty50", "sensex", "intraday", "banknifty"},
			TotalTarget: 2000,
			BatchSize:   200,
			MaxPatience: 3,
			TimeWindow:  24 * time.Hour,
		},
		Paths: PathsConfig{
			RawDir:       "data/raw_tweets",
			ProcessedDir: "data/processed_tweets",
			AnalysisDir:  "data/analysis_results",
			SessionFile:  "twitter_cookies.json",
			HistoryDB:    "data/crawl_history.db",
		},
		Session: SessionConfig{
			MaxAgeDays: 7,
			Encrypt:    false,
		},
		Browser: BrowserConfig{
			SiteURL:         "https://twitter.com",
			WarmupURL:       "https://www.google.com/",
			CookieDomains:   []string{"twitter.com", "x.com"},
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
			Headless:        true,
			ItemWaitTimeout: 15 * time.Second,
			TabWaitTimeout:  20 * time.Second,
			MinNavInterval:  2 * time.Second,
		},
		Timing: TimingConfig{
			ScrollCount:    IntRange{Min: 2, Max: 4},
			ScrollDelay:    DurationRange{Min: 500 * time.Millisecond, Max: time.Second},
			PassPause:      DurationRange{Min: 2 * time.Second, Max: 4 * time.Second},
			BatchPause:     DurationRange{Min: 60 * time.Second, Max: 120 * time.Second},
			JitterMoves:    IntRange{Min: 3, Max: 6},
			JitterDelay:    DurationRange{Min: 400 * time.Millisecond, Max: 800 * time.Millisecond},
			InterTaskDelay: DurationRange{Min: 15 * time.Second, Max: 30 * time.Second},
			ReloadSettle:   3 * time.Second,
			LoginWarmup:    DurationRange{Min: time.Second, Max: 3 * time.Second},
		},
		Analysis: AnalysisConfig{
			SignalWeight:     0.6,
			EngagementWeight: 0.4,
			ChartBucket:      time.Hour,
			FeedSize:         50,
			SampleSize:       5,
		},
		UI: UIConfig{
			Progress:      false,
			Notifications: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if hashtags := os.Getenv("MARKETPULSE_HASHTAGS"); hashtags != "" {
		c.Campaign.Hashtags = splitList(hashtags)
	}
	if target := os.Getenv("MARKETPULSE_TOTAL_TARGET"); target != "" {
		val, err := strconv.Atoi(target)
		if err != nil {
			return fmt.Errorf("invalid MARKETPULSE_TOTAL_TARGET: %w", err)
		}
		c.Campaign.TotalTarget = val
	}
	if batch := os.Getenv("MARKETPULSE_BATCH_SIZE"); batch != "" {
		val, err := strconv.Atoi(batch)
		if err != nil {
			return fmt.Errorf("invalid MARKETPULSE_BATCH_SIZE: %w", err)
		}
		c.Campaign.BatchSize = val
	}
	if dataDir := os.Getenv("MARKETPULSE_DATA_DIR"); dataDir != "" {
		c.Paths.RawDir = filepath.Join(dataDir, "raw_tweets")
		c.Paths.ProcessedDir = filepath.Join(dataDir, "processed_tweets")
		c.Paths.AnalysisDir = filepath.Join(dataDir, "analysis_results")
		c.Paths.HistoryDB = filepath.Join(dataDir, "crawl_history.db")
	}
	if sessionFile := os.Getenv("MARKETPULSE_SESSION_FILE"); sessionFile != "" {
		c.Paths.SessionFile = sessionFile
	}
	if maxAge := os.Getenv("MARKETPULSE_SESSION_MAX_AGE_DAYS"); maxAge != "" {
		val, err := strconv.Atoi(maxAge)
		if err != nil {
			return fmt.Errorf("invalid MARKETPULSE_SESSION_MAX_AGE_DAYS: %w", err)
		}
		c.Session.MaxAgeDays = val
	}
	if encrypt := os.Getenv("MARKETPULSE_SESSION_ENCRYPT"); encrypt != "" {
		c.Session.Encrypt = strings.ToLower(encrypt) == "true"
	}
	if headless := os.Getenv("MARKETPULSE_HEADLESS"); headless != "" {
		c.Browser.Headless = strings.ToLower(headless) != "false"
	}
	if execPath := os.Getenv("MARKETPULSE_CHROME_PATH"); execPath != "" {
		c.Browser.ExecPath = execPath
	}
	if seed := os.Getenv("MARKETPULSE_SEED"); seed != "" {
		val, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MARKETPULSE_SEED: %w", err)
		}
		c.Timing.Seed = val
	}
	if progress := os.Getenv("MARKETPULSE_PROGRESS"); progress != "" {
		c.UI.Progress = strings.ToLower(progress) == "true"
	}
	if notify := os.Getenv("MARKETPULSE_NOTIFICATIONS"); notify != "" {
		c.UI.Notifications = strings.ToLower(notify) != "false"
	}
	if logLevel := os.Getenv("MARKETPULSE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("MARKETPULSE_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".marketpulse.yaml",
		".marketpulse.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "marketpulse", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "marketpulse", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. All problems are
// reported together in one config error.
func (c *Config) Validate() error {
	var problems []error

	for _, tag := range c.Campaign.Hashtags {
		if strings.TrimSpace(tag) == "" {
			problems = append(problems, errors.New("hashtags must not be blank"))
			break
		}
		if strings.HasPrefix(tag, "#") {
			problems = append(problems, fmt.Errorf("hashtag %q must be given without '#'", tag))
		}
	}
	if c.Campaign.TotalTarget < 0 {
		problems = append(problems, errors.New("total target cannot be negative"))
	}
	if c.Campaign.BatchSize <= 0 {
		problems = append(problems, errors.New("batch size must be positive"))
	}
	if c.Campaign.MaxPatience <= 0 {
		problems = append(problems, errors.New("max patience must be positive"))
	}
	if c.Campaign.TimeWindow <= 0 {
		problems = append(problems, errors.New("time window must be positive"))
	}

	if c.Paths.RawDir == "" || c.Paths.ProcessedDir == "" || c.Paths.AnalysisDir == "" {
		problems = append(problems, errors.New("raw, processed and analysis directories are required"))
	}
	if c.Paths.SessionFile == "" {
		problems = append(problems, errors.New("session file is required"))
	}
	if c.Session.MaxAgeDays <= 0 {
		problems = append(problems, errors.New("session max age must be positive"))
	}

	if c.Browser.SiteURL == "" {
		problems = append(problems, errors.New("site URL is required"))
	}
	if len(c.Browser.CookieDomains) == 0 {
		problems = append(problems, errors.New("at least one cookie domain is required"))
	}
	if c.Browser.ItemWaitTimeout <= 0 || c.Browser.TabWaitTimeout <= 0 {
		problems = append(problems, errors.New("browser wait timeouts must be positive"))
	}

	ranges := map[string]DurationRange{
		"scroll_delay":     c.Timing.ScrollDelay,
		"pass_pause":       c.Timing.PassPause,
		"batch_pause":      c.Timing.BatchPause,
		"jitter_delay":     c.Timing.JitterDelay,
		"inter_task_delay": c.Timing.InterTaskDelay,
		"login_warmup":     c.Timing.LoginWarmup,
	}
	for name, r := range ranges {
		if r.Min < 0 || r.Max < r.Min {
			problems = append(problems, fmt.Errorf("timing.%s must satisfy 0 <= min <= max", name))
		}
	}
	if c.Timing.ScrollCount.Min < 1 || c.Timing.ScrollCount.Max < c.Timing.ScrollCount.Min {
		problems = append(problems, errors.New("timing.scroll_count must satisfy 1 <= min <= max"))
	}
	if c.Timing.JitterMoves.Min < 0 || c.Timing.JitterMoves.Max < c.Timing.JitterMoves.Min {
		problems = append(problems, errors.New("timing.jitter_moves must satisfy 0 <= min <= max"))
	}

	if c.Analysis.ChartBucket <= 0 {
		problems = append(problems, errors.New("chart bucket must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		problems = append(problems, errors.New("invalid log level"))
	}

	if len(problems) > 0 {
		return errs.Wrap(errs.ErrorTypeConfig, "validate", errors.Join(problems...))
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Environment variables > .env file > Config file > Defaults
// An empty configPath falls back to $MARKETPULSE_CONFIG, then to the
// standard locations.
func Load(configPath string) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".marketpulse.env"))

	if configPath == "" {
		configPath = os.Getenv(PathEnv)
	}
	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// splitList parses a comma separated list, dropping blanks and a leading '#'
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimPrefix(strings.TrimSpace(part), "#")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
