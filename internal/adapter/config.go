package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds backlog server configuration
type ServerConfig struct {
	URL      string        `mapstructure:"url"`
	Token    string        `mapstructure:"token"`
	Username string        `mapstructure:"username"` // display only
	Timeout  time.Duration `mapstructure:"timeout"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultTab string `mapstructure:"default_tab"` // ALL, PLAYING, ...
	ShowStats  bool   `mapstructure:"show_stats"`
}

// ViewerConfig selects the program used to open cover images
type ViewerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// CacheConfig holds snapshot cache configuration
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Timeout: 30 * time.Second,
		},
		UI: UIConfig{
			DefaultTab: "ALL",
			ShowStats:  true,
		},
		Viewer: ViewerConfig{
			Args: []string{},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCachePath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "backlog", "backlog.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "backlog", "backlog.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "backlog")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "backlog")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "backlog", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "backlog", "cache")
	}
}

// Settings wraps a viper instance bound to one config file
type Settings struct {
	v    *viper.Viper
	path string // file written by Save
	cfg  *Config
}

// LoadConfig loads configuration from path (or the default locations when
// empty) and BACKLOG_* environment variables
func LoadConfig(path string) (*Settings, error) {
	cfg := DefaultConfig()
	v := viper.New()

	v.SetDefault("server.timeout", cfg.Server.Timeout)
	v.SetDefault("ui.default_tab", cfg.UI.DefaultTab)
	v.SetDefault("ui.show_stats", cfg.UI.ShowStats)
	v.SetDefault("viewer.command", cfg.Viewer.Command)
	v.SetDefault("viewer.args", cfg.Viewer.Args)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	// Registered so env overrides reach keys absent from the file
	v.SetDefault("server.url", "")
	v.SetDefault("server.token", "")
	v.SetDefault("server.username", "")

	writePath := filepath.Join(defaultConfigPath(), "config.yaml")
	if path != "" {
		v.SetConfigFile(path)
		writePath = path
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (BACKLOG_SERVER_URL, ...)
	v.SetEnvPrefix("BACKLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	} else if path == "" {
		writePath = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return &Settings{v: v, path: writePath, cfg: cfg}, nil
}

// Config returns the decoded configuration
func (s *Settings) Config() *Config { return s.cfg }

// Path returns the file Save writes to
func (s *Settings) Path() string { return s.path }

// Save writes the current configuration to the config file
func (s *Settings) Save() error {
	cfg := s.cfg

	// Set fields individually to ensure correct key names (snake_case)
	s.v.Set("server.url", cfg.Server.URL)
	s.v.Set("server.token", cfg.Server.Token)
	s.v.Set("server.username", cfg.Server.Username)
	s.v.Set("server.timeout", cfg.Server.Timeout.String())

	s.v.Set("ui.default_tab", cfg.UI.DefaultTab)
	s.v.Set("ui.show_stats", cfg.UI.ShowStats)

	s.v.Set("viewer.command", cfg.Viewer.Command)
	s.v.Set("viewer.args", cfg.Viewer.Args)

	s.v.Set("cache.enabled", cfg.Cache.Enabled)
	s.v.Set("cache.dir", cfg.Cache.Dir)

	s.v.Set("logging.file", cfg.Logging.File)
	s.v.Set("logging.level", cfg.Logging.Level)

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if the server URL is set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}

// CacheDir returns the snapshot cache directory, or "" when caching is off
func (c *Config) CacheDir() string {
	if !c.Cache.Enabled {
		return ""
	}
	return expandHome(c.Cache.Dir)
}

// ClearCache removes all cached data
func (c *Config) ClearCache() error {
	dir := c.CacheDir()
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// TokenFile persists the bearer token in the config file.
// It implements session.TokenStore.
type TokenFile struct {
	settings *Settings
}

// NewTokenFile binds token persistence to settings
func NewTokenFile(settings *Settings) *TokenFile {
	return &TokenFile{settings: settings}
}

func (t *TokenFile) LoadToken() string {
	return t.settings.cfg.Server.Token
}

func (t *TokenFile) SaveToken(token string) error {
	t.settings.cfg.Server.Token = token
	return t.settings.Save()
}

func (t *TokenFile) ClearToken() error {
	return t.SaveToken("")
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
