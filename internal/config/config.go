package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

const (
	DefaultBranch   = "main"
	DefaultLogLevel = "warn"
	ConfigFileName  = "config.json"
)

// Environment variables, applied over the config file
const (
	EnvRepo     = "CONFLUENZ_REPO"
	EnvBranch   = "CONFLUENZ_BRANCH"
	EnvAPIURL   = "CONFLUENZ_API_URL"
	EnvClientID = "CONFLUENZ_CLIENT_ID"
	EnvDir      = "CONFLUENZ_DIR"
	EnvLogLevel = "CONFLUENZ_LOG_LEVEL"
	EnvConfig   = "CONFLUENZ_CONFIG"
)

var (
	errConfigInvalid = errors.New("invalid config")
	errNoWiki        = errors.New("no wiki configured: set repository (owner/name) or dir")
)

// Config selects the wiki and how to reach it
type Config struct {
	Repository     string `json:"repository,omitempty"` // owner/name on GitHub
	Branch         string `json:"branch,omitempty"`
	APIURL         string `json:"api_url,omitempty"`  // GitHub Enterprise API root
	AuthURL        string `json:"auth_url,omitempty"` // GitHub Enterprise web root, for login
	ClientID       string `json:"client_id,omitempty"`
	Dir            string `json:"dir,omitempty"` // local wiki directory; wins over repository
	LogLevel       string `json:"log_level,omitempty"`
	TokenFile      string `json:"token_file,omitempty"`
	CommitterName  string `json:"committer_name,omitempty"`
	CommitterEmail string `json:"committer_email,omitempty"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Branch:   DefaultBranch,
		LogLevel: DefaultLogLevel,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/confluenz/config.json, or the file
// named by CONFLUENZ_CONFIG
func DefaultPath() string {
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "confluenz", ConfigFileName)
}

// Load builds the configuration from defaults, the config file at path
// (optional, may contain comments and trailing commas) and the environment
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fileCfg)
	}

	return merge(cfg, fromEnv(os.Getenv)), nil
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}
	return cfg, nil
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

func fromEnv(getenv func(string) string) Config {
	return Config{
		Repository: getenv(EnvRepo),
		Branch:     getenv(EnvBranch),
		APIURL:     getenv(EnvAPIURL),
		ClientID:   getenv(EnvClientID),
		Dir:        getenv(EnvDir),
		LogLevel:   getenv(EnvLogLevel),
	}
}

func merge(base, overlay Config) Config {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&base.Repository, overlay.Repository)
	set(&base.Branch, overlay.Branch)
	set(&base.APIURL, overlay.APIURL)
	set(&base.AuthURL, overlay.AuthURL)
	set(&base.ClientID, overlay.ClientID)
	set(&base.Dir, overlay.Dir)
	set(&base.LogLevel, overlay.LogLevel)
	set(&base.TokenFile, overlay.TokenFile)
	set(&base.CommitterName, overlay.CommitterName)
	set(&base.CommitterEmail, overlay.CommitterEmail)
	return base
}

// Validate checks that a wiki is selected
func (c Config) Validate() error {
	if c.Dir == "" && c.Repository == "" {
		return errNoWiki
	}
	if c.Dir == "" && strings.Count(c.Repository, "/") != 1 {
		return fmt.Errorf("%w: repository must be owner/name, got %q", errConfigInvalid, c.Repository)
	}
	return nil
}

// RepoKey identifies the wiki, e.g. for naming its search index
func (c Config) RepoKey() string {
	if c.Dir != "" {
		return "dir:" + c.Dir
	}
	return c.Repository + "@" + c.Branch
}

// Level parses LogLevel, defaulting to warn
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// NewLogger returns a text logger writing to w at the configured level
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}

// Format returns the config as formatted JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return string(data), nil
}
