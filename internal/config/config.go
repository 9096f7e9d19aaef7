package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/arangotui/internal/client"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultEndpoint is the server address used when nothing else is set
	DefaultEndpoint = "http://localhost:8529"
	// DefaultUsername is the user used when nothing else is set
	DefaultUsername = "root"
	// DefaultPageSize is the number of documents fetched per page
	DefaultPageSize = 50
	// MaxPageSize bounds a single document page
	MaxPageSize = 1000
)

var (
	// ConfigDir is the global configuration directory (~/.arangotui)
	ConfigDir string

	// DatabasePath is the SQLite database file for query history
	DatabasePath string

	// LogPath is the JSON log file
	LogPath string

	// KeybindsPath is the optional key binding override file
	KeybindsPath string
)

// configFiles are probed in order inside ConfigDir
var configFiles = []string{"config.yaml", "config.yml", "config.jsonc", "config.json"}

// Initialize sets up the configuration directory
// It creates ~/.arangotui/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".arangotui"))
}

// InitializeAt sets every global path under dir and creates it
func InitializeAt(dir string) error {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "arangotui.db")
	LogPath = filepath.Join(ConfigDir, "arangotui.log")
	KeybindsPath = filepath.Join(ConfigDir, "keybinds.json")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	return nil
}

// Config is the effective configuration. Zero values mean "not set" until
// defaults are applied.
type Config struct {
	Endpoint        string   `yaml:"endpoint" json:"endpoint"`
	GAE             string   `yaml:"gae" json:"gae"`
	Username        string   `yaml:"username" json:"username"`
	Password        string   `yaml:"password" json:"password"`
	PageSize        int      `yaml:"pageSize" json:"pageSize"`
	Timeout         Duration `yaml:"timeout" json:"timeout"`
	Insecure        *bool    `yaml:"insecure" json:"insecure"`
	CAFile          string   `yaml:"caFile" json:"caFile"`
	CertFile        string   `yaml:"certFile" json:"certFile"`
	KeyFile         string   `yaml:"keyFile" json:"keyFile"`
	LogLevel        string   `yaml:"logLevel" json:"logLevel"`
	History         *bool    `yaml:"history" json:"history"`
	QueryBatchSize  int      `yaml:"queryBatchSize" json:"queryBatchSize"`
	MaxQueryResults int      `yaml:"maxQueryResults" json:"maxQueryResults"`
	Concurrency     int      `yaml:"concurrency" json:"concurrency"`
}

// Duration is a time.Duration written as "10s" in config files
type Duration time.Duration

func (d *Duration) parse(s string) error {
	if s == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML accepts a duration string
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

// UnmarshalJSON accepts a duration string
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	return d.parse(s)
}

// MarshalYAML writes the duration string
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// MarshalJSON writes the duration string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default returns the built-in configuration
func Default() Config {
	insecure := true
	history := true
	return Config{
		Endpoint: DefaultEndpoint,
		Username: DefaultUsername,
		PageSize: DefaultPageSize,
		Timeout:  Duration(client.DefaultTimeout),
		Insecure: &insecure,
		LogLevel: "info",
		History:  &history,
	}
}

// Load reads a config file. An empty path probes ConfigDir; a missing file
// there is not an error and yields an empty Config.
func Load(path string) (Config, error) {
	if path == "" {
		for _, name := range configFiles {
			candidate := filepath.Join(ConfigDir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (use .yaml, .yml, .json or .jsonc)", filepath.Ext(path))
	}

	return cfg, nil
}

// Merge overlays every field set in other onto c
func (c Config) Merge(other Config) Config {
	if other.Endpoint != "" {
		c.Endpoint = other.Endpoint
	}
	if other.GAE != "" {
		c.GAE = other.GAE
	}
	if other.Username != "" {
		c.Username = other.Username
	}
	if other.Password != "" {
		c.Password = other.Password
	}
	if other.PageSize != 0 {
		c.PageSize = other.PageSize
	}
	if other.Timeout != 0 {
		c.Timeout = other.Timeout
	}
	if other.Insecure != nil {
		c.Insecure = other.Insecure
	}
	if other.CAFile != "" {
		c.CAFile = other.CAFile
	}
	if other.CertFile != "" {
		c.CertFile = other.CertFile
	}
	if other.KeyFile != "" {
		c.KeyFile = other.KeyFile
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.History != nil {
		c.History = other.History
	}
	if other.QueryBatchSize != 0 {
		c.QueryBatchSize = other.QueryBatchSize
	}
	if other.MaxQueryResults != 0 {
		c.MaxQueryResults = other.MaxQueryResults
	}
	if other.Concurrency != 0 {
		c.Concurrency = other.Concurrency
	}
	return c
}

// FromEnv reads the ARANGOTUI_* variables through lookup
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	if v, ok := lookup("ARANGOTUI_ENDPOINT"); ok {
		cfg.Endpoint = v
	}
	if v, ok := lookup("ARANGOTUI_GAE"); ok {
		cfg.GAE = v
	}
	if v, ok := lookup("ARANGOTUI_USERNAME"); ok {
		cfg.Username = v
	}
	if v, ok := lookup("ARANGOTUI_PASSWORD"); ok {
		cfg.Password = v
	}
	if v, ok := lookup("ARANGOTUI_PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("ARANGOTUI_PAGE_SIZE: %w", err)
		}
		cfg.PageSize = n
	}
	if v, ok := lookup("ARANGOTUI_TIMEOUT"); ok {
		if err := cfg.Timeout.parse(v); err != nil {
			return Config{}, fmt.Errorf("ARANGOTUI_TIMEOUT: %w", err)
		}
	}
	if v, ok := lookup("ARANGOTUI_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// Validate checks URL schemes, page size and timeout
func (c Config) Validate() error {
	var errs []error

	if err := checkURL("endpoint", c.Endpoint); err != nil {
		errs = append(errs, err)
	}
	if c.GAE != "" {
		if err := checkURL("gae", c.GAE); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Username == "" {
		errs = append(errs, fmt.Errorf("username is required"))
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("pageSize must be between 1 and %d, got %d", MaxPageSize, c.PageSize))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", time.Duration(c.Timeout)))
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		errs = append(errs, fmt.Errorf("certFile and keyFile must be set together"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logLevel must be debug, info, warn or error, got %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

func checkURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s: unsupported scheme %q (expected http or https)", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s: missing host in %q", field, raw)
	}
	return nil
}

// HistoryEnabled reports whether executed queries are stored
func (c Config) HistoryEnabled() bool {
	return c.History == nil || *c.History
}

// ClientEndpoint builds the immutable client endpoint
func (c Config) ClientEndpoint() client.Endpoint {
	return client.Endpoint{
		BaseURL:  c.Endpoint,
		GAEURL:   c.GAE,
		Username: c.Username,
		Password: c.Password,
		TLS: client.TLSOptions{
			InsecureSkipVerify: c.Insecure != nil && *c.Insecure,
			CAFile:             c.CAFile,
			CertFile:           c.CertFile,
			KeyFile:            c.KeyFile,
		},
		Timeout:         time.Duration(c.Timeout),
		QueryBatchSize:  c.QueryBatchSize,
		MaxQueryResults: c.MaxQueryResults,
		Concurrency:     c.Concurrency,
	}
}

// Redacted returns a copy safe to display
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "********"
	}
	return c
}
