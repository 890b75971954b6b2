// Package yaml loads the client configuration from a YAML file.
//
// Values may reference the environment as ${VAR} or ${VAR:-default}.
// Anything the file leaves out keeps its default.
package yaml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fwojciec/coverletter"
	"gopkg.in/yaml.v3"
)

// Token store backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config is the client configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Auth       AuthConfig       `yaml:"auth"`
	Redis      RedisConfig      `yaml:"redis"`
	Generation GenerationConfig `yaml:"generation"`
	Poll       PollConfig       `yaml:"poll"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Export     ExportConfig     `yaml:"export"`
}

// APIConfig locates the remote API.
type APIConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"` // per request, excluding generation streams
}

// AuthConfig selects where credentials are kept.
type AuthConfig struct {
	Store string `yaml:"store"` // file or redis
	Path  string `yaml:"path"`  // file store location
}

// RedisConfig configures the redis token store.
type RedisConfig struct {
	URL string   `yaml:"url"`
	Key string   `yaml:"key"`
	TTL Duration `yaml:"ttl"`
}

// GenerationConfig tunes cover-letter generation.
type GenerationConfig struct {
	// RequireComplete fails a stream that delivered content but never sent
	// a complete event.
	RequireComplete bool `yaml:"require_complete"`
	HumanScale      int  `yaml:"human_scale"`
}

// PollConfig tunes PDF status polling.
type PollConfig struct {
	MaxAttempts int      `yaml:"max_attempts"`
	Interval    Duration `yaml:"interval"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty disables metrics
}

// ExportConfig configures local text and HTML export.
type ExportConfig struct {
	Dir       string `yaml:"dir"`
	Width     int    `yaml:"width"`
	Margin    int    `yaml:"margin"`
	Signature string `yaml:"signature"`
	Date      bool   `yaml:"date"`
	Open      bool   `yaml:"open"` // open finished PDFs in the browser
}

// Duration wraps time.Duration for YAML string parsing (e.g. "2s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "1m30s".
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML writes the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Dir returns the directory holding the config file and local state.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "coverletter")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://coverbe.onrender.com/api/v1",
			Timeout: Duration{30 * time.Second},
		},
		Auth: AuthConfig{
			Store: StoreFile,
			Path:  filepath.Join(Dir(), "credentials.json"),
		},
		Redis: RedisConfig{Key: "coverletter:credentials"},
		Poll: PollConfig{
			MaxAttempts: coverletter.DefaultMaxAttempts,
			Interval:    Duration{coverletter.DefaultPollInterval},
		},
		Log: LogConfig{Level: "info", Format: "console"},
		Export: ExportConfig{
			Dir:       ".",
			Width:     80,
			Margin:    4,
			Signature: "Sincerely,",
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. The returned error wraps fs.ErrNotExist when the file is missing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	logFormats = []string{"console", "json"}
)

// Validate reports every invalid setting. The error wraps
// [coverletter.ErrValidation].
func (c Config) Validate() error {
	var errs []error
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be >= 0, got %s", c.API.Timeout))
	}
	switch c.Auth.Store {
	case StoreFile:
		if c.Auth.Path == "" {
			errs = append(errs, errors.New("auth.path is required for the file store"))
		}
	case StoreRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("redis.url is required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("auth.store must be %q or %q, got %q", StoreFile, StoreRedis, c.Auth.Store))
	}
	if c.Redis.TTL.Duration < 0 {
		errs = append(errs, fmt.Errorf("redis.ttl must be >= 0, got %s", c.Redis.TTL))
	}
	if c.Generation.HumanScale < 0 {
		errs = append(errs, fmt.Errorf("generation.human_scale must be >= 0, got %d", c.Generation.HumanScale))
	}
	if c.Poll.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("poll.max_attempts must be > 0, got %d", c.Poll.MaxAttempts))
	}
	if c.Poll.Interval.Duration < 0 {
		errs = append(errs, fmt.Errorf("poll.interval must be >= 0, got %s", c.Poll.Interval))
	}
	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of %v, got %q", logLevels, c.Log.Level))
	}
	if !slices.Contains(logFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format must be one of %v, got %q", logFormats, c.Log.Format))
	}
	if c.Export.Margin < 0 {
		errs = append(errs, fmt.Errorf("export.margin must be >= 0, got %d", c.Export.Margin))
	}
	if c.Export.Width-2*c.Export.Margin < 20 {
		errs = append(errs, fmt.Errorf("export.width %d leaves fewer than 20 columns inside margin %d", c.Export.Width, c.Export.Margin))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w: %w", coverletter.ErrValidation, errors.Join(errs...))
	}
	return nil
}
