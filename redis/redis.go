// Package redis implements [coverletter.TokenStore] on Redis.
//
// Credentials are stored under a single key in the same versioned JSON
// envelope the file store writes, so the two stores are interchangeable.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fwojciec/coverletter"
	cljson "github.com/fwojciec/coverletter/json"
)

// DefaultKey is the key credentials are stored under.
const DefaultKey = "coverletter:credentials"

// DefaultTimeout is the default per-command timeout.
const DefaultTimeout = 5 * time.Second

// Config configures the Redis token store.
type Config struct {
	// URL is the Redis connection URL (required).
	// Format: redis://[:password@]host:port[/db]
	URL string
	// Key is the key credentials are stored under (default: coverletter:credentials).
	Key string
	// TTL expires the stored credentials. Zero keeps them until cleared.
	TTL time.Duration
	// Timeout is the per-command timeout (default 5s).
	Timeout time.Duration
}

// Interface compliance check.
var _ coverletter.TokenStore = (*TokenStore)(nil)

// TokenStore keeps credentials in Redis.
type TokenStore struct {
	config Config
	client *goredis.Client
}

// New creates a TokenStore from the given config.
// Returns an error if the URL is empty or invalid.
func New(cfg Config) (*TokenStore, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis token store requires a URL")
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis token store: invalid URL: %w", err)
	}
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("ttl must be >= 0, got %s", cfg.TTL)
	}
	return &TokenStore{config: cfg, client: goredis.NewClient(opts)}, nil
}

// Load reads the stored credentials. A missing key is reported as
// [coverletter.ErrUnauthenticated].
func (s *TokenStore) Load(ctx context.Context) (coverletter.Credentials, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.config.Key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return coverletter.Credentials{}, fmt.Errorf("redis: no credentials at %s: %w", s.config.Key, coverletter.ErrUnauthenticated)
	}
	if err != nil {
		return coverletter.Credentials{}, fmt.Errorf("redis: get %s: %w", s.config.Key, err)
	}
	creds, err := cljson.UnmarshalCredentials(data)
	if err != nil {
		return coverletter.Credentials{}, fmt.Errorf("redis: %w", err)
	}
	return creds, nil
}

// Save replaces the stored credentials.
func (s *TokenStore) Save(ctx context.Context, c coverletter.Credentials) error {
	data, err := cljson.MarshalCredentials(c)
	if err != nil {
		return fmt.Errorf("redis: marshal: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	if err := s.client.Set(ctx, s.config.Key, data, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", s.config.Key, err)
	}
	return nil
}

// Clear removes the stored credentials.
func (s *TokenStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	if err := s.client.Del(ctx, s.config.Key).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", s.config.Key, err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (s *TokenStore) Close() error {
	return s.client.Close()
}
