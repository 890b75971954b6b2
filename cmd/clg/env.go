package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/fwojciec/coverletter"
	"github.com/fwojciec/coverletter/coverbe"
	cljson "github.com/fwojciec/coverletter/json"
	clprom "github.com/fwojciec/coverletter/prometheus"
	clredis "github.com/fwojciec/coverletter/redis"
	clyaml "github.com/fwojciec/coverletter/yaml"
	clzerolog "github.com/fwojciec/coverletter/zerolog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

// env holds the collaborators shared by every command.
type env struct {
	cfg      clyaml.Config
	log      zerolog.Logger
	store    coverletter.TokenStore
	client   *coverbe.Client
	observer coverletter.Observer
	theme    coverletter.Theme
	out      io.Writer
	errOut   io.Writer
	now      func() time.Time

	registry *prometheus.Registry
	closers  []func() error
}

// withEnv builds the environment, runs fn and tears the environment down.
func withEnv(fn func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := newEnv(c)
		if err != nil {
			return err
		}
		runErr := fn(c, e)
		if err := e.close(); err != nil {
			e.log.Warn().Err(err).Msg("shutdown")
		}
		return runErr
	}
}

func newEnv(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if v := c.String("base-url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.Log.Level = v
	}

	log, err := clzerolog.New(c.App.ErrWriter, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		log:    log,
		theme:  coverletter.DefaultTheme(),
		out:    c.App.Writer,
		errOut: c.App.ErrWriter,
		now:    time.Now,
	}

	switch cfg.Auth.Store {
	case clyaml.StoreRedis:
		rs, err := clredis.New(clredis.Config{URL: cfg.Redis.URL, Key: cfg.Redis.Key, TTL: cfg.Redis.TTL.Duration})
		if err != nil {
			return nil, err
		}
		e.store = rs
		e.closers = append(e.closers, rs.Close)
	default:
		e.store = cljson.NewTokenStore(cfg.Auth.Path)
	}

	observers := []coverletter.Observer{clzerolog.NewObserver(log)}
	if cfg.Metrics.Textfile != "" {
		e.registry = prometheus.NewRegistry()
		po, err := clprom.NewObserver(e.registry)
		if err != nil {
			return nil, err
		}
		observers = append(observers, po)
	}
	e.observer = coverletter.Observers(observers...)

	e.client = coverbe.New(
		coverbe.WithBaseURL(cfg.API.BaseURL),
		coverbe.WithHTTPClient(&http.Client{}),
		coverbe.WithTokenSource(coverletter.StoreTokenSource{Store: e.store, Now: e.now}),
		coverbe.WithLogger(log),
		coverbe.WithRequireComplete(cfg.Generation.RequireComplete),
	)
	return e, nil
}

// loadConfig reads path, or the default location when path is empty.
// A missing default file yields the defaults.
func loadConfig(path string) (clyaml.Config, error) {
	explicit := path != ""
	if !explicit {
		path = clyaml.DefaultPath()
	}
	cfg, err := clyaml.Load(path)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return clyaml.Default(), nil
	default:
		return clyaml.Config{}, fmt.Errorf("load config: %w", err)
	}
}

// requestContext bounds a single non-streaming API call.
func (e *env) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := e.cfg.API.Timeout.Duration; d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

func (e *env) pollOptions() []coverletter.PollOption {
	return []coverletter.PollOption{
		coverletter.WithMaxAttempts(e.cfg.Poll.MaxAttempts),
		coverletter.WithInterval(e.cfg.Poll.Interval.Duration),
		coverletter.WithPollObserver(e.observer),
	}
}

func (e *env) close() error {
	var errs []error
	if e.registry != nil {
		errs = append(errs, clprom.WriteTextfile(e.cfg.Metrics.Textfile, e.registry))
	}
	for _, fn := range e.closers {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// exitCode maps error kinds to process exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, coverletter.ErrValidation):
		return 2
	case errors.Is(err, coverletter.ErrUnauthenticated):
		return 3
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}
