package coverletter

import (
	"context"
	"io"
	"time"
)

// GenerateOption configures a single Generate invocation.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	onChunk  func(delta, content string)
	observer Observer
}

// WithChunkHandler sets a callback that receives every content chunk in
// arrival order, along with the content accumulated so far. It is called
// synchronously on the goroutine running Generate.
func WithChunkHandler(h func(delta, content string)) GenerateOption {
	return func(c *generateConfig) {
		c.onChunk = h
	}
}

// WithGenerateObserver sets an Observer for the stream lifecycle.
func WithGenerateObserver(o Observer) GenerateOption {
	return func(c *generateConfig) {
		c.observer = o
	}
}

// Generate starts a generation, drains the stream and returns the result.
// On failure the returned result holds whatever content arrived before the
// error, so callers can keep it.
func Generate(ctx context.Context, g Generator, req GenerateRequest, opts ...GenerateOption) (GenerationResult, error) {
	var cfg generateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := req.Validate(); err != nil {
		return GenerationResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return GenerationResult{}, err
	}

	start := time.Now()
	res, err := drain(ctx, g, req, &cfg)
	if cfg.observer != nil {
		cfg.observer.StreamFinished(res, err, time.Since(start))
	}
	return res, err
}

func drain(ctx context.Context, g Generator, req GenerateRequest, cfg *generateConfig) (GenerationResult, error) {
	stream, err := g.Generate(ctx, req)
	if err != nil {
		return GenerationResult{}, err
	}
	defer stream.Close()

	var streamErr error
	for {
		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		if delta, ok := evt.(EventContentDelta); ok {
			if cfg.observer != nil {
				cfg.observer.ChunkReceived(delta.Delta)
			}
			if cfg.onChunk != nil {
				cfg.onChunk(delta.Delta, delta.Content)
			}
		}
	}

	// The assembled result is partial when the stream failed.
	res, resErr := stream.Result()
	if streamErr != nil {
		return res, streamErr
	}
	if resErr != nil {
		return GenerationResult{}, resErr
	}
	return res, nil
}
