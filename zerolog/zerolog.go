// Package zerolog builds the client's logger and logs generation and polling
// lifecycle events through a [coverletter.Observer].
package zerolog

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/coverletter"
	"github.com/rs/zerolog"
)

// New returns a logger writing to w. Level is a zerolog level name
// ("trace" ... "disabled"); format is "console" or "json".
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("zerolog: %w", err)
	}
	switch strings.ToLower(format) {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json", "":
	default:
		return zerolog.Nop(), fmt.Errorf("zerolog: unknown format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Interface compliance check.
var _ coverletter.Observer = (*Observer)(nil)

// Observer logs stream and poll lifecycle events.
type Observer struct {
	logger zerolog.Logger
}

// NewObserver returns an Observer logging to l.
func NewObserver(l zerolog.Logger) *Observer {
	return &Observer{logger: l}
}

// ChunkReceived logs each content chunk at trace level.
func (o *Observer) ChunkReceived(delta string) {
	o.logger.Trace().Int("bytes", len(delta)).Msg("chunk received")
}

// StreamFinished logs the outcome of a generation.
func (o *Observer) StreamFinished(res coverletter.GenerationResult, err error, elapsed time.Duration) {
	evt := o.logger.Info()
	msg := "generation finished"
	if err != nil {
		evt = o.logger.Error().Err(err)
		msg = "generation failed"
	}
	evt.Str("cover_letter_id", res.CoverLetterID).
		Int("content_bytes", len(res.Content)).
		Dur("elapsed", elapsed).
		Msg(msg)
}

// PollAttempt logs one status check at debug level.
func (o *Observer) PollAttempt(state coverletter.PollState) {
	o.logger.Debug().
		Str("cover_letter_id", state.CoverLetterID).
		Str("status", string(state.Status)).
		Int("attempt", state.Attempt).
		Int("max_attempts", state.MaxAttempts).
		Msg("pdf status")
}

// PollFinished logs the outcome of a poll.
func (o *Observer) PollFinished(state coverletter.PollState, err error, elapsed time.Duration) {
	evt := o.logger.Info()
	msg := "pdf ready"
	if err != nil {
		evt = o.logger.Warn().Err(err)
		msg = "pdf not ready"
	}
	evt.Str("cover_letter_id", state.CoverLetterID).
		Str("status", string(state.Status)).
		Int("attempts", state.Attempt).
		Dur("elapsed", elapsed).
		Msg(msg)
}
