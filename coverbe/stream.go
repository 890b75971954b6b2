package coverbe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fwojciec/coverletter"
	"github.com/fwojciec/coverletter/sse"
	"github.com/rs/zerolog"
)

// stream implements [coverletter.Stream] over a generation response body.
type stream struct {
	body            io.ReadCloser
	cancel          context.CancelFunc
	dec             *sse.Decoder
	logger          zerolog.Logger
	requireComplete bool

	state   coverletter.StreamState
	id      string
	content strings.Builder
	err     error // terminal error, if any

	releaseOnce sync.Once
	releaseErr  error
}

// Interface compliance check.
var _ coverletter.Stream = (*stream)(nil)

func newStream(body io.ReadCloser, cancel context.CancelFunc, logger zerolog.Logger, requireComplete bool) *stream {
	return &stream{
		body:            body,
		cancel:          cancel,
		dec:             sse.NewDecoder(body),
		logger:          logger,
		requireComplete: requireComplete,
		state:           coverletter.StreamStateNew,
	}
}

// Next reads the next semantic event. It returns io.EOF once the server
// closes the stream and the result passed validation.
func (s *stream) Next() (coverletter.Event, error) {
	switch s.state {
	case coverletter.StreamStateComplete:
		return nil, io.EOF
	case coverletter.StreamStateError:
		return nil, s.err
	case coverletter.StreamStateClosed:
		return nil, fmt.Errorf("coverbe: %w", coverletter.ErrStreamClosed)
	}

	for {
		msg, err := s.dec.Next()
		if err == io.EOF {
			return nil, s.finish()
		}
		if err != nil {
			return nil, s.fail(fmt.Errorf("coverbe: %w: %w", coverletter.ErrTransport, err))
		}

		s.state = coverletter.StreamStateStreaming

		evt, err := s.dispatch(msg)
		if err != nil {
			return nil, s.fail(err)
		}
		if evt != nil {
			return evt, nil
		}
	}
}

// dispatch maps one decoded message to an event. It returns a nil event for
// messages that carry nothing for the caller.
func (s *stream) dispatch(msg coverletter.StreamMessage) (coverletter.Event, error) {
	if msg.Data == "" {
		return nil, nil
	}
	switch msg.Event {
	case coverletter.EventNameComplete:
		var p sseComplete
		if err := json.Unmarshal([]byte(msg.Data), &p); err != nil {
			s.logger.Warn().Err(err).Msg("ignoring malformed complete event")
			return nil, nil
		}
		if p.CoverLetterID == "" {
			s.logger.Warn().Msg("complete event without cover_letter_id")
			return nil, nil
		}
		s.id = p.CoverLetterID
		return coverletter.EventComplete{CoverLetterID: p.CoverLetterID}, nil
	case coverletter.EventNameError:
		var p sseError
		_ = json.Unmarshal([]byte(msg.Data), &p) // malformed payload falls back to the default message
		return nil, fmt.Errorf("coverbe: %w", coverletter.NewGenerationError(p.Error))
	case "":
		text := decodeChunk(msg.Data)
		s.content.WriteString(text)
		return coverletter.EventContentDelta{Delta: text, Content: s.content.String()}, nil
	default:
		s.logger.Debug().Str("event", msg.Event).Msg("ignoring unknown event")
		return nil, nil
	}
}

// decodeChunk decodes a JSON string payload, keeping the raw data when it is
// not one.
func decodeChunk(data string) string {
	var v any
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return data
	}
	text, ok := v.(string)
	if !ok {
		return data
	}
	return text
}

// finish validates the result once the server has closed the stream.
func (s *stream) finish() error {
	switch {
	case s.id == "" && s.content.Len() == 0:
		return s.fail(fmt.Errorf("coverbe: %w", coverletter.ErrUnexpectedStreamEnd))
	case s.id == "" && s.requireComplete:
		return s.fail(fmt.Errorf("coverbe: no complete event after %d bytes of content: %w",
			s.content.Len(), coverletter.ErrUnexpectedStreamEnd))
	case s.id == "":
		s.logger.Warn().Int("content_bytes", s.content.Len()).Msg("stream ended without complete event")
	}
	s.state = coverletter.StreamStateComplete
	s.logger.Debug().Str("cover_letter_id", s.id).Int("content_bytes", s.content.Len()).Msg("stream complete")
	_ = s.release()
	return io.EOF
}

// fail records a terminal error and releases the connection so the server
// stops producing.
func (s *stream) fail(err error) error {
	s.state = coverletter.StreamStateError
	s.err = err
	_ = s.release()
	return err
}

// State returns the current stream state.
func (s *stream) State() coverletter.StreamState {
	return s.state
}

// Result returns the identifier and the content accumulated so far.
func (s *stream) Result() (coverletter.GenerationResult, error) {
	if s.state == coverletter.StreamStateNew {
		return coverletter.GenerationResult{}, fmt.Errorf("coverbe: %w", coverletter.ErrStreamNotReady)
	}
	return coverletter.GenerationResult{CoverLetterID: s.id, Content: s.content.String()}, nil
}

// Close cancels the request and closes the response body.
func (s *stream) Close() error {
	if s.state != coverletter.StreamStateComplete && s.state != coverletter.StreamStateError {
		s.state = coverletter.StreamStateClosed
	}
	return s.release()
}

func (s *stream) release() error {
	s.releaseOnce.Do(func() {
		s.cancel()
		s.releaseErr = s.body.Close()
	})
	return s.releaseErr
}
