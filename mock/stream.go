package mock

import (
	"io"

	"github.com/fwojciec/coverletter"
)

// Interface compliance check.
var _ coverletter.Stream = (*Stream)(nil)

// Stream is a test double for coverletter.Stream.
// Set the function fields for the methods you need. NextFn and ResultFn
// panic when nil to catch missing setup. CloseFn and StateFn are nil-safe
// (no-op and zero value) because test code commonly calls defer stream.Close()
// and these methods rarely need custom behavior.
type Stream struct {
	NextFn   func() (coverletter.Event, error)
	StateFn  func() coverletter.StreamState
	ResultFn func() (coverletter.GenerationResult, error)
	CloseFn  func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (coverletter.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() coverletter.StreamState {
	if s.StateFn == nil {
		return coverletter.StreamStateNew
	}
	return s.StateFn()
}

// Result delegates to ResultFn.
func (s *Stream) Result() (coverletter.GenerationResult, error) {
	return s.ResultFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// EventStream returns a Stream that yields events in order and then io.EOF,
// or err in place of io.EOF when err is non-nil. Result reports res.
func EventStream(res coverletter.GenerationResult, err error, events ...coverletter.Event) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (coverletter.Event, error) {
			if i < len(events) {
				evt := events[i]
				i++
				return evt, nil
			}
			if err != nil {
				return nil, err
			}
			return nil, io.EOF
		},
		ResultFn: func() (coverletter.GenerationResult, error) {
			return res, nil
		},
	}
}
