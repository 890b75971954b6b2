package coverletter

import "context"

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving chunks.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// GenerationResult is the terminal value of a generation stream.
// CoverLetterID is set only by a complete event. Content is every content
// chunk concatenated in arrival order.
type GenerationResult struct {
	CoverLetterID string
	Content       string
}

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Generator.Generate().
//
// Result() returns the assembled GenerationResult. Behavior by stream state:
//   - StreamStateComplete: complete result, nil error.
//   - StreamStateError: partial result, nil error. Content holds every chunk
//     received before the failure.
//   - StreamStateStreaming: partial result, nil error.
//   - StreamStateNew: zero-value result, ErrStreamNotReady.
//   - StreamStateClosed: partial result. Subsequent Next() calls return
//     ErrStreamClosed.
//
// Close() cancels the in-flight request before releasing the response body,
// so the server stops producing. It is safe to call more than once.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Result() (GenerationResult, error)
	Close() error
}

// Generator starts a streaming cover-letter generation.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (Stream, error)
}
