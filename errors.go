package coverletter

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request or configuration failed validation.
	ErrValidation = errors.New("validation error")

	// ErrUnauthenticated indicates a missing or expired credential.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrBadResponseType indicates a non-SSE response where an event stream
	// was expected. Decoding never starts in this case.
	ErrBadResponseType = errors.New("unexpected response content type")

	// ErrRemoteGeneration indicates the server sent an explicit error event.
	// Use errors.As with *GenerationError to read the message.
	ErrRemoteGeneration = errors.New("generation failed")

	// ErrUnexpectedStreamEnd indicates the stream closed without an
	// identifier and without any content.
	ErrUnexpectedStreamEnd = errors.New("stream ended unexpectedly")

	// ErrJobFailed indicates the export job reported the failed status.
	ErrJobFailed = errors.New("pdf generation failed")

	// ErrJobTimeout indicates the poll budget ran out before a terminal status.
	ErrJobTimeout = errors.New("pdf generation timeout")

	// ErrJobNotReady indicates a download was attempted before the job completed.
	ErrJobNotReady = errors.New("pdf not ready yet")

	// ErrTransport indicates a generic network or HTTP failure.
	ErrTransport = errors.New("transport error")

	// ErrStreamNotReady indicates Result() was called before Next().
	ErrStreamNotReady = errors.New("stream not ready: call Next() first")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

// defaultGenerationMessage is used when an error event carries no message.
const defaultGenerationMessage = "Generation failed"

// GenerationError carries the message of an explicit error event.
type GenerationError struct {
	Message string
}

// NewGenerationError returns a GenerationError, substituting the default
// message when msg is empty.
func NewGenerationError(msg string) *GenerationError {
	if msg == "" {
		msg = defaultGenerationMessage
	}
	return &GenerationError{Message: msg}
}

func (e *GenerationError) Error() string { return e.Message }

// Unwrap returns ErrRemoteGeneration.
func (e *GenerationError) Unwrap() error { return ErrRemoteGeneration }

// APIError is a non-2xx response from the remote API.
// Kind is the sentinel the error unwraps to.
type APIError struct {
	StatusCode int
	Message    string
	Kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Unwrap returns the error kind: ErrUnauthenticated for 401, otherwise the
// Kind chosen by the caller, defaulting to ErrTransport.
func (e *APIError) Unwrap() error {
	if e.Kind != nil {
		return e.Kind
	}
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return ErrTransport
}
