package mock

import (
	"sync"
	"time"

	"github.com/fwojciec/coverletter"
)

// Interface compliance check.
var _ coverletter.Observer = (*Observer)(nil)

// Observer records every notification it receives.
type Observer struct {
	mu        sync.Mutex
	Chunks    []string
	Streams   []error
	Attempts  []coverletter.PollState
	PollEnds  []error
	LastState coverletter.PollState
}

// ChunkReceived records delta.
func (o *Observer) ChunkReceived(delta string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Chunks = append(o.Chunks, delta)
}

// StreamFinished records err.
func (o *Observer) StreamFinished(_ coverletter.GenerationResult, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Streams = append(o.Streams, err)
}

// PollAttempt records state.
func (o *Observer) PollAttempt(state coverletter.PollState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Attempts = append(o.Attempts, state)
}

// PollFinished records err and the final state.
func (o *Observer) PollFinished(state coverletter.PollState, err error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.PollEnds = append(o.PollEnds, err)
	o.LastState = state
}
