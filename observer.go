package coverletter

import "time"

// Observer receives lifecycle notifications from generation and polling.
// Implementations must not block; they run on the caller's goroutine.
type Observer interface {
	ChunkReceived(delta string)
	StreamFinished(res GenerationResult, err error, elapsed time.Duration)
	PollAttempt(state PollState)
	PollFinished(state PollState, err error, elapsed time.Duration)
}

// Observers fans notifications out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) ChunkReceived(delta string) {
	for _, o := range m {
		o.ChunkReceived(delta)
	}
}

func (m multiObserver) StreamFinished(res GenerationResult, err error, elapsed time.Duration) {
	for _, o := range m {
		o.StreamFinished(res, err, elapsed)
	}
}

func (m multiObserver) PollAttempt(state PollState) {
	for _, o := range m {
		o.PollAttempt(state)
	}
}

func (m multiObserver) PollFinished(state PollState, err error, elapsed time.Duration) {
	for _, o := range m {
		o.PollFinished(state, err, elapsed)
	}
}
