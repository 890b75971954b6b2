package coverletter

import (
	"context"
	"fmt"
	"time"
)

// Poller defaults.
const (
	DefaultMaxAttempts  = 30
	DefaultPollInterval = 2 * time.Second
)

// PollOption configures a Poller.
type PollOption func(*Poller)

// WithMaxAttempts sets the number of status requests before giving up.
// Non-positive values keep the default.
func WithMaxAttempts(n int) PollOption {
	return func(p *Poller) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithInterval sets the delay between status requests.
// Negative values keep the default.
func WithInterval(d time.Duration) PollOption {
	return func(p *Poller) {
		if d >= 0 {
			p.interval = d
		}
	}
}

// WithStatusHandler sets a callback invoked after every status request,
// in attempt order, before any terminal outcome is returned.
func WithStatusHandler(h func(PollState)) PollOption {
	return func(p *Poller) { p.onStatus = h }
}

// WithPollObserver sets an Observer for poll attempts and the outcome.
func WithPollObserver(o Observer) PollOption {
	return func(p *Poller) { p.observer = o }
}

// WithSleepFunc replaces the function used to wait between attempts.
func WithSleepFunc(fn func(ctx context.Context, d time.Duration) error) PollOption {
	return func(p *Poller) { p.sleep = fn }
}

// Poller checks the status of a PDF export at a fixed cadence until the job
// reaches a terminal status or the attempt budget runs out. Transport errors
// from a status request are returned immediately; the only retry is the next
// status check.
type Poller struct {
	checker     StatusChecker
	maxAttempts int
	interval    time.Duration
	onStatus    func(PollState)
	observer    Observer
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewPoller creates a Poller for the given status checker.
func NewPoller(checker StatusChecker, opts ...PollOption) *Poller {
	p := &Poller{
		checker:     checker,
		maxAttempts: DefaultMaxAttempts,
		interval:    DefaultPollInterval,
		sleep:       sleepContext,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Wait polls until the export for coverLetterID completes. It returns an
// error wrapping ErrJobFailed on the failed status and ErrJobTimeout when
// every attempt saw a non-terminal status.
func (p *Poller) Wait(ctx context.Context, coverLetterID string) (PDFResult, error) {
	start := time.Now()
	state := PollState{CoverLetterID: coverLetterID, MaxAttempts: p.maxAttempts}
	res, err := p.wait(ctx, &state)
	if p.observer != nil {
		p.observer.PollFinished(state, err, time.Since(start))
	}
	return res, err
}

func (p *Poller) wait(ctx context.Context, state *PollState) (PDFResult, error) {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		status, err := p.checker.PDFStatus(ctx, state.CoverLetterID)
		if err != nil {
			return PDFResult{}, err
		}
		state.Attempt = attempt + 1
		state.Status = status.Status
		if p.observer != nil {
			p.observer.PollAttempt(*state)
		}
		if p.onStatus != nil {
			p.onStatus(*state)
		}

		switch status.Status {
		case JobCompleted:
			return PDFResult{PDFURL: status.PDFURL, DownloadURL: status.DownloadURL}, nil
		case JobFailed:
			return PDFResult{}, fmt.Errorf("cover letter %s: %w", state.CoverLetterID, ErrJobFailed)
		}

		if attempt < p.maxAttempts-1 {
			if err := p.sleep(ctx, p.interval); err != nil {
				return PDFResult{}, err
			}
		}
	}
	return PDFResult{}, fmt.Errorf("cover letter %s: still %s after %d attempts: %w",
		state.CoverLetterID, state.Status, p.maxAttempts, ErrJobTimeout)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
