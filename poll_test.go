package coverletter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/coverletter"
	"github.com/fwojciec/coverletter/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSleep records every requested sleep without waiting.
func countingSleep(sleeps *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
}

func TestPoller_Wait(t *testing.T) {
	t.Parallel()

	t.Run("resolves on completed after exactly three requests", func(t *testing.T) {
		t.Parallel()
		var calls int
		var sleeps []time.Duration
		var seen []coverletter.JobStatus
		svc := &mock.PDFService{PDFStatusFn: mock.StatusSequence(&calls,
			coverletter.JobPending, coverletter.JobPending, coverletter.JobCompleted)}

		p := coverletter.NewPoller(svc,
			coverletter.WithMaxAttempts(5),
			coverletter.WithInterval(time.Second),
			coverletter.WithSleepFunc(countingSleep(&sleeps)),
			coverletter.WithStatusHandler(func(s coverletter.PollState) { seen = append(seen, s.Status) }),
		)
		res, err := p.Wait(context.Background(), "abc-1")
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []coverletter.JobStatus{coverletter.JobPending, coverletter.JobPending, coverletter.JobCompleted}, seen)
		assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeps)
		assert.Equal(t, "https://cdn.example.com/abc-1.pdf", res.PDFURL)
		assert.Equal(t, "/cover-letters/abc-1/pdf/download", res.DownloadURL)
	})

	t.Run("times out without sleeping after the last attempt", func(t *testing.T) {
		t.Parallel()
		var calls int
		var sleeps []time.Duration
		var seen []int
		svc := &mock.PDFService{PDFStatusFn: mock.StatusSequence(&calls, coverletter.JobProcessing)}

		p := coverletter.NewPoller(svc,
			coverletter.WithMaxAttempts(3),
			coverletter.WithSleepFunc(countingSleep(&sleeps)),
			coverletter.WithStatusHandler(func(s coverletter.PollState) { seen = append(seen, s.Attempt) }),
		)
		_, err := p.Wait(context.Background(), "abc-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, coverletter.ErrJobTimeout)
		assert.NotErrorIs(t, err, coverletter.ErrJobFailed)
		assert.Equal(t, 3, calls)
		assert.Len(t, sleeps, 2)
		assert.Equal(t, []int{1, 2, 3}, seen)
	})

	t.Run("fails immediately on failed status", func(t *testing.T) {
		t.Parallel()
		var calls int
		var seen []coverletter.JobStatus
		svc := &mock.PDFService{PDFStatusFn: mock.StatusSequence(&calls,
			coverletter.JobQueued, coverletter.JobFailed, coverletter.JobCompleted)}

		var sleeps []time.Duration
		p := coverletter.NewPoller(svc,
			coverletter.WithSleepFunc(countingSleep(&sleeps)),
			coverletter.WithStatusHandler(func(s coverletter.PollState) { seen = append(seen, s.Status) }),
		)
		_, err := p.Wait(context.Background(), "abc-1")
		assert.ErrorIs(t, err, coverletter.ErrJobFailed)
		assert.NotErrorIs(t, err, coverletter.ErrJobTimeout)
		assert.Equal(t, 2, calls)
		assert.Equal(t, []coverletter.JobStatus{coverletter.JobQueued, coverletter.JobFailed}, seen)
	})

	t.Run("propagates transport errors without retrying", func(t *testing.T) {
		t.Parallel()
		calls := 0
		transportErr := errors.New("connection reset")
		svc := &mock.PDFService{PDFStatusFn: func(context.Context, string) (coverletter.PDFStatus, error) {
			calls++
			return coverletter.PDFStatus{}, transportErr
		}}
		var sleeps []time.Duration
		p := coverletter.NewPoller(svc, coverletter.WithSleepFunc(countingSleep(&sleeps)))
		_, err := p.Wait(context.Background(), "abc-1")
		assert.ErrorIs(t, err, transportErr)
		assert.Equal(t, 1, calls)
		assert.Empty(t, sleeps)
	})

	t.Run("uses defaults", func(t *testing.T) {
		t.Parallel()
		var calls int
		var sleeps []time.Duration
		svc := &mock.PDFService{PDFStatusFn: mock.StatusSequence(&calls, coverletter.JobPending)}
		p := coverletter.NewPoller(svc,
			coverletter.WithMaxAttempts(0),
			coverletter.WithInterval(-time.Second),
			coverletter.WithSleepFunc(countingSleep(&sleeps)),
		)
		_, err := p.Wait(context.Background(), "abc-1")
		assert.ErrorIs(t, err, coverletter.ErrJobTimeout)
		assert.Equal(t, coverletter.DefaultMaxAttempts, calls)
		require.Len(t, sleeps, coverletter.DefaultMaxAttempts-1)
		assert.Equal(t, coverletter.DefaultPollInterval, sleeps[0])
	})

	t.Run("stops when context is cancelled between attempts", func(t *testing.T) {
		t.Parallel()
		var calls int
		svc := &mock.PDFService{PDFStatusFn: mock.StatusSequence(&calls, coverletter.JobPending)}
		ctx, cancel := context.WithCancel(context.Background())
		p := coverletter.NewPoller(svc,
			coverletter.WithInterval(time.Hour),
			coverletter.WithStatusHandler(func(coverletter.PollState) { cancel() }),
		)
		_, err := p.Wait(ctx, "abc-1")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("reports attempts and outcome to observer", func(t *testing.T) {
		t.Parallel()
		var calls int
		var sleeps []time.Duration
		svc := &mock.PDFService{PDFStatusFn: mock.StatusSequence(&calls, coverletter.JobPending, coverletter.JobCompleted)}
		obs := &mock.Observer{}
		p := coverletter.NewPoller(svc,
			coverletter.WithSleepFunc(countingSleep(&sleeps)),
			coverletter.WithPollObserver(obs),
		)
		_, err := p.Wait(context.Background(), "abc-1")
		require.NoError(t, err)
		require.Len(t, obs.Attempts, 2)
		assert.Equal(t, coverletter.PollState{
			CoverLetterID: "abc-1", Status: coverletter.JobCompleted, Attempt: 2, MaxAttempts: coverletter.DefaultMaxAttempts,
		}, obs.Attempts[1])
		assert.Equal(t, []error{nil}, obs.PollEnds)
		assert.Equal(t, coverletter.JobCompleted, obs.LastState.Status)
	})
}

func TestJobStatus_IsTerminal(t *testing.T) {
	t.Parallel()
	assert.True(t, coverletter.JobCompleted.IsTerminal())
	assert.True(t, coverletter.JobFailed.IsTerminal())
	assert.False(t, coverletter.JobQueued.IsTerminal())
	assert.False(t, coverletter.JobPending.IsTerminal())
	assert.False(t, coverletter.JobProcessing.IsTerminal())
	assert.False(t, coverletter.JobStatus("unknown").IsTerminal())
}
