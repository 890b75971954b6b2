// Package prometheus records generation and PDF polling metrics through a
// [coverletter.Observer].
package prometheus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/coverletter"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coverletter"

// Interface compliance check.
var _ coverletter.Observer = (*Observer)(nil)

// Observer counts stream and poll events.
type Observer struct {
	chunks         prometheus.Counter
	chunkBytes     prometheus.Counter
	generations    *prometheus.CounterVec
	generationTime prometheus.Histogram
	pollAttempts   *prometheus.CounterVec
	polls          *prometheus.CounterVec
	pollTime       prometheus.Histogram
}

// NewObserver creates the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_total",
			Help:      "Content chunks received from generation streams.",
		}),
		chunkBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunk_bytes_total",
			Help:      "Bytes of content received from generation streams.",
		}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Finished generations by outcome.",
		}, []string{"outcome"}),
		generationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Generation stream duration.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		}),
		pollAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_poll_attempts_total",
			Help:      "PDF status checks by reported status.",
		}, []string{"status"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_polls_total",
			Help:      "Finished PDF polls by outcome.",
		}, []string{"outcome"}),
		pollTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pdf_poll_duration_seconds",
			Help:      "Time from first status check to a terminal outcome.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}),
	}
	for _, c := range []prometheus.Collector{
		o.chunks, o.chunkBytes, o.generations, o.generationTime,
		o.pollAttempts, o.polls, o.pollTime,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("prometheus: %w", err)
		}
	}
	return o, nil
}

// ChunkReceived counts one content chunk.
func (o *Observer) ChunkReceived(delta string) {
	o.chunks.Inc()
	o.chunkBytes.Add(float64(len(delta)))
}

// StreamFinished records the outcome and duration of a generation.
func (o *Observer) StreamFinished(_ coverletter.GenerationResult, err error, elapsed time.Duration) {
	o.generations.WithLabelValues(outcome(err)).Inc()
	o.generationTime.Observe(elapsed.Seconds())
}

// PollAttempt counts one status check.
func (o *Observer) PollAttempt(state coverletter.PollState) {
	o.pollAttempts.WithLabelValues(norm(string(state.Status))).Inc()
}

// PollFinished records the outcome and duration of a poll.
func (o *Observer) PollFinished(_ coverletter.PollState, err error, elapsed time.Duration) {
	o.polls.WithLabelValues(outcome(err)).Inc()
	o.pollTime.Observe(elapsed.Seconds())
}

// outcome maps an error to a low-cardinality label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, coverletter.ErrRemoteGeneration):
		return "remote_error"
	case errors.Is(err, coverletter.ErrUnexpectedStreamEnd):
		return "unexpected_end"
	case errors.Is(err, coverletter.ErrJobFailed):
		return "job_failed"
	case errors.Is(err, coverletter.ErrJobTimeout):
		return "timeout"
	case errors.Is(err, coverletter.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, coverletter.ErrTransport):
		return "transport"
	default:
		return "other"
	}
}

// norm keeps label values bounded.
func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch coverletter.JobStatus(s) {
	case coverletter.JobQueued, coverletter.JobPending, coverletter.JobProcessing,
		coverletter.JobCompleted, coverletter.JobFailed:
		return s
	}
	return "unknown"
}

// WriteTextfile writes every metric from g to path in the text exposition
// format, for pickup by a node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("prometheus: %w", err)
	}
	return nil
}
