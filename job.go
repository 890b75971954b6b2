package coverletter

import "context"

// JobStatus is the lifecycle status of an asynchronous PDF export job.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further transition occurs from s.
// Unrecognized values are treated as still in progress.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// PDFStatus is the response of a status check.
type PDFStatus struct {
	Status        JobStatus
	CoverLetterID string
	PDFURL        string
	DownloadURL   string
}

// PDFResult holds the artifact locations of a completed export.
type PDFResult struct {
	PDFURL      string
	DownloadURL string
}

// PollState is the state of a single poller invocation after an attempt.
// Attempt is 1-based.
type PollState struct {
	CoverLetterID string
	Status        JobStatus
	Attempt       int
	MaxAttempts   int
}

// QueueResult is the response of a PDF generation request.
type QueueResult struct {
	Message       string
	CoverLetterID string
}

// StatusChecker issues one PDF status request.
type StatusChecker interface {
	PDFStatus(ctx context.Context, coverLetterID string) (PDFStatus, error)
}

// PDFService covers the export pipeline of the remote API.
type PDFService interface {
	StatusChecker
	QueuePDF(ctx context.Context, coverLetterID string) (QueueResult, error)
	// DownloadPDF resolves the final artifact location, following redirects.
	// It returns an error wrapping ErrJobNotReady when the server reports
	// that the export has not completed.
	DownloadPDF(ctx context.Context, coverLetterID string) (string, error)
}

// Opener hands a final artifact location to the caller's environment.
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

// Open calls f(url).
func (f OpenerFunc) Open(url string) error { return f(url) }
