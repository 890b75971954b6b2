package mock

import (
	"context"

	"github.com/fwojciec/coverletter"
)

// Interface compliance checks.
var (
	_ coverletter.PDFService    = (*PDFService)(nil)
	_ coverletter.StatusChecker = (*PDFService)(nil)
	_ coverletter.Opener        = (*Opener)(nil)
)

// PDFService is a test double for coverletter.PDFService.
type PDFService struct {
	QueuePDFFn    func(ctx context.Context, id string) (coverletter.QueueResult, error)
	PDFStatusFn   func(ctx context.Context, id string) (coverletter.PDFStatus, error)
	DownloadPDFFn func(ctx context.Context, id string) (string, error)
}

// QueuePDF delegates to QueuePDFFn.
func (s *PDFService) QueuePDF(ctx context.Context, id string) (coverletter.QueueResult, error) {
	return s.QueuePDFFn(ctx, id)
}

// PDFStatus delegates to PDFStatusFn.
func (s *PDFService) PDFStatus(ctx context.Context, id string) (coverletter.PDFStatus, error) {
	return s.PDFStatusFn(ctx, id)
}

// DownloadPDF delegates to DownloadPDFFn.
func (s *PDFService) DownloadPDF(ctx context.Context, id string) (string, error) {
	return s.DownloadPDFFn(ctx, id)
}

// StatusSequence returns a PDFStatusFn that reports the given statuses in
// order and counts calls in *calls. Calls past the end repeat the last status.
func StatusSequence(calls *int, statuses ...coverletter.JobStatus) func(context.Context, string) (coverletter.PDFStatus, error) {
	return func(_ context.Context, id string) (coverletter.PDFStatus, error) {
		i := *calls
		*calls++
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		st := coverletter.PDFStatus{Status: statuses[i], CoverLetterID: id}
		if st.Status == coverletter.JobCompleted {
			st.PDFURL = "https://cdn.example.com/" + id + ".pdf"
			st.DownloadURL = "/cover-letters/" + id + "/pdf/download"
		}
		return st, nil
	}
}

// Opener is a test double for coverletter.Opener.
type Opener struct {
	OpenFn func(url string) error
}

// Open delegates to OpenFn.
func (o *Opener) Open(url string) error {
	return o.OpenFn(url)
}
