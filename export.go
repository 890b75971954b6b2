package coverletter

import (
	"context"
	"fmt"
	"io"
)

// ExportPDF runs the server-side export pipeline for a generated letter:
// it queues the job, polls until completion, resolves the final download
// location and hands it to opener. The final location is returned.
func ExportPDF(ctx context.Context, svc PDFService, coverLetterID string, opener Opener, opts ...PollOption) (string, error) {
	if coverLetterID == "" {
		return "", fmt.Errorf("cover letter id is required: %w", ErrValidation)
	}
	if _, err := svc.QueuePDF(ctx, coverLetterID); err != nil {
		return "", fmt.Errorf("queue pdf: %w", err)
	}
	if _, err := NewPoller(svc, opts...).Wait(ctx, coverLetterID); err != nil {
		return "", err
	}
	url, err := svc.DownloadPDF(ctx, coverLetterID)
	if err != nil {
		return "", fmt.Errorf("download pdf: %w", err)
	}
	if opener != nil {
		if err := opener.Open(url); err != nil {
			return url, fmt.Errorf("open %s: %w", url, err)
		}
	}
	return url, nil
}

// Renderer writes letter content in an export format.
type Renderer interface {
	Render(w io.Writer, content string) error
}
