package coverbe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fwojciec/coverletter"
)

func letterPath(id string, suffix string) string {
	return lettersPath + "/" + url.PathEscape(id) + suffix
}

// QueuePDF asks the server to start exporting a letter to PDF.
func (c *Client) QueuePDF(ctx context.Context, id string) (coverletter.QueueResult, error) {
	var resp apiQueueResponse
	if err := c.doJSON(ctx, http.MethodPost, letterPath(id, "/pdf"), nil, &resp, true, "Failed to queue PDF generation"); err != nil {
		return coverletter.QueueResult{}, err
	}
	return coverletter.QueueResult{Message: resp.Message, CoverLetterID: resp.CoverLetterID}, nil
}

// PDFStatus issues one status request for a letter's export job.
func (c *Client) PDFStatus(ctx context.Context, id string) (coverletter.PDFStatus, error) {
	var resp apiStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, letterPath(id, "/pdf/status"), nil, &resp, true, "Failed to get PDF status"); err != nil {
		return coverletter.PDFStatus{}, err
	}
	return coverletter.PDFStatus{
		Status:        coverletter.JobStatus(resp.Status),
		CoverLetterID: resp.CoverLetterID,
		PDFURL:        resp.PDFURL,
		DownloadURL:   resp.DownloadURL,
	}, nil
}

// DownloadPDF requests the download endpoint, follows its redirect and
// returns the final artifact URL. The artifact body is not read.
// A 400 response means the export has not completed and unwraps to
// [coverletter.ErrJobNotReady].
func (c *Client) DownloadPDF(ctx context.Context, id string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, letterPath(id, "/pdf/download"), nil, true)
	if err != nil {
		return "", err
	}
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return "", parseHTTPError(resp, coverletter.ErrJobNotReady, "PDF not ready yet")
	case !isSuccess(resp.StatusCode):
		return "", parseHTTPError(resp, nil, fmt.Sprintf("Failed to download PDF: %d", resp.StatusCode))
	}
	return resp.Request.URL.String(), nil
}
