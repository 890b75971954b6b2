package coverbe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/coverletter"
)

// ListLetters returns one page of the signed-in user's letters.
func (c *Client) ListLetters(ctx context.Context, q coverletter.PageQuery) (coverletter.LetterPage, error) {
	q, err := q.Normalize()
	if err != nil {
		return coverletter.LetterPage{}, fmt.Errorf("coverbe: %w", err)
	}
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("skip", strconv.Itoa(q.Skip))

	var resp apiLetterList
	if err := c.doJSON(ctx, http.MethodGet, lettersPath+"?"+v.Encode(), nil, &resp, true, "Failed to fetch cover letters"); err != nil {
		return coverletter.LetterPage{}, err
	}
	page := coverletter.LetterPage{Count: resp.Count, Letters: make([]coverletter.Letter, 0, len(resp.CoverLetters))}
	for _, l := range resp.CoverLetters {
		page.Letters = append(page.Letters, convertLetter(l))
	}
	return page, nil
}

// Letter returns one letter including its full content.
func (c *Client) Letter(ctx context.Context, id string) (coverletter.Letter, error) {
	if id == "" {
		return coverletter.Letter{}, fmt.Errorf("coverbe: cover letter id is required: %w", coverletter.ErrValidation)
	}
	var resp apiLetterEnvelope
	if err := c.doJSON(ctx, http.MethodGet, letterPath(id, ""), nil, &resp, true, "Cover letter not found"); err != nil {
		return coverletter.Letter{}, err
	}
	return convertLetter(resp.CoverLetter), nil
}

func convertLetter(l apiLetter) coverletter.Letter {
	return coverletter.Letter{
		ID:              l.ID,
		JobRequirements: l.JobRequirements,
		Content:         l.Content,
		PDFStatus:       coverletter.JobStatus(l.PDFStatus),
		PDFURL:          l.PDFURL,
		CreatedAt:       parseTime(l.CreatedAt),
	}
}

// timeLayouts are the created_at formats seen from the API, with and without
// a zone offset.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTime returns the zero time for empty or unrecognized values.
func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
