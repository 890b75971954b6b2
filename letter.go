package coverletter

import (
	"context"
	"fmt"
	"time"
)

// Page size limits for the letter history.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Letter is a stored cover letter.
type Letter struct {
	ID              string
	JobRequirements string
	Content         string
	PDFStatus       JobStatus // empty when no export was requested
	PDFURL          string
	CreatedAt       time.Time
}

// Preview returns the first n runes of the job requirements, with an
// ellipsis when truncated.
func (l Letter) Preview(n int) string {
	if l.JobRequirements == "" {
		return "No job requirements"
	}
	runes := []rune(l.JobRequirements)
	if len(runes) <= n {
		return l.JobRequirements
	}
	return string(runes[:n]) + "..."
}

// LetterPage is one page of the letter history.
type LetterPage struct {
	Letters []Letter
	Count   int
}

// PageQuery selects a page of the letter history.
type PageQuery struct {
	Limit int // 0 = DefaultPageSize
	Skip  int
}

// Normalize applies the default limit and validates the bounds.
func (q PageQuery) Normalize() (PageQuery, error) {
	if q.Limit == 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit < 0 || q.Limit > MaxPageSize {
		return q, fmt.Errorf("limit must be in [1, %d], got %d: %w", MaxPageSize, q.Limit, ErrValidation)
	}
	if q.Skip < 0 {
		return q, fmt.Errorf("skip must be non-negative, got %d: %w", q.Skip, ErrValidation)
	}
	return q, nil
}

// LetterService covers the letter history endpoints.
type LetterService interface {
	ListLetters(ctx context.Context, q PageQuery) (LetterPage, error)
	Letter(ctx context.Context, id string) (Letter, error)
}
