package coverletter

import (
	"fmt"
	"strings"
)

// Attachment is an uploaded file, such as a CV.
type Attachment struct {
	Filename string
	Data     []byte
}

// GenerateRequest carries the form fields for a generation.
type GenerateRequest struct {
	JobRequirements string
	HumanScale      int // 0 = server default
	OptionalInfo    string
	CV              *Attachment // nil = no CV
}

// Validate checks constraints on GenerateRequest before it is sent.
func (r GenerateRequest) Validate() error {
	if strings.TrimSpace(r.JobRequirements) == "" {
		return fmt.Errorf("job requirements are required: %w", ErrValidation)
	}
	if r.HumanScale < 0 {
		return fmt.Errorf("human scale must be non-negative, got %d: %w", r.HumanScale, ErrValidation)
	}
	if r.CV != nil {
		if r.CV.Filename == "" {
			return fmt.Errorf("cv filename is required: %w", ErrValidation)
		}
		if len(r.CV.Data) == 0 {
			return fmt.Errorf("cv %q is empty: %w", r.CV.Filename, ErrValidation)
		}
	}
	return nil
}
