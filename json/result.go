package json

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/coverletter"
)

// SavedResult is a generation result kept on disk for later export.
type SavedResult struct {
	CoverLetterID   string
	JobRequirements string
	Content         string
	SavedAt         time.Time
}

// resultEnvelope is the v1 wire format for a saved result.
type resultEnvelope struct {
	Version         int       `json:"version"`
	CoverLetterID   string    `json:"cover_letter_id,omitempty"`
	JobRequirements string    `json:"job_requirements,omitempty"`
	Content         string    `json:"content"`
	SavedAt         time.Time `json:"saved_at"`
}

// NewSavedResult pairs a generation result with the request that produced it.
func NewSavedResult(req coverletter.GenerateRequest, res coverletter.GenerationResult, now time.Time) SavedResult {
	return SavedResult{
		CoverLetterID:   res.CoverLetterID,
		JobRequirements: req.JobRequirements,
		Content:         res.Content,
		SavedAt:         now,
	}
}

// MarshalResult serializes a SavedResult in v1 envelope format.
func MarshalResult(r SavedResult) ([]byte, error) {
	return json.MarshalIndent(resultEnvelope{
		Version:         envelopeVersion,
		CoverLetterID:   r.CoverLetterID,
		JobRequirements: r.JobRequirements,
		Content:         r.Content,
		SavedAt:         r.SavedAt,
	}, "", "  ")
}

// UnmarshalResult deserializes a SavedResult from v1 envelope format.
func UnmarshalResult(data []byte) (SavedResult, error) {
	var env resultEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return SavedResult{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if err := checkVersion(env.Version); err != nil {
		return SavedResult{}, err
	}
	return SavedResult{
		CoverLetterID:   env.CoverLetterID,
		JobRequirements: env.JobRequirements,
		Content:         env.Content,
		SavedAt:         env.SavedAt,
	}, nil
}

// SaveResult writes a SavedResult to a JSON file.
func SaveResult(path string, r SavedResult) error {
	data, err := MarshalResult(r)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(path, data)
}

// LoadResult reads a SavedResult from a JSON file.
func LoadResult(path string) (SavedResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SavedResult{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalResult(data)
}
