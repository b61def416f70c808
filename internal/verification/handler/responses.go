package handler

import (
	"time"

	"attest/internal/verification"
)

// ValidateFormResponse reports per-field syntax problems; an empty map means
// the form is acceptable.
type ValidateFormResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// SubmissionSummary is the list-view projection of a submission record.
type SubmissionSummary struct {
	ID           string    `json:"id"`
	DocumentType string    `json:"document_type"`
	Valid        bool      `json:"valid"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListSubmissionsResponse wraps the submission history list.
type ListSubmissionsResponse struct {
	Submissions []SubmissionSummary `json:"submissions"`
}

func toSummaries(records []*verification.SubmissionRecord) []SubmissionSummary {
	out := make([]SubmissionSummary, 0, len(records))
	for _, r := range records {
		out = append(out, SubmissionSummary{
			ID:           r.ID.String(),
			DocumentType: r.DocumentType,
			Valid:        r.Result.Valid,
			Summary:      r.Result.Summary,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out
}
