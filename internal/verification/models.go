package verification

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"attest/internal/document/compare"
)

// MissingPolicy decides how missing required fields affect the overall
// verdict. The source systems disagreed on this; strict is the safer
// security default, so it is the default here, but deployments can opt into
// the lenient reading.
type MissingPolicy int

const (
	// MissingFails counts a missing required field as overall failure.
	MissingFails MissingPolicy = iota
	// MissingExcluded drops missing fields from the pass/fail tally; the
	// verdict then rests on the fields that could be compared.
	MissingExcluded
)

// VerificationResult is the aggregate verdict for one document. It is
// allocated fresh per call, owned by the caller, and never mutated after
// return.
type VerificationResult struct {
	DocumentType  string                    `json:"document_type"`
	Valid         bool                      `json:"valid"`
	PassedFields  []string                  `json:"passed_fields"`
	FailedFields  []string                  `json:"failed_fields"`
	MissingFields []string                  `json:"missing_fields"`
	Details       map[string]compare.Result `json:"details"`
	Summary       string                    `json:"summary"`
}

// FaceMatchResult captures the outcome of the external face similarity
// check. It is combined with the field verdict only at the submission level.
type FaceMatchResult struct {
	Checked    bool    `json:"checked"`
	Match      bool    `json:"match"`
	Similarity float64 `json:"similarity"`
}

// SubmissionRecord is the persisted outcome of one full submission flow.
// Sensitive field values are redacted before the record is stored.
type SubmissionRecord struct {
	ID           uuid.UUID          `json:"id"`
	UserID       string             `json:"user_id"`
	DocumentType string             `json:"document_type"`
	Result       VerificationResult `json:"result"`
	FaceMatch    FaceMatchResult    `json:"face_match"`
	CreatedAt    time.Time          `json:"created_at"`
}

// summaryMessage renders the count-based summary sentence.
func summaryMessage(passed, required int) string {
	return fmt.Sprintf("%d of %d required fields matched", passed, required)
}
