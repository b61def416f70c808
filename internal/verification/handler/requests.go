package handler

import (
	"strings"

	dErrors "attest/pkg/domain-errors"
)

// maxFields bounds the field maps a client may send. Real documents carry a
// handful of fields; anything larger is abuse.
const maxFields = 50

// VerifyFieldsRequest is the HTTP request body for POST /verify/fields. The
// caller supplies both sides of the comparison; no evidence gathering runs.
type VerifyFieldsRequest struct {
	DocumentType    string            `json:"document_type"`
	UserFields      map[string]string `json:"user_fields"`
	ExtractedFields map[string]string `json:"extracted_fields"`
}

// Validate implements httputil.Validatable.
func (r *VerifyFieldsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.DocumentType = strings.TrimSpace(r.DocumentType)
	if r.DocumentType == "" {
		return dErrors.New(dErrors.CodeValidation, "document_type is required")
	}
	if len(r.UserFields) > maxFields || len(r.ExtractedFields) > maxFields {
		return dErrors.New(dErrors.CodeValidation, "too many fields")
	}
	return nil
}

// SubmitRequest is the HTTP request body for POST /submissions. Image
// references point at previously uploaded artifacts.
type SubmitRequest struct {
	DocumentType string            `json:"document_type"`
	UserFields   map[string]string `json:"user_fields"`
	DocumentRef  string            `json:"document_ref"`
	SelfieRef    string            `json:"selfie_ref"`
}

// Validate implements httputil.Validatable.
func (r *SubmitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.DocumentType = strings.TrimSpace(r.DocumentType)
	if r.DocumentType == "" {
		return dErrors.New(dErrors.CodeValidation, "document_type is required")
	}
	if len(r.UserFields) == 0 {
		return dErrors.New(dErrors.CodeValidation, "user_fields is required")
	}
	if len(r.UserFields) > maxFields {
		return dErrors.New(dErrors.CodeValidation, "too many fields")
	}
	r.DocumentRef = strings.TrimSpace(r.DocumentRef)
	if r.DocumentRef == "" {
		return dErrors.New(dErrors.CodeValidation, "document_ref is required")
	}
	r.SelfieRef = strings.TrimSpace(r.SelfieRef)
	return nil
}

// ValidateFormRequest is the HTTP request body for POST /verify/form. It runs
// shallow syntax validation only, for client-side form feedback.
type ValidateFormRequest struct {
	DocumentType string            `json:"document_type"`
	Fields       map[string]string `json:"fields"`
}

// Validate implements httputil.Validatable.
func (r *ValidateFormRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.DocumentType = strings.TrimSpace(r.DocumentType)
	if r.DocumentType == "" {
		return dErrors.New(dErrors.CodeValidation, "document_type is required")
	}
	if len(r.Fields) > maxFields {
		return dErrors.New(dErrors.CodeValidation, "too many fields")
	}
	return nil
}
