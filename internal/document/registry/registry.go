// Package registry is the process-wide catalog of supported identity
// document types and their fields. The catalog is built once at startup,
// validated fail-fast, and read-only afterwards, so any number of concurrent
// readers share it without locking.
package registry

import (
	"errors"
	"fmt"
	"regexp"

	dErrors "attest/pkg/domain-errors"
)

// ErrUnknownDocumentType marks lookups for unregistered document types.
// Callers match it with errors.Is; the HTTP layer renders it as not_found.
var ErrUnknownDocumentType = errors.New("unknown document type")

// Category describes how a field is surfaced and handled.
type Category string

const (
	// CategoryRequired fields must be supplied by the user.
	CategoryRequired Category = "required"
	// CategoryOptional fields may be supplied but are not critical.
	CategoryOptional Category = "optional"
	// CategoryExtractedOnly fields are read from the document, never
	// asked of the user.
	CategoryExtractedOnly Category = "extracted_only"
	// CategoryDisplay fields are informational and never compared.
	CategoryDisplay Category = "display"
	// CategorySensitive fields must never be logged or persisted in
	// clear form (card numbers, security codes).
	CategorySensitive Category = "sensitive"
)

// Strategy selects the comparison algorithm for a field. Dispatch always
// goes through this declared value, never through field-name sniffing.
type Strategy string

const (
	StrategyExact     Strategy = "exact"
	StrategyDate      Strategy = "date"
	StrategyFuzzyText Strategy = "fuzzy_text"
	StrategyEnum      Strategy = "enum"
)

// FieldDefinition describes one logical fact on one document type.
type FieldDefinition struct {
	Name        string
	DisplayName string
	Category    Category
	// SyntaxPattern, when set, must match the raw user input before any
	// comparison is attempted.
	SyntaxPattern *regexp.Regexp
	Strategy      Strategy
	MinLen        int
	MaxLen        int
}

// Sensitive reports whether the field value must be redacted before logging
// or persistence.
func (f FieldDefinition) Sensitive() bool {
	return f.Category == CategorySensitive
}

// DocumentTypeSpec is the full field catalog for one document type.
type DocumentTypeSpec struct {
	Type        string
	Description string
	// Fields maps field name to its definition; names are unique within
	// the document type.
	Fields map[string]FieldDefinition
	// UserInputFields is the ordered list of fields to surface on input
	// forms.
	UserInputFields []string
	// ExtractionFields is the set the extraction step is expected to
	// populate.
	ExtractionFields []string
	// RequiredMatchFields must cross-check between user input and the
	// extracted document for the overall verdict.
	RequiredMatchFields []string
}

// Registry holds all document type specs. Construct with New; immutable
// afterwards.
type Registry struct {
	specs map[string]DocumentTypeSpec
	order []string
}

// New builds the registry from the static catalog, validating every spec.
// Construction fails fast on an inconsistent catalog: this is a programming
// defect, not a runtime condition.
func New() (*Registry, error) {
	r := &Registry{specs: make(map[string]DocumentTypeSpec, len(catalog))}
	for _, spec := range catalog {
		if err := validateSpec(spec); err != nil {
			return nil, fmt.Errorf("document type %q: %w", spec.Type, err)
		}
		if _, dup := r.specs[spec.Type]; dup {
			return nil, fmt.Errorf("document type %q registered twice", spec.Type)
		}
		r.specs[spec.Type] = spec
		r.order = append(r.order, spec.Type)
	}
	return r, nil
}

// validateSpec enforces the structural invariants: every referenced name
// resolves to a definition, and required-match fields are contained in both
// the user-input and extraction sets.
func validateSpec(spec DocumentTypeSpec) error {
	for name, def := range spec.Fields {
		if name != def.Name {
			return fmt.Errorf("field %q keyed under %q", def.Name, name)
		}
	}
	for _, name := range spec.UserInputFields {
		if _, ok := spec.Fields[name]; !ok {
			return fmt.Errorf("user input field %q has no definition", name)
		}
	}
	for _, name := range spec.ExtractionFields {
		if _, ok := spec.Fields[name]; !ok {
			return fmt.Errorf("extraction field %q has no definition", name)
		}
	}
	userInput := toSet(spec.UserInputFields)
	extracted := toSet(spec.ExtractionFields)
	for _, name := range spec.RequiredMatchFields {
		if _, ok := spec.Fields[name]; !ok {
			return fmt.Errorf("required match field %q has no definition", name)
		}
		if _, ok := userInput[name]; !ok {
			return fmt.Errorf("required match field %q is not a user input field", name)
		}
		if _, ok := extracted[name]; !ok {
			return fmt.Errorf("required match field %q is not an extraction field", name)
		}
	}
	return nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Types lists supported document types in registration order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Spec resolves a document type. This is the only engine operation that
// aborts the caller's request outright; every other condition is reported
// inside a result object.
func (r *Registry) Spec(documentType string) (DocumentTypeSpec, error) {
	spec, ok := r.specs[documentType]
	if !ok {
		return DocumentTypeSpec{}, dErrors.Wrap(dErrors.CodeNotFound,
			fmt.Sprintf("unknown document type %q", documentType), ErrUnknownDocumentType)
	}
	return spec, nil
}

// UserInputFields returns the ordered field definitions to surface on input
// forms for the document type.
func (r *Registry) UserInputFields(documentType string) ([]FieldDefinition, error) {
	spec, err := r.Spec(documentType)
	if err != nil {
		return nil, err
	}
	out := make([]FieldDefinition, 0, len(spec.UserInputFields))
	for _, name := range spec.UserInputFields {
		out = append(out, spec.Fields[name])
	}
	return out, nil
}

// RequiredMatchFields returns the definitions of fields that must
// cross-check for the document type.
func (r *Registry) RequiredMatchFields(documentType string) ([]FieldDefinition, error) {
	spec, err := r.Spec(documentType)
	if err != nil {
		return nil, err
	}
	out := make([]FieldDefinition, 0, len(spec.RequiredMatchFields))
	for _, name := range spec.RequiredMatchFields {
		out = append(out, spec.Fields[name])
	}
	return out, nil
}

// ValidateSyntax applies the field's syntax pattern and length bounds to a
// raw user value. This is shallow validation, independent of and prior to
// cross-document comparison.
func ValidateSyntax(field FieldDefinition, raw string) (bool, string) {
	if raw == "" {
		if field.Category == CategoryRequired || field.Category == CategorySensitive {
			return false, fmt.Sprintf("%s is required", field.DisplayName)
		}
		return true, ""
	}
	if field.MinLen > 0 && len(raw) < field.MinLen {
		return false, fmt.Sprintf("%s must be at least %d characters", field.DisplayName, field.MinLen)
	}
	if field.MaxLen > 0 && len(raw) > field.MaxLen {
		return false, fmt.Sprintf("%s must not exceed %d characters", field.DisplayName, field.MaxLen)
	}
	if field.SyntaxPattern != nil && !field.SyntaxPattern.MatchString(raw) {
		return false, fmt.Sprintf("%s format is invalid", field.DisplayName)
	}
	return true, ""
}
