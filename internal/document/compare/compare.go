// Package compare decides, per field, whether a user-entered value and a
// machine-extracted value represent the same real-world fact. Mismatches are
// normal outcomes, never errors; the only indeterminate state is Missing and
// it is always surfaced, never swallowed.
package compare

import (
	"fmt"

	"attest/internal/document/normalize"
	"attest/internal/document/registry"
)

// Outcome is the tri-state result of one field comparison.
type Outcome string

const (
	OutcomeMatched    Outcome = "matched"
	OutcomeMismatched Outcome = "mismatched"
	// OutcomeMissing covers absent values and unparseable dates: the
	// comparison is indeterminate, which is distinct from a mismatch.
	OutcomeMissing Outcome = "missing"
)

// Result is the per-field comparison outcome. User and extracted values are
// post-normalization, suitable for display.
type Result struct {
	Field          string            `json:"field"`
	Outcome        Outcome           `json:"outcome"`
	UserValue      string            `json:"user_value"`
	ExtractedValue string            `json:"extracted_value"`
	Score          float64           `json:"score"`
	Message        string            `json:"message"`
	Strategy       registry.Strategy `json:"strategy"`
}

// DefaultFuzzyThreshold is the similarity floor for fuzzy name matching.
const DefaultFuzzyThreshold = 0.85

// Comparator applies a field's declared strategy to a value pair. The zero
// value is not usable; construct with New.
type Comparator struct {
	fuzzyThreshold float64
}

// New builds a comparator. A non-positive threshold falls back to the
// default.
func New(fuzzyThreshold float64) *Comparator {
	if fuzzyThreshold <= 0 || fuzzyThreshold > 1 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	return &Comparator{fuzzyThreshold: fuzzyThreshold}
}

// enumSynonyms maps spelled-out enum values to their canonical single-letter
// codes. Values outside the map compare on their leading normalized token.
var enumSynonyms = map[string]string{
	"male":   "m",
	"female": "f",
	"other":  "o",
}

// Compare resolves the field's declared strategy and produces the tri-state
// result. Either side normalizing to absent dominates every strategy.
func (c *Comparator) Compare(field registry.FieldDefinition, userValue, extractedValue string) Result {
	res := Result{
		Field:    field.Name,
		Strategy: field.Strategy,
	}

	user := normalize.Text(userValue)
	extracted := normalize.Text(extractedValue)
	res.UserValue = user
	res.ExtractedValue = extracted

	if missing := missingSide(user, extracted); missing != "" {
		res.Outcome = OutcomeMissing
		res.Message = missing
		return res
	}

	switch field.Strategy {
	case registry.StrategyDate:
		return c.compareDate(res, userValue, extractedValue)
	case registry.StrategyFuzzyText:
		return c.compareFuzzy(res, user, extracted)
	case registry.StrategyEnum:
		return c.compareEnum(res, user, extracted)
	default:
		// Exact is also the fallback for undeclared strategies:
		// identifiers get no partial credit.
		return c.compareExact(res, user, extracted)
	}
}

func missingSide(user, extracted string) string {
	switch {
	case user == "" && extracted == "":
		return "value missing on both sides"
	case user == "":
		return "user value is missing"
	case extracted == "":
		return "extracted value is missing"
	default:
		return ""
	}
}

func (c *Comparator) compareExact(res Result, user, extracted string) Result {
	if user == extracted {
		res.Outcome = OutcomeMatched
		res.Score = 1.0
		res.Message = "exact match"
		return res
	}
	res.Outcome = OutcomeMismatched
	res.Score = 0.0
	res.Message = "values differ"
	return res
}

func (c *Comparator) compareDate(res Result, userRaw, extractedRaw string) Result {
	userDate, userOK := normalize.Date(userRaw)
	extractedDate, extractedOK := normalize.Date(extractedRaw)

	// An unparseable date is indeterminate, not a silent pass or fail.
	switch {
	case !userOK && !extractedOK:
		res.Outcome = OutcomeMissing
		res.Message = "date unparseable on both sides"
		return res
	case !userOK:
		res.Outcome = OutcomeMissing
		res.Message = "user date is unparseable"
		return res
	case !extractedOK:
		res.Outcome = OutcomeMissing
		res.Message = "extracted date is unparseable"
		return res
	}

	res.UserValue = userDate
	res.ExtractedValue = extractedDate
	if userDate == extractedDate {
		res.Outcome = OutcomeMatched
		res.Score = 1.0
		res.Message = "dates match"
		return res
	}
	res.Outcome = OutcomeMismatched
	res.Score = 0.0
	res.Message = fmt.Sprintf("dates differ: %s vs %s", userDate, extractedDate)
	return res
}

func (c *Comparator) compareFuzzy(res Result, user, extracted string) Result {
	score := Similarity(user, extracted)
	res.Score = score
	if score >= c.fuzzyThreshold {
		res.Outcome = OutcomeMatched
		res.Message = fmt.Sprintf("fuzzy match (%.0f%%)", score*100)
		return res
	}
	res.Outcome = OutcomeMismatched
	res.Message = fmt.Sprintf("below similarity threshold (%.0f%%)", score*100)
	return res
}

func (c *Comparator) compareEnum(res Result, user, extracted string) Result {
	userCode := enumCode(user)
	extractedCode := enumCode(extracted)
	if userCode == extractedCode {
		res.Outcome = OutcomeMatched
		res.Score = 1.0
		res.Message = fmt.Sprintf("enum match: %s", userCode)
		return res
	}
	res.Outcome = OutcomeMismatched
	res.Score = 0.0
	res.Message = fmt.Sprintf("enum mismatch: %s vs %s", userCode, extractedCode)
	return res
}

// enumCode reduces a normalized value to its canonical code: the leading
// token, run through the synonym map.
func enumCode(normalized string) string {
	token := normalized
	for i, r := range normalized {
		if r == ' ' {
			token = normalized[:i]
			break
		}
	}
	if code, ok := enumSynonyms[token]; ok {
		return code
	}
	return token
}
