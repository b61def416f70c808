package registry

import "regexp"

// Document type identifiers. Callers pass these to Spec and Verify.
const (
	TypeNationalCard   = "NationalCard"
	TypePassport       = "Passport"
	TypeVoterCard      = "VoterCard"
	TypeDriversLicence = "DriversLicence"
	TypeBankCard       = "BankCard"
)

var (
	namePattern       = regexp.MustCompile(`^[A-Za-z\s\-'.]{3,100}$`)
	isoDatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	sexPattern        = regexp.MustCompile(`^[MFOmfo]$|^(?i:male|female|other)$`)
	nationalIDPattern = regexp.MustCompile(`^GHA-\d{9}-\d$`)
	passportNoPattern = regexp.MustCompile(`^[A-Z][0-9]{7}$`)
	voterIDPattern    = regexp.MustCompile(`^\d{10}$`)
	licenceNoPattern  = regexp.MustCompile(`^[A-Za-z0-9\-/ ]{5,20}$`)
	cardLast4Pattern  = regexp.MustCompile(`^\d{4}$`)
	cardExpiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
)

// Shared field definitions. Each document type references its own copy via
// the catalog below, so mutating a spec is impossible after construction.

func fullNameField(name, display string) FieldDefinition {
	return FieldDefinition{
		Name:          name,
		DisplayName:   display,
		Category:      CategoryRequired,
		SyntaxPattern: namePattern,
		Strategy:      StrategyFuzzyText,
		MinLen:        3,
		MaxLen:        100,
	}
}

func dateField(name, display string) FieldDefinition {
	return FieldDefinition{
		Name:          name,
		DisplayName:   display,
		Category:      CategoryRequired,
		SyntaxPattern: isoDatePattern,
		Strategy:      StrategyDate,
	}
}

func sexField() FieldDefinition {
	return FieldDefinition{
		Name:          "sex",
		DisplayName:   "Sex",
		Category:      CategoryRequired,
		SyntaxPattern: sexPattern,
		Strategy:      StrategyEnum,
	}
}

// catalog is the static configuration the registry is built from. The
// required-match subsets mirror the issuing authority's cross-check rules:
// identifiers and birth dates always cross-check; expiry dates are surfaced
// but only enforced where the issuer prints them reliably.
var catalog = []DocumentTypeSpec{
	{
		Type:        TypeNationalCard,
		Description: "National Identification Card",
		Fields: map[string]FieldDefinition{
			"full_name": fullNameField("full_name", "Full Name"),
			"national_id_number": {
				Name:          "national_id_number",
				DisplayName:   "National ID Number (PIN)",
				Category:      CategoryRequired,
				SyntaxPattern: nationalIDPattern,
				Strategy:      StrategyExact,
			},
			"date_of_birth": dateField("date_of_birth", "Date of Birth"),
			"sex":           sexField(),
		},
		UserInputFields:     []string{"full_name", "national_id_number", "date_of_birth", "sex"},
		ExtractionFields:    []string{"full_name", "national_id_number", "date_of_birth", "sex"},
		RequiredMatchFields: []string{"national_id_number", "full_name", "date_of_birth", "sex"},
	},
	{
		Type:        TypePassport,
		Description: "Passport (ICAO-compliant)",
		Fields: map[string]FieldDefinition{
			"full_name": fullNameField("full_name", "Full Name"),
			"passport_number": {
				Name:          "passport_number",
				DisplayName:   "Passport Number",
				Category:      CategoryRequired,
				SyntaxPattern: passportNoPattern,
				Strategy:      StrategyExact,
			},
			"date_of_birth": dateField("date_of_birth", "Date of Birth"),
			"sex":           sexField(),
			"expiry_date":   dateField("expiry_date", "Expiry Date"),
		},
		UserInputFields:     []string{"full_name", "passport_number", "date_of_birth", "sex", "expiry_date"},
		ExtractionFields:    []string{"full_name", "passport_number", "date_of_birth", "sex", "expiry_date"},
		RequiredMatchFields: []string{"passport_number", "full_name", "date_of_birth", "sex"},
	},
	{
		Type:        TypeVoterCard,
		Description: "Voter's Identification Card",
		Fields: map[string]FieldDefinition{
			"full_name": fullNameField("full_name", "Full Name"),
			"voter_id_number": {
				Name:          "voter_id_number",
				DisplayName:   "Voter ID Number",
				Category:      CategoryRequired,
				SyntaxPattern: voterIDPattern,
				Strategy:      StrategyExact,
			},
			"date_of_birth": dateField("date_of_birth", "Date of Birth"),
			"sex":           sexField(),
		},
		UserInputFields:     []string{"full_name", "voter_id_number", "date_of_birth", "sex"},
		ExtractionFields:    []string{"full_name", "voter_id_number", "date_of_birth", "sex"},
		RequiredMatchFields: []string{"voter_id_number", "full_name", "date_of_birth", "sex"},
	},
	{
		Type:        TypeDriversLicence,
		Description: "Driver's Licence",
		Fields: map[string]FieldDefinition{
			"full_name": fullNameField("full_name", "Full Name"),
			"licence_number": {
				Name:          "licence_number",
				DisplayName:   "Licence Number",
				Category:      CategoryRequired,
				SyntaxPattern: licenceNoPattern,
				Strategy:      StrategyExact,
				MinLen:        5,
				MaxLen:        20,
			},
			"date_of_birth": dateField("date_of_birth", "Date of Birth"),
			"expiry_date":   dateField("expiry_date", "Expiry Date"),
			"licence_class": {
				Name:        "licence_class",
				DisplayName: "Licence Class",
				Category:    CategoryExtractedOnly,
				Strategy:    StrategyEnum,
			},
		},
		UserInputFields:     []string{"full_name", "licence_number", "date_of_birth", "expiry_date"},
		ExtractionFields:    []string{"full_name", "licence_number", "date_of_birth", "expiry_date", "licence_class"},
		RequiredMatchFields: []string{"licence_number", "full_name", "date_of_birth"},
	},
	{
		Type:        TypeBankCard,
		Description: "Bank Card (Debit/Credit/Prepaid)",
		Fields: map[string]FieldDefinition{
			"cardholder_name": fullNameField("cardholder_name", "Cardholder Name"),
			"card_number": {
				Name:          "card_number",
				DisplayName:   "Card Number (last 4 digits)",
				Category:      CategorySensitive,
				SyntaxPattern: cardLast4Pattern,
				Strategy:      StrategyExact,
			},
			// MM/YY expiry is not a calendar date the normalizer
			// accepts, so it cross-checks with exact equality.
			"expiry_date": {
				Name:          "expiry_date",
				DisplayName:   "Expiry Date",
				Category:      CategoryRequired,
				SyntaxPattern: cardExpiryPattern,
				Strategy:      StrategyExact,
			},
		},
		UserInputFields:     []string{"cardholder_name", "card_number", "expiry_date"},
		ExtractionFields:    []string{"cardholder_name", "card_number", "expiry_date"},
		RequiredMatchFields: []string{"cardholder_name", "card_number", "expiry_date"},
	},
}
