package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "kwame kofi", "kwame kofi"},
		{"trims and collapses whitespace", "  KWAME   KOFI ", "kwame kofi"},
		{"lowercases", "Kwame Kofi", "kwame kofi"},
		{"strips diacritics", "José Ñíguez", "jose niguez"},
		{"keeps interior apostrophe", "O'Brien", "o'brien"},
		{"keeps interior hyphen", "Abena-Mensah", "abena-mensah"},
		{"drops edge punctuation", "'kofi-", "kofi"},
		{"drops other punctuation", "Kofi, Jr.", "kofi jr"},
		{"tabs and newlines collapse", "kwame\t\nkofi", "kwame kofi"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"punctuation only", "..,!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Text(tc.in))
		})
	}
}

// Text must be idempotent: normalizing an already-normalized value is a
// no-op. Exercised over a corpus of awkward inputs rather than a single
// example.
func TestTextIdempotent(t *testing.T) {
	corpus := []string{
		"Kwame Kofi",
		"  JOSÉ   ÑÍGUEZ  ",
		"O'Brien-Smith",
		"''--x--''",
		"GHA-123456789-0",
		"Ama\u00a0Serwaa", // non-breaking space
		"åse müller",
		"",
		"£$%^&*",
	}
	for _, s := range corpus {
		once := Text(s)
		assert.Equal(t, once, Text(once), "not idempotent for %q", s)
	}
}

func TestDate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"iso", "1988-10-22", "1988-10-22", true},
		{"day first slash", "22/10/1988", "1988-10-22", true},
		{"day first dash", "22-10-1988", "1988-10-22", true},
		{"month first when day-first impossible", "10/22/1988", "1988-10-22", true},
		{"day month name year", "22 Oct 1988", "1988-10-22", true},
		{"single digit day with month name", "5 Jan 2020", "2020-01-05", true},
		{"compact", "19881022", "1988-10-22", true},
		{"slash iso", "1988/10/22", "1988-10-22", true},
		{"dotted", "22.10.1988", "1988-10-22", true},
		{"surrounding whitespace", "  1988-10-22  ", "1988-10-22", true},
		{"garbage", "not a date", "", false},
		{"impossible date", "1988-13-45", "", false},
		{"empty", "", "", false},
		{"blank", "   ", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Date(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

// Any two accepted representations of the same calendar date must normalize
// to the same canonical string.
func TestDateRepresentationEquivalence(t *testing.T) {
	representations := []string{
		"2020-01-05",
		"05/01/2020",
		"05-01-2020",
		"05 Jan 2020",
		"5 Jan 2020",
		"20200105",
		"2020/01/05",
		"05.01.2020",
	}
	for _, rep := range representations {
		got, ok := Date(rep)
		assert.True(t, ok, "expected %q to parse", rep)
		assert.Equal(t, "2020-01-05", got, "representation %q", rep)
	}
}

// Ambiguous day/month values resolve day-first because of layout order.
func TestDateAmbiguityIsDayFirst(t *testing.T) {
	got, ok := Date("05/01/2020")
	assert.True(t, ok)
	assert.Equal(t, "2020-01-05", got)
}
