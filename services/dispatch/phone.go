package dispatch

import "strings"

// PhoneFormat selects the canonical form the configured gateway expects.
type PhoneFormat string

const (
	// FormatInternational produces "+"-prefixed E.164-style numbers.
	FormatInternational PhoneFormat = "international"
	// FormatLocal produces domestic numbers with a leading trunk "0".
	FormatLocal PhoneFormat = "local"
)

func stripPhone(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// NormalizePhone canonicalizes raw into the requested form. Both forms are
// idempotent under repeated normalization.
func NormalizePhone(raw, countryPrefix string, format PhoneFormat) (string, error) {
	if format == FormatLocal {
		return NormalizeLocal(raw, countryPrefix)
	}
	return NormalizeInternational(raw, countryPrefix)
}

// NormalizeInternational returns the international "+"-prefixed form.
// A number already starting with "+" is assumed canonical; a bare country
// code gets a "+"; anything else loses a single leading trunk "0" and
// gains "+" plus the default country prefix.
func NormalizeInternational(raw, countryPrefix string) (string, error) {
	s := stripPhone(raw)
	if s == "" {
		return "", ErrInvalidPhone
	}
	if strings.HasPrefix(s, "+") {
		return s, nil
	}
	if strings.HasPrefix(s, countryPrefix) {
		return "+" + s, nil
	}
	return "+" + countryPrefix + strings.TrimPrefix(s, "0"), nil
}

// NormalizeLocal returns the domestic form with a leading trunk "0",
// dropping any country-code prefix first.
func NormalizeLocal(raw, countryPrefix string) (string, error) {
	s := stripPhone(raw)
	if s == "" {
		return "", ErrInvalidPhone
	}
	s = strings.TrimPrefix(s, "+")
	if countryPrefix != "" && strings.HasPrefix(s, countryPrefix) {
		s = strings.TrimPrefix(s, countryPrefix)
	}
	if !strings.HasPrefix(s, "0") {
		s = "0" + s
	}
	return s, nil
}
