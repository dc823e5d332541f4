package card

import (
	"regexp"
	"strings"
)

// Identity is the canonical naming triple derived from a raw listing name.
type Identity struct {
	DisplayName string
	BaseName    string
	CardNumber  string
}

var (
	// Card number token: 1-4 digits / 2-4 digits, optionally prefixed by
	// set letters (e.g. "25/102", "SV45/102", "GG04/GG70" is out of scope).
	numberPattern = regexp.MustCompile(`[A-Za-z]{0,2}\d{1,4}/\d{2,4}`)

	// Same token with the surrounding separators that should go away with it:
	// an optional leading "#" and leading/trailing dashes.
	numberStripPattern = regexp.MustCompile(`\s*-?\s*#?[A-Za-z]{0,2}\d{1,4}/\d{2,4}\s*-?\s*`)

	// Decorative qualifiers carried by storefront listings: parenthesized
	// text plus a fixed set of standalone finish/variant words.
	qualifierPattern = regexp.MustCompile(`(?i)\([^)]*\)|\b(?:promo|stamped|cosmos|holo|reverse|full\s?art|alternate\s?art)\b`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize derives a canonical identity from a raw scraped or parsed name.
// It is a pure function: same input, same output, no I/O. Normalizing a
// produced DisplayName yields the same identity again.
func Normalize(rawName string) Identity {
	cardNumber := numberPattern.FindString(rawName)

	cleaned := qualifierPattern.ReplaceAllString(rawName, "")
	baseName := numberStripPattern.ReplaceAllString(cleaned, " ")
	baseName = whitespacePattern.ReplaceAllString(baseName, " ")
	baseName = strings.TrimSpace(baseName)
	baseName = strings.TrimSpace(strings.TrimSuffix(baseName, "-"))

	displayName := baseName
	if cardNumber != "" {
		displayName = baseName + " #" + cardNumber
	}

	return Identity{
		DisplayName: displayName,
		BaseName:    baseName,
		CardNumber:  cardNumber,
	}
}

// ApplyIdentity fills the derived naming fields on a record from its raw
// name, keeping a card number already supplied by the scraper.
func ApplyIdentity(r *Record) {
	id := Normalize(r.Name)
	r.BaseName = id.BaseName
	if r.CardNumber == "" {
		r.CardNumber = id.CardNumber
	}
	if r.CardNumber != "" {
		r.DisplayName = r.BaseName + " #" + r.CardNumber
	} else {
		r.DisplayName = r.BaseName
	}
}
