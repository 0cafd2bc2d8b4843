package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	tokenPattern = regexp.MustCompile(`^\d+$`)
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
)

const minTokenLength = 12

// Years at or below this value are rejected when an expiration is set.
const minExpirationYear = 1987

// typeCodes maps brands to the two-letter gateway type code. The map is
// narrower than DefaultBrandRegistry on purpose: registry-accepted brands
// without an entry yield no code.
var typeCodes = map[string]string{
	"visa":             "VI",
	"master":           "MC",
	"american_express": "AX",
	"discover":         "DI",
	"jcb":              "DI",
	"diners_club":      "DI",
}

// CardTokenCreator carries the optional named fields for building a card
// token. Any subset may be supplied; month and year are integer-like strings.
type CardTokenCreator struct {
	Token             string
	Month             string
	Year              string
	VerificationValue string
	Brand             string
}

// CardToken is a stored gateway token standing in for a raw card number,
// with optional expiration and brand metadata. It may hold invalid values;
// Validate discovers violations without ever failing fatally.
type CardToken struct {
	Token             string
	Month             string
	Year              string
	VerificationValue string
	Brand             string

	registry *BrandRegistry
}

// NewCardToken builds a card token from the creator fields
func NewCardToken(creator *CardTokenCreator) *CardToken {
	if creator == nil {
		creator = &CardTokenCreator{}
	}
	return &CardToken{
		Token:             creator.Token,
		Month:             creator.Month,
		Year:              creator.Year,
		VerificationValue: creator.VerificationValue,
		Brand:             creator.Brand,
	}
}

// WithBrandRegistry overrides the registry consulted by the brand check
func (t *CardToken) WithBrandRegistry(registry *BrandRegistry) *CardToken {
	t.registry = registry
	return t
}

// Normalize coerces month and year to their integer forms in place.
// Non-numeric or absent values become 0. Idempotent.
func (t *CardToken) Normalize() {
	t.Month = strconv.Itoa(coerceInt(t.Month))
	t.Year = strconv.Itoa(coerceInt(t.Year))
}

func coerceInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func (t *CardToken) month() int { return coerceInt(t.Month) }
func (t *CardToken) year() int  { return coerceInt(t.Year) }

// HasExpiration reports whether both month and year are set. A lone month
// or lone year is no expiration.
func (t *CardToken) HasExpiration() bool {
	return t.month() != 0 && t.year() != 0
}

// ExpDate returns the expiration as MMYY (month zero-padded, last two
// digits of the year), or "" when no expiration is set.
func (t *CardToken) ExpDate() string {
	if !t.HasExpiration() {
		return ""
	}
	year := t.year()
	ys := strconv.Itoa(year)
	if len(ys) >= 4 {
		ys = ys[2:4]
	} else {
		ys = fmt.Sprintf("%02d", year%100)
	}
	return fmt.Sprintf("%02d%s", t.month(), ys)
}

// TypeCode returns the gateway type code for the brand. The boolean is
// false when the brand is unset or has no mapping.
func (t *CardToken) TypeCode() (string, bool) {
	if t.Brand == "" {
		return "", false
	}
	code, ok := typeCodes[t.Brand]
	if !ok {
		return "", false
	}
	return code, true
}

// IsCheck distinguishes card tokens from check payment instruments in
// polymorphic gateway handling. Always false.
func (t *CardToken) IsCheck() bool {
	return false
}

// Validate normalizes the token and runs every check, appending a finding
// for each rule that fails. All checks always run; nothing short-circuits.
func (t *CardToken) Validate(collector ErrorCollector) {
	t.Normalize()
	t.validateToken(collector)
	t.validateExpiration(collector)
	t.validateBrand(collector)
}

func (t *CardToken) validateToken(collector ErrorCollector) {
	if len(t.Token) < minTokenLength || !tokenPattern.MatchString(t.Token) {
		collector.Add("token", CodeInvalidToken, "is not a valid token")
	}
}

// The expiration check activates when either field is non-zero, and then
// checks both. A lone year flags the absent month too, since zero fails
// the month range.
func (t *CardToken) validateExpiration(collector ErrorCollector) {
	month, year := t.month(), t.year()
	if month == 0 && year == 0 {
		return
	}
	if month < 1 || month > 12 {
		collector.Add("month", CodeInvalidExpirationMonth, "is not a valid month")
	}
	if !yearPattern.MatchString(strconv.Itoa(year)) || year <= minExpirationYear {
		collector.Add("year", CodeInvalidExpirationYear, "is not a valid year")
	}
}

func (t *CardToken) validateBrand(collector ErrorCollector) {
	if t.Brand == "" {
		return
	}
	registry := t.registry
	if registry == nil {
		registry = DefaultBrandRegistry
	}
	if !registry.Knows(t.Brand) {
		collector.Add("brand", CodeInvalidBrand, "is not a valid brand")
	}
}
