package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardToken_Validate_Token(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		flagged bool
	}{
		{name: "twelve digits", token: "123456789012", flagged: false},
		{name: "longer than twelve digits", token: "1234567890123456789", flagged: false},
		{name: "eleven digits", token: "12345678901", flagged: true},
		{name: "empty", token: "", flagged: true},
		{name: "non-digits", token: "abc", flagged: true},
		{name: "twelve chars with letter", token: "12345678901a", flagged: true},
		{name: "digits with spaces", token: "1234 5678 9012", flagged: true},
		{name: "negative number", token: "-12345678901", flagged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := NewCardToken(&CardTokenCreator{Token: tt.token})
			findings := NewFindings()
			card.Validate(findings)

			if tt.flagged {
				require.Len(t, findings.On("token"), 1)
				assert.Equal(t, CodeInvalidToken, findings.On("token")[0].Code)
			} else {
				assert.Empty(t, findings.On("token"))
			}
		})
	}
}

func TestCardToken_Validate_Expiration(t *testing.T) {
	tests := []struct {
		name      string
		month     string
		year      string
		monthFlag bool
		yearFlag  bool
	}{
		{name: "both unset", month: "", year: ""},
		{name: "both zero", month: "0", year: "0"},
		{name: "non-numeric coerces to unset", month: "abc", year: "xyz"},
		{name: "valid pair", month: "9", year: "2010"},
		{name: "boundary months", month: "1", year: "2030"},
		{name: "month twelve", month: "12", year: "2030"},
		{name: "month thirteen", month: "13", year: "2010", monthFlag: true},
		{name: "negative month", month: "-1", year: "2010", monthFlag: true},
		{name: "lone year too old", month: "0", year: "1980", monthFlag: true, yearFlag: true},
		{name: "lone valid year still flags month", month: "", year: "2030", monthFlag: true},
		{name: "lone month flags year", month: "9", year: "", yearFlag: true},
		{name: "year 1987 rejected", month: "9", year: "1987", yearFlag: true},
		{name: "year 1988 accepted", month: "9", year: "1988"},
		{name: "three digit year", month: "9", year: "999", yearFlag: true},
		{name: "five digit year", month: "9", year: "20100", yearFlag: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := NewCardToken(&CardTokenCreator{Token: "123456789012", Month: tt.month, Year: tt.year})
			findings := NewFindings()
			card.Validate(findings)

			assert.Equal(t, tt.monthFlag, len(findings.On("month")) > 0, "month finding")
			assert.Equal(t, tt.yearFlag, len(findings.On("year")) > 0, "year finding")
		})
	}
}

func TestCardToken_Validate_Brand(t *testing.T) {
	for _, brand := range DefaultBrandRegistry.Brands() {
		card := NewCardToken(&CardTokenCreator{Token: "123456789012", Brand: brand})
		findings := NewFindings()
		card.Validate(findings)
		assert.Empty(t, findings.On("brand"), "brand %q should pass", brand)
	}

	card := NewCardToken(&CardTokenCreator{Token: "123456789012", Brand: "unknown_brand"})
	findings := NewFindings()
	card.Validate(findings)
	require.Len(t, findings.On("brand"), 1)
	assert.Equal(t, CodeInvalidBrand, findings.On("brand")[0].Code)

	// empty brand is always fine
	card = NewCardToken(&CardTokenCreator{Token: "123456789012"})
	findings = NewFindings()
	card.Validate(findings)
	assert.Empty(t, findings.On("brand"))
}

func TestCardToken_Validate_DoesNotShortCircuit(t *testing.T) {
	card := NewCardToken(&CardTokenCreator{
		Token: "abc",
		Month: "13",
		Year:  "1980",
		Brand: "unknown_brand",
	})
	findings := NewFindings()
	card.Validate(findings)

	assert.Len(t, findings.On("token"), 1)
	assert.Len(t, findings.On("month"), 1)
	assert.Len(t, findings.On("year"), 1)
	assert.Len(t, findings.On("brand"), 1)
	assert.Len(t, findings.Items(), 4)
}

func TestCardToken_Validate_Idempotent(t *testing.T) {
	card := NewCardToken(&CardTokenCreator{Token: "abc", Month: "09", Year: "1980", Brand: "visa"})

	first := NewFindings()
	card.Validate(first)

	second := NewFindings()
	card.Validate(second)

	assert.Equal(t, first.Items(), second.Items())
}

func TestCardToken_Normalize(t *testing.T) {
	card := NewCardToken(&CardTokenCreator{Month: "09", Year: "not-a-year"})
	card.Normalize()
	assert.Equal(t, "9", card.Month)
	assert.Equal(t, "0", card.Year)

	// coercing an already-coerced value is a no-op
	card.Normalize()
	assert.Equal(t, "9", card.Month)
	assert.Equal(t, "0", card.Year)
}

func TestCardToken_HasExpiration(t *testing.T) {
	tests := []struct {
		name  string
		month string
		year  string
		want  bool
	}{
		{name: "both set", month: "9", year: "2010", want: true},
		{name: "both unset", month: "", year: "", want: false},
		{name: "lone month", month: "9", year: "", want: false},
		{name: "lone year", month: "", year: "2010", want: false},
		{name: "non-numeric year", month: "9", year: "soon", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := NewCardToken(&CardTokenCreator{Month: tt.month, Year: tt.year})
			assert.Equal(t, tt.want, card.HasExpiration())
		})
	}
}

func TestCardToken_ExpDate(t *testing.T) {
	tests := []struct {
		name  string
		month string
		year  string
		want  string
	}{
		{name: "september 2010", month: "9", year: "2010", want: "0910"},
		{name: "december 1999", month: "12", year: "1999", want: "1299"},
		{name: "january 2005", month: "1", year: "2005", want: "0105"},
		{name: "zero-padded input", month: "09", year: "2010", want: "0910"},
		{name: "no expiration", month: "", year: "", want: ""},
		{name: "lone month", month: "9", year: "", want: ""},
		{name: "lone year", month: "", year: "2010", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := NewCardToken(&CardTokenCreator{Month: tt.month, Year: tt.year})
			assert.Equal(t, tt.want, card.ExpDate())
		})
	}
}

func TestCardToken_TypeCode(t *testing.T) {
	mapped := map[string]string{
		"visa":             "VI",
		"master":           "MC",
		"american_express": "AX",
		"discover":         "DI",
		"jcb":              "DI",
		"diners_club":      "DI",
	}

	for brand, want := range mapped {
		card := NewCardToken(&CardTokenCreator{Brand: brand})
		code, ok := card.TypeCode()
		require.True(t, ok, "brand %q should map", brand)
		assert.Equal(t, want, code)
	}

	// registry-accepted brands without a mapping yield no code
	for _, brand := range []string{"switch", "solo", "dankort", "maestro", "forbrugsforeningen", "laser", "unknown_brand", ""} {
		card := NewCardToken(&CardTokenCreator{Brand: brand})
		code, ok := card.TypeCode()
		assert.False(t, ok, "brand %q should not map", brand)
		assert.Equal(t, "", code)
	}
}

func TestCardToken_IsCheck(t *testing.T) {
	assert.False(t, NewCardToken(nil).IsCheck())
}

func TestCardToken_Scenarios(t *testing.T) {
	t.Run("valid visa token", func(t *testing.T) {
		card := NewCardToken(&CardTokenCreator{Token: "123456789012", Month: "9", Year: "2010", Brand: "visa"})
		findings := NewFindings()
		card.Validate(findings)

		assert.True(t, findings.Empty())
		code, ok := card.TypeCode()
		require.True(t, ok)
		assert.Equal(t, "VI", code)
		assert.Equal(t, "0910", card.ExpDate())
	})

	t.Run("bad token only", func(t *testing.T) {
		card := NewCardToken(&CardTokenCreator{Token: "abc"})
		findings := NewFindings()
		card.Validate(findings)

		assert.Len(t, findings.Items(), 1)
		assert.Len(t, findings.On("token"), 1)
		assert.Equal(t, "", card.ExpDate())
	})

	t.Run("month out of range leaves year alone", func(t *testing.T) {
		card := NewCardToken(&CardTokenCreator{Token: "123456789012", Month: "13", Year: "2010"})
		findings := NewFindings()
		card.Validate(findings)

		assert.Len(t, findings.On("month"), 1)
		assert.Empty(t, findings.On("year"))
	})

	t.Run("lone old year activates the check", func(t *testing.T) {
		card := NewCardToken(&CardTokenCreator{Token: "123456789012", Month: "0", Year: "1980"})
		findings := NewFindings()
		card.Validate(findings)

		assert.Len(t, findings.On("year"), 1)
		assert.False(t, card.HasExpiration())
	})

	t.Run("unknown brand", func(t *testing.T) {
		card := NewCardToken(&CardTokenCreator{Token: "123456789012", Brand: "unknown_brand"})
		findings := NewFindings()
		card.Validate(findings)

		assert.Len(t, findings.Items(), 1)
		assert.Len(t, findings.On("brand"), 1)
	})
}

func TestCardToken_CustomRegistry(t *testing.T) {
	registry := NewBrandRegistry("visa")

	card := NewCardToken(&CardTokenCreator{Token: "123456789012", Brand: "maestro"}).
		WithBrandRegistry(registry)
	findings := NewFindings()
	card.Validate(findings)

	assert.Len(t, findings.On("brand"), 1)
}
