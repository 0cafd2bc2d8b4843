package domain

import "sort"

// BrandRegistry is a read-only set of brand identifiers the gateway accepts
type BrandRegistry struct {
	brands map[string]struct{}
}

// NewBrandRegistry creates a registry recognizing the given brand identifiers
func NewBrandRegistry(brands ...string) *BrandRegistry {
	set := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		set[b] = struct{}{}
	}
	return &BrandRegistry{brands: set}
}

// Knows reports whether the brand identifier is recognized
func (r *BrandRegistry) Knows(brand string) bool {
	_, ok := r.brands[brand]
	return ok
}

// Brands returns the recognized identifiers in sorted order
func (r *BrandRegistry) Brands() []string {
	out := make([]string, 0, len(r.brands))
	for b := range r.brands {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// DefaultBrandRegistry recognizes every brand the gateway accepts. This is a
// superset of the brands that map to a type code: brands like "switch" or
// "maestro" pass validation but yield no code.
var DefaultBrandRegistry = NewBrandRegistry(
	"visa",
	"master",
	"discover",
	"american_express",
	"diners_club",
	"jcb",
	"switch",
	"solo",
	"dankort",
	"maestro",
	"forbrugsforeningen",
	"laser",
)
