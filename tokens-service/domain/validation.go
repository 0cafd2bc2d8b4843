package domain

// Finding codes reported by card token validation
const (
	CodeInvalidToken           = "invalid_token"
	CodeInvalidExpirationMonth = "invalid_expiration_month"
	CodeInvalidExpirationYear  = "invalid_expiration_year"
	CodeInvalidBrand           = "invalid_brand"
)

// Finding is a single field-scoped validation failure
type Finding struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorCollector accumulates validation findings
type ErrorCollector interface {
	Add(field, code, message string)
}

// Validatable is satisfied by anything that can report findings into a collector
type Validatable interface {
	Validate(ErrorCollector)
}

// Findings is the default ErrorCollector. The zero value is ready to use.
type Findings struct {
	items []Finding
}

// NewFindings creates an empty findings collector
func NewFindings() *Findings {
	return &Findings{}
}

// Add appends a finding
func (f *Findings) Add(field, code, message string) {
	f.items = append(f.items, Finding{Field: field, Code: code, Message: message})
}

// Empty reports whether no findings were collected
func (f *Findings) Empty() bool {
	return len(f.items) == 0
}

// Items returns the collected findings in insertion order
func (f *Findings) Items() []Finding {
	return f.items
}

// On returns the findings recorded against the given field
func (f *Findings) On(field string) []Finding {
	var out []Finding
	for _, item := range f.items {
		if item.Field == field {
			out = append(out, item)
		}
	}
	return out
}
