package application

import (
	"context"

	"github.com/cardvault/token-system/shared/telemetry"
	"github.com/cardvault/token-system/tokens-service/domain"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// ValidateCardTokenCommand carries the card token fields to validate
type ValidateCardTokenCommand struct {
	Token             string `json:"token"`
	Month             string `json:"month"`
	Year              string `json:"year"`
	VerificationValue string `json:"verification_value"`
	Brand             string `json:"brand"`
}

// ValidateCardTokenResponse carries the findings and derived fields
type ValidateCardTokenResponse struct {
	Valid         bool             `json:"valid"`
	Findings      []domain.Finding `json:"findings,omitempty"`
	TypeCode      string           `json:"type_code,omitempty"`
	HasExpiration bool             `json:"has_expiration"`
	ExpDate       string           `json:"exp_date,omitempty"`
}

// ValidateCardToken use case runs validation without storing anything.
// Findings are data, not errors; the use case only fails on a missing command.
type ValidateCardToken struct{}

// NewValidateCardToken creates a new ValidateCardToken use case
func NewValidateCardToken() *ValidateCardToken {
	return &ValidateCardToken{}
}

// Execute validates the card token and reports findings plus derived fields
func (uc *ValidateCardToken) Execute(ctx context.Context, cmd *ValidateCardTokenCommand) (*ValidateCardTokenResponse, error) {
	if cmd == nil {
		return nil, errors.New("command is required")
	}

	card := domain.NewCardToken(&domain.CardTokenCreator{
		Token:             cmd.Token,
		Month:             cmd.Month,
		Year:              cmd.Year,
		VerificationValue: cmd.VerificationValue,
		Brand:             cmd.Brand,
	})

	findings := domain.NewFindings()
	card.Validate(findings)

	telemetry.RecordCounter(ctx, "card_token_validations_total", "Total card token validations", 1,
		attribute.Bool("valid", findings.Empty()),
	)

	typeCode, _ := card.TypeCode()

	return &ValidateCardTokenResponse{
		Valid:         findings.Empty(),
		Findings:      findings.Items(),
		TypeCode:      typeCode,
		HasExpiration: card.HasExpiration(),
		ExpDate:       card.ExpDate(),
	}, nil
}
