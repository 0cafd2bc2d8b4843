package application

import (
	"context"

	"github.com/cardvault/token-system/shared/events"
	"github.com/cardvault/token-system/shared/models"
	"github.com/cardvault/token-system/tokens-service/domain"
	"github.com/pkg/errors"
)

// RegisterCardTokenCommand carries a card token to validate and keep on file
type RegisterCardTokenCommand struct {
	UserID            string `json:"user_id"`
	Token             string `json:"token"`
	Month             string `json:"month"`
	Year              string `json:"year"`
	VerificationValue string `json:"verification_value"`
	Brand             string `json:"brand"`
}

// RegisterCardTokenResponse reports either the stored token ID or the findings
type RegisterCardTokenResponse struct {
	TokenID  string           `json:"token_id,omitempty"`
	Valid    bool             `json:"valid"`
	Findings []domain.Finding `json:"findings,omitempty"`
}

// RegisterCardToken use case validates a card token and stores it when clean
type RegisterCardToken struct {
	tokenRepository domain.TokenRepository
	eventPublisher  events.Publisher
}

// NewRegisterCardToken creates a new RegisterCardToken use case
func NewRegisterCardToken(
	tokenRepository domain.TokenRepository,
	eventPublisher events.Publisher,
) *RegisterCardToken {
	return &RegisterCardToken{
		tokenRepository: tokenRepository,
		eventPublisher:  eventPublisher,
	}
}

// Execute validates the card token; a token with findings is rejected (not an
// error), a clean token is registered and its events published
func (uc *RegisterCardToken) Execute(ctx context.Context, cmd *RegisterCardTokenCommand) (*RegisterCardTokenResponse, error) {
	if cmd == nil {
		return nil, errors.New("command is required")
	}

	userID, err := models.NewID(cmd.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid user ID")
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

	if !findings.Empty() {
		rejected := events.NewEvent(models.GenerateUUID(), events.CardTokenRejectedEvent, domain.TokenRejectedData{
			UserID:   userID,
			Findings: findings.Items(),
		})

		if err := uc.eventPublisher.Publish(ctx, rejected); err != nil {
			return nil, errors.Wrap(err, "failed to publish token rejected event")
		}

		return &RegisterCardTokenResponse{
			Valid:    false,
			Findings: findings.Items(),
		}, nil
	}

	registration, err := domain.RegisterToken(userID, card)
	if err != nil {
		return nil, errors.Wrap(err, "failed to register token")
	}

	if err := uc.tokenRepository.Save(ctx, registration); err != nil {
		return nil, errors.Wrap(err, "failed to save token registration")
	}

	if err := uc.eventPublisher.Publish(ctx, registration.Events()...); err != nil {
		return nil, errors.Wrap(err, "failed to publish events")
	}

	registration.ClearEvents()

	return &RegisterCardTokenResponse{
		TokenID: registration.ID.String(),
		Valid:   true,
	}, nil
}
