package application

import (
	"context"

	"github.com/cardvault/token-system/shared/events"
	"github.com/cardvault/token-system/shared/models"
	"github.com/cardvault/token-system/tokens-service/domain"
	"github.com/pkg/errors"
)

// RevokeCardTokenCommand represents the command to revoke a stored card token
type RevokeCardTokenCommand struct {
	TokenID string `json:"token_id"`
}

// RevokeCardToken use case takes a stored token out of service
type RevokeCardToken struct {
	tokenRepository domain.TokenRepository
	eventPublisher  events.Publisher
}

// NewRevokeCardToken creates a new RevokeCardToken use case
func NewRevokeCardToken(
	tokenRepository domain.TokenRepository,
	eventPublisher events.Publisher,
) *RevokeCardToken {
	return &RevokeCardToken{
		tokenRepository: tokenRepository,
		eventPublisher:  eventPublisher,
	}
}

// Execute revokes the token registration and publishes its events
func (uc *RevokeCardToken) Execute(ctx context.Context, cmd *RevokeCardTokenCommand) error {
	if cmd == nil || cmd.TokenID == "" {
		return errors.New("token ID is required")
	}

	tokenID, err := models.NewID(cmd.TokenID)
	if err != nil {
		return errors.Wrap(err, "invalid token ID")
	}

	registration, err := uc.tokenRepository.FindByID(ctx, tokenID)
	if err != nil {
		return errors.Wrap(err, "failed to find token registration")
	}

	if registration == nil {
		return errors.New("token registration not found")
	}

	if err := registration.Revoke(); err != nil {
		return errors.Wrap(err, "failed to revoke token")
	}

	if err := uc.tokenRepository.Save(ctx, registration); err != nil {
		return errors.Wrap(err, "failed to save token registration")
	}

	if err := uc.eventPublisher.Publish(ctx, registration.Events()...); err != nil {
		return errors.Wrap(err, "failed to publish events")
	}

	registration.ClearEvents()

	return nil
}
