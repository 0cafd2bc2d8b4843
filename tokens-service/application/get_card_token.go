package application

import (
	"context"

	"github.com/cardvault/token-system/shared/models"
	"github.com/cardvault/token-system/tokens-service/domain"
	"github.com/pkg/errors"
)

// GetCardTokenQuery represents the query to get a stored card token
type GetCardTokenQuery struct {
	TokenID string `json:"token_id"`
}

// GetCardTokenResponse represents a stored card token with derived fields
type GetCardTokenResponse struct {
	TokenID       string `json:"token_id"`
	UserID        string `json:"user_id"`
	Token         string `json:"token"`
	Brand         string `json:"brand,omitempty"`
	TypeCode      string `json:"type_code,omitempty"`
	HasExpiration bool   `json:"has_expiration"`
	ExpDate       string `json:"exp_date,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// GetCardToken use case
type GetCardToken struct {
	tokenRepository domain.TokenRepository
}

// NewGetCardToken creates a new GetCardToken use case
func NewGetCardToken(tokenRepository domain.TokenRepository) *GetCardToken {
	return &GetCardToken{
		tokenRepository: tokenRepository,
	}
}

// Execute executes the get card token use case
func (uc *GetCardToken) Execute(ctx context.Context, query *GetCardTokenQuery) (*GetCardTokenResponse, error) {
	if query == nil || query.TokenID == "" {
		return nil, errors.New("token ID is required")
	}

	tokenID, err := models.NewID(query.TokenID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid token ID")
	}

	registration, err := uc.tokenRepository.FindByID(ctx, tokenID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find token registration")
	}

	if registration == nil {
		return nil, errors.New("token registration not found")
	}

	typeCode, _ := registration.Card.TypeCode()

	return &GetCardTokenResponse{
		TokenID:       registration.ID.String(),
		UserID:        registration.UserID.String(),
		Token:         registration.Card.Token,
		Brand:         registration.Card.Brand,
		TypeCode:      typeCode,
		HasExpiration: registration.Card.HasExpiration(),
		ExpDate:       registration.Card.ExpDate(),
		Status:        string(registration.Status),
		CreatedAt:     registration.Timestamps.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     registration.Timestamps.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}
