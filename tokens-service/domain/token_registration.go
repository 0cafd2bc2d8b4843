package domain

import (
	"context"
	"time"

	"github.com/cardvault/token-system/shared/events"
	"github.com/cardvault/token-system/shared/models"
	"github.com/pkg/errors"
)

// TokenStatus represents the lifecycle status of a stored token
type TokenStatus string

const (
	TokenStatusActive  TokenStatus = "active"
	TokenStatusRevoked TokenStatus = "revoked"
)

// TokenRegistration aggregate root. It holds a card token that passed
// validation and is kept on file for the gateway client.
type TokenRegistration struct {
	ID         models.ID
	UserID     models.ID
	Card       CardToken
	Status     TokenStatus
	Timestamps models.Timestamps
	Version    models.Version

	events []*events.Event
}

// RegisterToken factory method. Callers validate the card token first; a
// token value is still required here.
func RegisterToken(userID models.ID, card *CardToken) (*TokenRegistration, error) {
	if card == nil || card.Token == "" {
		return nil, errors.New("card token is required")
	}

	registration := &TokenRegistration{
		ID:         models.GenerateUUID(),
		UserID:     userID,
		Card:       *card,
		Status:     TokenStatusActive,
		Timestamps: models.NewTimestamps(),
		Version:    models.NewVersion(),
	}

	typeCode, _ := card.TypeCode()
	event := events.NewEvent(registration.ID, events.CardTokenRegisteredEvent, TokenRegisteredData{
		TokenID:  registration.ID,
		UserID:   registration.UserID,
		Brand:    card.Brand,
		TypeCode: typeCode,
		ExpDate:  card.ExpDate(),
	})

	registration.recordEvent(event)
	return registration, nil
}

// Revoke marks the registration as revoked
func (r *TokenRegistration) Revoke() error {
	if r.Status == TokenStatusRevoked {
		return errors.New("token is already revoked")
	}

	r.Status = TokenStatusRevoked
	r.Timestamps = r.Timestamps.Update()
	r.Version = r.Version.Update()

	event := events.NewEvent(r.ID, events.CardTokenRevokedEvent, TokenRevokedData{
		TokenID:   r.ID,
		UserID:    r.UserID,
		RevokedAt: time.Now(),
	})

	r.recordEvent(event)
	return nil
}

// Events returns domain events
func (r *TokenRegistration) Events() []*events.Event {
	return r.events
}

// ClearEvents clears domain events
func (r *TokenRegistration) ClearEvents() {
	r.events = make([]*events.Event, 0)
}

func (r *TokenRegistration) recordEvent(event *events.Event) {
	r.events = append(r.events, event)
}

// Event Data Structures
type TokenRegisteredData struct {
	TokenID  models.ID `json:"token_id"`
	UserID   models.ID `json:"user_id"`
	Brand    string    `json:"brand"`
	TypeCode string    `json:"type_code"`
	ExpDate  string    `json:"exp_date"`
}

type TokenRevokedData struct {
	TokenID   models.ID `json:"token_id"`
	UserID    models.ID `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
}

type TokenRejectedData struct {
	UserID   models.ID `json:"user_id"`
	Findings []Finding `json:"findings"`
}

// TokenRepository interface
type TokenRepository interface {
	Save(ctx context.Context, registration *TokenRegistration) error
	FindByID(ctx context.Context, id models.ID) (*TokenRegistration, error)
	FindByUserID(ctx context.Context, userID models.ID) ([]*TokenRegistration, error)
}
