package handlers

import (
	"context"

	"github.com/cardvault/token-system/shared/events"
	"github.com/cardvault/token-system/tokens-service/application"
	"github.com/pkg/errors"
)

// PaymentMethodTokenizedData is the payload published by the gateway when it
// exchanges a card number for a token
type PaymentMethodTokenizedData struct {
	UserID            string `json:"user_id"`
	Token             string `json:"token"`
	Month             string `json:"month"`
	Year              string `json:"year"`
	VerificationValue string `json:"verification_value"`
	Brand             string `json:"brand"`
}

// TokenEventHandlers handles token-related events from the gateway
type TokenEventHandlers struct {
	registerCardToken *application.RegisterCardToken
}

// NewTokenEventHandlers creates new token event handlers
func NewTokenEventHandlers(registerCardToken *application.RegisterCardToken) *TokenEventHandlers {
	return &TokenEventHandlers{
		registerCardToken: registerCardToken,
	}
}

// HandlerID returns the unique identifier for this event handler
func (h *TokenEventHandlers) HandlerID() string {
	return "tokens-service-event-handler"
}

// Handle implements the events.EventHandler interface
func (h *TokenEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.PaymentMethodTokenizedEvent:
		return h.HandlePaymentMethodTokenized(ctx, event)
	default:
		// Unknown event type, ignore
		return nil
	}
}

// HandlePaymentMethodTokenized registers tokens issued by the gateway. A
// token that fails validation is recorded as rejected by the use case, which
// is a handled outcome, not a processing failure.
func (h *TokenEventHandlers) HandlePaymentMethodTokenized(ctx context.Context, event *events.Event) error {
	var data PaymentMethodTokenizedData
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to unmarshal payment method tokenized data")
	}

	cmd := &application.RegisterCardTokenCommand{
		UserID:            data.UserID,
		Token:             data.Token,
		Month:             data.Month,
		Year:              data.Year,
		VerificationValue: data.VerificationValue,
		Brand:             data.Brand,
	}

	if _, err := h.registerCardToken.Execute(ctx, cmd); err != nil {
		return errors.Wrap(err, "failed to register tokenized payment method")
	}

	return nil
}
