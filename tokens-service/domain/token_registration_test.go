package domain

import (
	"testing"

	"github.com/cardvault/token-system/shared/events"
	"github.com/cardvault/token-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterToken(t *testing.T) {
	userID := models.GenerateUUID()
	card := NewCardToken(&CardTokenCreator{Token: "123456789012", Month: "9", Year: "2030", Brand: "visa"})

	registration, err := RegisterToken(userID, card)
	require.NoError(t, err)

	assert.NotEmpty(t, registration.ID)
	assert.Equal(t, userID, registration.UserID)
	assert.Equal(t, TokenStatusActive, registration.Status)
	assert.Equal(t, 1, registration.Version.Value)

	require.Len(t, registration.Events(), 1)
	event := registration.Events()[0]
	assert.Equal(t, events.CardTokenRegisteredEvent, event.EventType)

	data, ok := event.Data.(TokenRegisteredData)
	require.True(t, ok)
	assert.Equal(t, "VI", data.TypeCode)
	assert.Equal(t, "0930", data.ExpDate)
}

func TestRegisterToken_RequiresToken(t *testing.T) {
	_, err := RegisterToken(models.GenerateUUID(), NewCardToken(nil))
	assert.EqualError(t, err, "card token is required")

	_, err = RegisterToken(models.GenerateUUID(), nil)
	assert.EqualError(t, err, "card token is required")
}

func TestTokenRegistration_Revoke(t *testing.T) {
	registration, err := RegisterToken(models.GenerateUUID(), NewCardToken(&CardTokenCreator{Token: "123456789012"}))
	require.NoError(t, err)
	registration.ClearEvents()

	require.NoError(t, registration.Revoke())
	assert.Equal(t, TokenStatusRevoked, registration.Status)
	assert.Equal(t, 2, registration.Version.Value)

	require.Len(t, registration.Events(), 1)
	assert.Equal(t, events.CardTokenRevokedEvent, registration.Events()[0].EventType)

	err = registration.Revoke()
	assert.EqualError(t, err, "token is already revoked")
}
