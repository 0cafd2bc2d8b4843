package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cardvault/token-system/shared/events"
	"github.com/cardvault/token-system/shared/models"
	"github.com/cardvault/token-system/tokens-service/application"
	"github.com/cardvault/token-system/tokens-service/domain"
	"github.com/cardvault/token-system/tokens-service/mocks"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, repo *mocks.MockTokenRepository, publisher *mocks.MockPublisher) *chi.Mux {
	t.Helper()

	handlers := NewTokenHandlers(
		application.NewValidateCardToken(),
		application.NewRegisterCardToken(repo, publisher),
		application.NewGetCardToken(repo),
		application.NewRevokeCardToken(repo, publisher),
	)

	router := chi.NewRouter()
	handlers.RegisterRoutes(router)
	return router
}

func TestTokenHandlers_ValidateToken(t *testing.T) {
	router := newTestRouter(t, mocks.NewMockTokenRepository(t), mocks.NewMockPublisher(t))

	body := bytes.NewBufferString(`{"token":"123456789012","month":"9","year":"2010","brand":"visa"}`)
	req := httptest.NewRequest(http.MethodPost, "/tokens/validate", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp application.ValidateCardTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "VI", resp.TypeCode)
	assert.Equal(t, "0910", resp.ExpDate)
}

func TestTokenHandlers_ValidateToken_BadBody(t *testing.T) {
	router := newTestRouter(t, mocks.NewMockTokenRepository(t), mocks.NewMockPublisher(t))

	req := httptest.NewRequest(http.MethodPost, "/tokens/validate", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenHandlers_RegisterToken(t *testing.T) {
	repo := mocks.NewMockTokenRepository(t)
	publisher := mocks.NewMockPublisher(t)
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
	router := newTestRouter(t, repo, publisher)

	body := bytes.NewBufferString(`{"user_id":"550e8400-e29b-41d4-a716-446655440010","token":"123456789012","brand":"visa"}`)
	req := httptest.NewRequest(http.MethodPost, "/tokens/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp application.RegisterCardTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.NotEmpty(t, resp.TokenID)
}

func TestTokenHandlers_RegisterToken_Findings(t *testing.T) {
	repo := mocks.NewMockTokenRepository(t)
	publisher := mocks.NewMockPublisher(t)
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
	router := newTestRouter(t, repo, publisher)

	body := bytes.NewBufferString(`{"user_id":"550e8400-e29b-41d4-a716-446655440010","token":"abc"}`)
	req := httptest.NewRequest(http.MethodPost, "/tokens/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp application.RegisterCardTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.Len(t, resp.Findings, 1)
	assert.Equal(t, "token", resp.Findings[0].Field)
}

func TestTokenHandlers_GetToken(t *testing.T) {
	registration, err := domain.RegisterToken(
		models.ID("550e8400-e29b-41d4-a716-446655440010"),
		domain.NewCardToken(&domain.CardTokenCreator{Token: "123456789012", Brand: "discover"}),
	)
	require.NoError(t, err)

	repo := mocks.NewMockTokenRepository(t)
	repo.EXPECT().FindByID(mock.Anything, registration.ID).Return(registration, nil).Once()
	router := newTestRouter(t, repo, mocks.NewMockPublisher(t))

	req := httptest.NewRequest(http.MethodGet, "/tokens/"+registration.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp application.GetCardTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DI", resp.TypeCode)
	assert.Equal(t, "active", resp.Status)
}

func TestTokenHandlers_GetToken_NotFound(t *testing.T) {
	repo := mocks.NewMockTokenRepository(t)
	repo.EXPECT().FindByID(mock.Anything, mock.Anything).Return(nil, nil).Once()
	router := newTestRouter(t, repo, mocks.NewMockPublisher(t))

	req := httptest.NewRequest(http.MethodGet, "/tokens/550e8400-e29b-41d4-a716-446655440099", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTokenHandlers_RevokeToken(t *testing.T) {
	registration, err := domain.RegisterToken(
		models.GenerateUUID(),
		domain.NewCardToken(&domain.CardTokenCreator{Token: "123456789012"}),
	)
	require.NoError(t, err)
	registration.ClearEvents()

	repo := mocks.NewMockTokenRepository(t)
	publisher := mocks.NewMockPublisher(t)
	repo.EXPECT().FindByID(mock.Anything, registration.ID).Return(registration, nil).Once()
	repo.EXPECT().Save(mock.Anything, registration).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()
	router := newTestRouter(t, repo, publisher)

	req := httptest.NewRequest(http.MethodDelete, "/tokens/"+registration.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func newTokenizedEvent(t *testing.T, data PaymentMethodTokenizedData) *events.Event {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	return events.NewEvent(models.GenerateUUID(), events.PaymentMethodTokenizedEvent, json.RawMessage(payload))
}

func TestTokenEventHandlers_Handle(t *testing.T) {
	repo := mocks.NewMockTokenRepository(t)
	publisher := mocks.NewMockPublisher(t)
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil).Once()

	handler := NewTokenEventHandlers(application.NewRegisterCardToken(repo, publisher))

	event := newTokenizedEvent(t, PaymentMethodTokenizedData{
		UserID: "550e8400-e29b-41d4-a716-446655440010",
		Token:  "123456789012",
		Month:  "9",
		Year:   "2030",
		Brand:  "visa",
	})

	require.NoError(t, handler.Handle(context.Background(), event))
}

func TestTokenEventHandlers_Handle_UnknownEventIgnored(t *testing.T) {
	handler := NewTokenEventHandlers(application.NewRegisterCardToken(
		mocks.NewMockTokenRepository(t), mocks.NewMockPublisher(t)))

	event := newTokenizedEvent(t, PaymentMethodTokenizedData{})
	event.EventType = "something.else"

	assert.NoError(t, handler.Handle(context.Background(), event))
}
