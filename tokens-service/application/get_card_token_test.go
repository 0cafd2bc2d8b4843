package application

import (
	"context"
	"testing"

	"github.com/cardvault/token-system/shared/models"
	"github.com/cardvault/token-system/tokens-service/domain"
	"github.com/cardvault/token-system/tokens-service/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetCardToken_Execute(t *testing.T) {
	userID := models.ID("550e8400-e29b-41d4-a716-446655440010")
	card := domain.NewCardToken(&domain.CardTokenCreator{Token: "123456789012", Month: "9", Year: "2030", Brand: "jcb"})
	registration, err := domain.RegisterToken(userID, card)
	require.NoError(t, err)

	tests := []struct {
		name          string
		query         *GetCardTokenQuery
		setupMocks    func(*mocks.MockTokenRepository)
		expectedError string
		checkResponse func(*testing.T, *GetCardTokenResponse)
	}{
		{
			name:  "found",
			query: &GetCardTokenQuery{TokenID: registration.ID.String()},
			setupMocks: func(repo *mocks.MockTokenRepository) {
				repo.EXPECT().FindByID(mock.Anything, registration.ID).Return(registration, nil).Once()
			},
			checkResponse: func(t *testing.T, resp *GetCardTokenResponse) {
				assert.Equal(t, registration.ID.String(), resp.TokenID)
				assert.Equal(t, userID.String(), resp.UserID)
				assert.Equal(t, "123456789012", resp.Token)
				assert.Equal(t, "jcb", resp.Brand)
				assert.Equal(t, "DI", resp.TypeCode)
				assert.True(t, resp.HasExpiration)
				assert.Equal(t, "0930", resp.ExpDate)
				assert.Equal(t, "active", resp.Status)
			},
		},
		{
			name:  "not found",
			query: &GetCardTokenQuery{TokenID: "550e8400-e29b-41d4-a716-446655440099"},
			setupMocks: func(repo *mocks.MockTokenRepository) {
				repo.EXPECT().FindByID(mock.Anything, mock.Anything).Return(nil, nil).Once()
			},
			expectedError: "token registration not found",
		},
		{
			name:  "repository error",
			query: &GetCardTokenQuery{TokenID: "550e8400-e29b-41d4-a716-446655440099"},
			setupMocks: func(repo *mocks.MockTokenRepository) {
				repo.EXPECT().FindByID(mock.Anything, mock.Anything).Return(nil, errors.New("database error")).Once()
			},
			expectedError: "failed to find token registration",
		},
		{
			name:          "invalid token ID",
			query:         &GetCardTokenQuery{TokenID: "not-a-uuid"},
			setupMocks:    func(repo *mocks.MockTokenRepository) {},
			expectedError: "invalid token ID",
		},
		{
			name:          "missing token ID",
			query:         &GetCardTokenQuery{},
			setupMocks:    func(repo *mocks.MockTokenRepository) {},
			expectedError: "token ID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockTokenRepository(t)
			tt.setupMocks(repo)

			uc := NewGetCardToken(repo)
			resp, err := uc.Execute(context.Background(), tt.query)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			tt.checkResponse(t, resp)
		})
	}
}
