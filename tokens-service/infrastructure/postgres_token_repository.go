package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/cardvault/token-system/shared/events"
	"github.com/cardvault/token-system/shared/models"
	"github.com/cardvault/token-system/tokens-service/domain"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// PostgresTokenRepository implements TokenRepository using PostgreSQL
type PostgresTokenRepository struct {
	db *sqlx.DB
}

// NewPostgresTokenRepository creates a new PostgresTokenRepository
func NewPostgresTokenRepository(db *sqlx.DB) *PostgresTokenRepository {
	return &PostgresTokenRepository{db: db}
}

// postgresTokenRegistration represents a token registration in the database
type postgresTokenRegistration struct {
	ID                string     `db:"id"`
	UserID            string     `db:"user_id"`
	Token             string     `db:"token"`
	Month             string     `db:"month"`
	Year              string     `db:"year"`
	VerificationValue string     `db:"verification_value"`
	Brand             string     `db:"brand"`
	Status            string     `db:"status"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
	Version           int        `db:"version"`
}

// Save saves a token registration, picking insert or update from the
// recorded domain events
func (r *PostgresTokenRepository) Save(ctx context.Context, registration *domain.TokenRegistration) error {
	for _, event := range registration.Events() {
		switch event.EventType {
		case events.CardTokenRegisteredEvent:
			return r.insertRegistration(ctx, registration)
		case events.CardTokenRevokedEvent:
			return r.updateRegistration(ctx, registration)
		}
	}
	return nil
}

func (r *PostgresTokenRepository) insertRegistration(ctx context.Context, registration *domain.TokenRegistration) error {
	query := `
		INSERT INTO token_registrations (
			id, user_id, token, month, year, verification_value, brand,
			status, created_at, updated_at, version
		) VALUES (
			:id, :user_id, :token, :month, :year, :verification_value, :brand,
			:status, :created_at, :updated_at, :version
		)`

	_, err := r.db.NamedExecContext(ctx, query, r.toPostgres(registration))
	if err != nil {
		return errors.Wrap(err, "failed to insert token registration")
	}

	return nil
}

func (r *PostgresTokenRepository) updateRegistration(ctx context.Context, registration *domain.TokenRegistration) error {
	query := `
		UPDATE token_registrations
		SET status = :status, updated_at = :updated_at, version = :version
		WHERE id = :id AND version = :old_version`

	res, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":          registration.ID.String(),
		"status":      string(registration.Status),
		"updated_at":  registration.Timestamps.UpdatedAt,
		"version":     registration.Version.Value,
		"old_version": registration.Version.Value - 1, // Optimistic locking
	})
	if err != nil {
		return errors.Wrap(err, "failed to update token registration")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return errors.New("concurrent modification of token registration")
	}

	return nil
}

// FindByID finds a token registration by ID
func (r *PostgresTokenRepository) FindByID(ctx context.Context, id models.ID) (*domain.TokenRegistration, error) {
	query := `
		SELECT id, user_id, token, month, year, verification_value, brand,
			   status, created_at, updated_at, deleted_at, version
		FROM token_registrations
		WHERE id = $1 AND deleted_at IS NULL`

	var pgRegistration postgresTokenRegistration
	err := r.db.GetContext(ctx, &pgRegistration, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Registration not found
		}
		return nil, errors.Wrap(err, "failed to find token registration")
	}

	return r.toDomain(&pgRegistration), nil
}

// FindByUserID finds all token registrations for a user
func (r *PostgresTokenRepository) FindByUserID(ctx context.Context, userID models.ID) ([]*domain.TokenRegistration, error) {
	query := `
		SELECT id, user_id, token, month, year, verification_value, brand,
			   status, created_at, updated_at, deleted_at, version
		FROM token_registrations
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	var pgRegistrations []postgresTokenRegistration
	err := r.db.SelectContext(ctx, &pgRegistrations, query, userID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to find token registrations")
	}

	registrations := make([]*domain.TokenRegistration, len(pgRegistrations))
	for i := range pgRegistrations {
		registrations[i] = r.toDomain(&pgRegistrations[i])
	}

	return registrations, nil
}

func (r *PostgresTokenRepository) toPostgres(registration *domain.TokenRegistration) *postgresTokenRegistration {
	return &postgresTokenRegistration{
		ID:                registration.ID.String(),
		UserID:            registration.UserID.String(),
		Token:             registration.Card.Token,
		Month:             registration.Card.Month,
		Year:              registration.Card.Year,
		VerificationValue: registration.Card.VerificationValue,
		Brand:             registration.Card.Brand,
		Status:            string(registration.Status),
		CreatedAt:         registration.Timestamps.CreatedAt,
		UpdatedAt:         registration.Timestamps.UpdatedAt,
		DeletedAt:         registration.Timestamps.DeletedAt,
		Version:           registration.Version.Value,
	}
}

func (r *PostgresTokenRepository) toDomain(pgRegistration *postgresTokenRegistration) *domain.TokenRegistration {
	return &domain.TokenRegistration{
		ID:     models.ID(pgRegistration.ID),
		UserID: models.ID(pgRegistration.UserID),
		Card: *domain.NewCardToken(&domain.CardTokenCreator{
			Token:             pgRegistration.Token,
			Month:             pgRegistration.Month,
			Year:              pgRegistration.Year,
			VerificationValue: pgRegistration.VerificationValue,
			Brand:             pgRegistration.Brand,
		}),
		Status: domain.TokenStatus(pgRegistration.Status),
		Timestamps: models.Timestamps{
			CreatedAt: pgRegistration.CreatedAt,
			UpdatedAt: pgRegistration.UpdatedAt,
			DeletedAt: pgRegistration.DeletedAt,
		},
		Version: models.Version{Value: pgRegistration.Version},
	}
}
