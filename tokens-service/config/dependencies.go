package config

import (
	"context"
	"fmt"
	"log"

	"github.com/cardvault/token-system/shared/events"
	sharedinfra "github.com/cardvault/token-system/shared/infrastructure"
	"github.com/cardvault/token-system/shared/telemetry"
	"github.com/cardvault/token-system/tokens-service/application"
	"github.com/cardvault/token-system/tokens-service/handlers"
	"github.com/cardvault/token-system/tokens-service/infrastructure"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	TokenRepository *infrastructure.PostgresTokenRepository

	// Use Cases
	ValidateCardToken *application.ValidateCardToken
	RegisterCardToken *application.RegisterCardToken
	GetCardToken      *application.GetCardToken
	RevokeCardToken   *application.RevokeCardToken

	// HTTP Handlers
	TokenHandlers *handlers.TokenHandlers

	// Event Handlers
	TokenEventHandlers *handlers.TokenEventHandlers

	// Infrastructure
	EventStore      *sharedinfra.PostgresEventStore
	EventPublisher  events.Publisher
	EventSubscriber *sharedinfra.SQSSubscriberAdapter

	// Telemetry
	Telemetry         *telemetry.Telemetry
	TelemetryShutdown func()

	snsPublisher *sharedinfra.SNSPublisherAdapter
}

func BuildDependencies(ctx context.Context, config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	// Initialize telemetry first
	if config.Telemetry.Enabled {
		telConfig := telemetry.TokensServiceConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint)
		tel, telemetryShutdown, err := telemetry.InitTelemetry(ctx, telConfig)
		if err != nil {
			log.Printf("Failed to initialize telemetry: %v", err)
			// Continue without telemetry rather than failing
		} else {
			deps.Telemetry = tel
			deps.TelemetryShutdown = telemetryShutdown
		}
	}

	// Initialize database
	db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	deps.DB = db

	// Initialize AWS infrastructure
	snsPublisher, err := sharedinfra.NewSNSPublisherAdapter(config.AWS.SNSTopicArn)
	if err != nil {
		return nil, fmt.Errorf("failed to create SNS publisher: %w", err)
	}
	deps.snsPublisher = snsPublisher

	eventSubscriber, err := sharedinfra.NewSQSSubscriberAdapter(config.AWS.SQSQueueURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQS subscriber: %w", err)
	}
	deps.EventSubscriber = eventSubscriber

	// Published events are persisted to the event store before going out
	deps.EventStore = sharedinfra.NewPostgresEventStore(db)
	deps.EventPublisher = sharedinfra.NewAuditedPublisher(deps.EventStore, snsPublisher)

	// Initialize repositories
	deps.TokenRepository = infrastructure.NewPostgresTokenRepository(db)

	// Initialize use cases
	deps.ValidateCardToken = application.NewValidateCardToken()
	deps.RegisterCardToken = application.NewRegisterCardToken(deps.TokenRepository, deps.EventPublisher)
	deps.GetCardToken = application.NewGetCardToken(deps.TokenRepository)
	deps.RevokeCardToken = application.NewRevokeCardToken(deps.TokenRepository, deps.EventPublisher)

	// Initialize handlers
	deps.TokenHandlers = handlers.NewTokenHandlers(
		deps.ValidateCardToken,
		deps.RegisterCardToken,
		deps.GetCardToken,
		deps.RevokeCardToken,
	)
	deps.TokenEventHandlers = handlers.NewTokenEventHandlers(deps.RegisterCardToken)

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.snsPublisher != nil {
		if err := d.snsPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	if d.EventSubscriber != nil {
		if err := d.EventSubscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event subscriber: %w", err))
		}
	}

	if d.TelemetryShutdown != nil {
		d.TelemetryShutdown()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
