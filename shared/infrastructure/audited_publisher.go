package infrastructure

import (
	"context"

	"github.com/cardvault/token-system/shared/events"
	"github.com/cardvault/token-system/shared/models"
	"github.com/pkg/errors"
)

var _ events.Publisher = (*AuditedPublisher)(nil)

// AuditedPublisher appends events to the event store before handing them to
// the downstream publisher. The audit write is part of the publish: if it
// fails, nothing goes out.
type AuditedPublisher struct {
	store events.EventStore
	next  events.Publisher
}

// NewAuditedPublisher creates a publisher that records an audit trail
func NewAuditedPublisher(store events.EventStore, next events.Publisher) *AuditedPublisher {
	return &AuditedPublisher{
		store: store,
		next:  next,
	}
}

// Publish implements events.Publisher interface
func (p *AuditedPublisher) Publish(ctx context.Context, evts ...*events.Event) error {
	if len(evts) == 0 {
		return nil
	}

	for aggregateID, group := range groupByAggregate(evts) {
		if err := p.store.SaveEvents(ctx, aggregateID, group); err != nil {
			return errors.Wrap(err, "failed to record events")
		}
	}

	return p.next.Publish(ctx, evts...)
}

func groupByAggregate(evts []*events.Event) map[models.ID][]*events.Event {
	groups := make(map[models.ID][]*events.Event)
	for _, event := range evts {
		groups[event.AggregateID] = append(groups[event.AggregateID], event)
	}
	return groups
}
