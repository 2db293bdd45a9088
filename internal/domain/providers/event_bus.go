package providers

import (
	"context"

	"github.com/tecnoclick/search-backend/internal/domain/entities"
)

// EventBus carries catalog events between the external sync service and this
// process.
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel
	Publish(ctx context.Context, channel string, event *entities.CatalogEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.CatalogEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelCatalog is the channel the catalog sync publishes to after
// each run.
const EventChannelCatalog = "catalog:updates"
