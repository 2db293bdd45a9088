package entities

import "time"

// CatalogEventType identifies what the external catalog sync changed.
type CatalogEventType string

const (
	// CatalogEventSynced signals that a sync run finished and product rows
	// may have changed.
	CatalogEventSynced CatalogEventType = "catalog.synced"

	// CatalogEventVocabularyChanged signals that group, subgroup or brand
	// membership changed and the known-terms vocabulary is stale.
	CatalogEventVocabularyChanged CatalogEventType = "catalog.vocabulary_changed"
)

// CatalogEvent is published by the external catalog sync after each run.
type CatalogEvent struct {
	ID         string           `json:"id"`
	Source     string           `json:"source"`
	EventType  CatalogEventType `json:"event_type"`
	OccurredAt time.Time        `json:"occurred_at"`
}
