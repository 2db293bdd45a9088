package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tecnoclick/search-backend/internal/domain/entities"
	"github.com/tecnoclick/search-backend/internal/domain/providers"
)

// CacheInvalidationService listens for catalog events published by the
// external sync service and invalidates the known-terms vocabulary when
// group, subgroup or brand membership may have changed.
type CacheInvalidationService struct {
	vocabulary *VocabularyService
	eventBus   providers.EventBus
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(vocabulary *VocabularyService, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		vocabulary: vocabulary,
		eventBus:   eventBus,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start begins listening for catalog events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelCatalog)
	if err != nil {
		return fmt.Errorf("failed to subscribe to catalog events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.CatalogEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.CatalogEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info().
		Str("event_id", event.ID).
		Str("source", event.Source).
		Str("event_type", string(event.EventType)).
		Msg("processing catalog event")

	switch event.EventType {
	case entities.CatalogEventSynced, entities.CatalogEventVocabularyChanged:
		s.vocabulary.Invalidate(ctx)
	default:
		log.Debug().Str("event_type", string(event.EventType)).Msg("ignoring catalog event")
	}
}
