package search

import (
	"context"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
	"go.uber.org/zap"

	"github.com/mwhayford/rental-service/internal/config"
	"github.com/mwhayford/rental-service/internal/events"
	"github.com/mwhayford/rental-service/internal/repository"
)

// listingRecord is the document shape pushed to the search index.
type listingRecord struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MetroArea   string `json:"metro_area"`
	City        string `json:"city"`
	Type        string `json:"type"`
	Bedrooms    int    `json:"bedrooms"`
	Bathrooms   int    `json:"bathrooms"`
	RentAmount  int64  `json:"rent_amount"`
	Currency    string `json:"currency"`
	Available   bool   `json:"available"`
}

// Indexer mirrors listed properties into the hosted search index. It is
// best-effort: indexing failures are logged, never surfaced to callers.
type Indexer struct {
	index      *search.Index
	properties repository.PropertyRepository
	logger     *zap.Logger
}

// NewIndexer returns nil when search credentials are not configured.
func NewIndexer(cfg config.SearchConfig, properties repository.PropertyRepository, logger *zap.Logger) *Indexer {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil
	}
	client := search.NewClient(cfg.AppID, cfg.APIKey)
	return &Indexer{
		index:      client.InitIndex(cfg.Index),
		properties: properties,
		logger:     logger,
	}
}

// Register subscribes the indexer to listing lifecycle events.
func (ix *Indexer) Register(dispatcher events.Dispatcher) {
	if ix == nil || dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventPropertyListed, ix.handleListed)
	dispatcher.Subscribe(events.EventPropertyUnlisted, ix.handleUnlisted)
}

func (ix *Indexer) handleListed(ctx context.Context, event events.Event) error {
	property, err := ix.properties.GetByID(ctx, event.AggregateID)
	if err != nil {
		ix.logger.Warn("search index skip, property not loadable",
			zap.String("property_id", event.AggregateID), zap.Error(err))
		return nil
	}
	record := listingRecord{
		ObjectID:    property.ID,
		Title:       property.Title,
		Description: property.Description,
		MetroArea:   property.MetroArea,
		City:        property.Address.City,
		Type:        string(property.Type),
		Bedrooms:    property.Bedrooms,
		Bathrooms:   property.Bathrooms,
		RentAmount:  property.MonthlyRent.Amount,
		Currency:    property.MonthlyRent.Currency,
		Available:   property.IsAvailable,
	}
	if _, err := ix.index.SaveObject(record); err != nil {
		ix.logger.Warn("search index save failed",
			zap.String("property_id", property.ID), zap.Error(err))
	}
	return nil
}

func (ix *Indexer) handleUnlisted(_ context.Context, event events.Event) error {
	if _, err := ix.index.DeleteObject(event.AggregateID); err != nil {
		ix.logger.Warn("search index delete failed",
			zap.String("property_id", event.AggregateID), zap.Error(err))
	}
	return nil
}
