package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/shirtsearch/internal/catalog"
	"github.com/utafrali/shirtsearch/internal/domain"
	"github.com/utafrali/shirtsearch/internal/service"
	pkgkafka "github.com/utafrali/shirtsearch/pkg/kafka"
	"github.com/utafrali/shirtsearch/pkg/logger"
)

// TopicCatalogPublished carries full catalog snapshots. The event type
// matches the topic name.
var TopicCatalogPublished = pkgkafka.Topic("catalog", "published")

// CatalogPublishedData is the payload of a catalog.published event.
type CatalogPublishedData struct {
	Shirts []catalog.Record `json:"shirts"`
}

// Publisher receives validated catalogs.
type Publisher interface {
	Publish(ctx context.Context, shirts []domain.Shirt) service.CatalogInfo
}

// Consumer handles catalog events from Kafka.
type Consumer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewConsumer creates a new event consumer.
func NewConsumer(publisher Publisher, logger *slog.Logger) *Consumer {
	return &Consumer{
		publisher: publisher,
		logger:    logger,
	}
}

// Handle processes a Kafka event based on its type. The event's correlation
// id, when present, is carried in ctx so publish logs can be joined with the
// request that produced the snapshot.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	if event.CorrelationID != "" {
		ctx = logger.WithCorrelationID(ctx, event.CorrelationID)
	}

	switch event.EventType {
	case TopicCatalogPublished:
		return c.handleCatalogPublished(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

// handleCatalogPublished validates the snapshot and publishes it. An invalid
// snapshot never replaces the current catalog.
func (c *Consumer) handleCatalogPublished(ctx context.Context, event *pkgkafka.Event) error {
	var data CatalogPublishedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal catalog.published data: %w", err)
	}

	shirts, err := catalog.Validate(data.Shirts)
	if err != nil {
		return fmt.Errorf("validate catalog from event %s: %w", event.EventID, err)
	}

	info := c.publisher.Publish(ctx, shirts)

	logger.WithContext(ctx, c.logger).InfoContext(ctx, "catalog published from event",
		slog.String("event_id", event.EventID),
		slog.String("source", event.Source),
		slog.Uint64("version", info.Version),
		slog.Int("shirts", info.Shirts),
	)

	return nil
}
