package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	watermillSQL "github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"ticketing/internal/models"
)

// MetadataEventType carries models.BookingEvent.Type on every outbox message.
const MetadataEventType = "event_type"

type outbox struct {
	forwarderTopic string
	eventsTopic    string
	logger         watermill.LoggerAdapter
}

// publisher returns a publisher that writes into the outbox table through tx,
// so the message is committed or rolled back together with the booking change.
func (o *outbox) publisher(tx *sqlx.Tx) (message.Publisher, error) {
	var publisher message.Publisher

	publisher, err := watermillSQL.NewPublisher(
		tx,
		watermillSQL.PublisherConfig{
			SchemaAdapter: watermillSQL.DefaultPostgreSQLSchema{},
		},
		o.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox publisher: %w", err)
	}

	publisher = forwarder.NewPublisher(publisher, forwarder.PublisherConfig{
		ForwarderTopic: o.forwarderTopic,
	})

	return publisher, nil
}

// newEventMessage carries the trace context of ctx in the message metadata so
// consumers continue the trace of the request that caused the event.
func newEventMessage(ctx context.Context, ev models.BookingEvent) (*message.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventType, ev.Type)
	msg.SetContext(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))

	return msg, nil
}
