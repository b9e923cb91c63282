package messaging

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	watermillSQL "github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

// NewOutboxSubscriber reads the outbox table the postgres storage writes to
// inside booking transactions.
func NewOutboxSubscriber(db *sqlx.DB, topic string, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	const op = "messaging.NewOutboxSubscriber"

	sub, err := watermillSQL.NewSubscriber(db, watermillSQL.SubscriberConfig{
		SchemaAdapter:  watermillSQL.DefaultPostgreSQLSchema{},
		OffsetsAdapter: watermillSQL.DefaultPostgreSQLOffsetsAdapter{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = sub.SubscribeInitialize(topic); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sub, nil
}

// NewForwarder moves enveloped messages from the outbox topic to the
// destination topics recorded in their envelopes.
func NewForwarder(
	outbox message.Subscriber,
	broker message.Publisher,
	forwarderTopic string,
	logger watermill.LoggerAdapter,
) (*forwarder.Forwarder, error) {
	const op = "messaging.NewForwarder"

	fwd, err := forwarder.NewForwarder(outbox, broker, logger, forwarder.Config{
		ForwarderTopic: forwarderTopic,
		Middlewares: []message.HandlerMiddleware{
			func(h message.HandlerFunc) message.HandlerFunc {
				return func(msg *message.Message) ([]*message.Message, error) {
					logger.Debug("forwarding message", watermill.LogFields{
						"message_uuid": msg.UUID,
					})
					return h(msg)
				}
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return fwd, nil
}
