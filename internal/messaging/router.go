package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"golang.org/x/sync/errgroup"
)

func NewRouter(
	logger watermill.LoggerAdapter,
	sub message.Subscriber,
	eventsTopic string,
	projector *SalesProjector,
) (*message.Router, error) {
	const op = "messaging.NewRouter"

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      5,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          logger,
	}.Middleware)

	router.AddNoPublisherHandler("sales_projection", eventsTopic, sub, projector.Handle)

	return router, nil
}

// Pipeline runs the outbox forwarder next to the consuming router.
type Pipeline struct {
	Forwarder *forwarder.Forwarder
	Router    *message.Router
}

func (p *Pipeline) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if p.Forwarder != nil {
		g.Go(func() error {
			return p.Forwarder.Run(ctx)
		})
	}
	if p.Router != nil {
		g.Go(func() error {
			return p.Router.Run(ctx)
		})
	}

	return g.Wait()
}
