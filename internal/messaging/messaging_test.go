package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/lib/logger/handlers/slogdiscard"
	"ticketing/internal/metrics"
	"ticketing/internal/models"
)

func eventMessage(t *testing.T, ev models.BookingEvent) *message.Message {
	t.Helper()

	payload, err := json.Marshal(ev)
	require.NoError(t, err)

	return message.NewMessage(watermill.NewUUID(), payload)
}

func TestSalesProjectorHandle(t *testing.T) {
	t.Parallel()

	p := NewSalesProjector(slogdiscard.NewDiscardLogger())

	created := models.BookingEvent{
		Type:       models.EventBookingCreated,
		BookingID:  1,
		EventID:    9101,
		TicketType: "VIP",
		Quantity:   3,
		TotalPrice: decimal.NewFromInt(300),
	}
	paid := created
	paid.Type = models.EventBookingPaid

	createdBefore := testutil.ToFloat64(metrics.SalesTickets.WithLabelValues(models.EventBookingCreated))
	paidBefore := testutil.ToFloat64(metrics.SalesTickets.WithLabelValues(models.EventBookingPaid))
	revenueBefore := testutil.ToFloat64(metrics.SalesRevenue)

	require.NoError(t, p.Handle(eventMessage(t, created)))
	require.NoError(t, p.Handle(eventMessage(t, paid)))

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.SalesTickets.WithLabelValues(models.EventBookingCreated))-createdBefore)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.SalesTickets.WithLabelValues(models.EventBookingPaid))-paidBefore)
	assert.Equal(t, 300.0, testutil.ToFloat64(metrics.SalesRevenue)-revenueBefore)
}

func TestSalesProjectorDropsUnprojectable(t *testing.T) {
	t.Parallel()

	p := NewSalesProjector(slogdiscard.NewDiscardLogger())

	testCases := []struct {
		name   string
		msg    func(t *testing.T) *message.Message
		reason string
	}{
		{
			name: "Malformed payload",
			msg: func(t *testing.T) *message.Message {
				return message.NewMessage(watermill.NewUUID(), []byte("{"))
			},
			reason: "malformed",
		},
		{
			name: "Unknown type",
			msg: func(t *testing.T) *message.Message {
				return eventMessage(t, models.BookingEvent{Type: "BookingTeleported", EventID: 9102})
			},
			reason: "unknown_type",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			before := testutil.ToFloat64(metrics.SalesEventsDropped.WithLabelValues(tc.reason))

			assert.NoError(t, p.Handle(tc.msg(t)))
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SalesEventsDropped.WithLabelValues(tc.reason))-before)
		})
	}
}

func TestRouterProjectsEvents(t *testing.T) {
	t.Parallel()

	logger := NewSlogAdapter(slogdiscard.NewDiscardLogger())
	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, logger)
	t.Cleanup(func() { _ = pubSub.Close() })

	router, err := NewRouter(logger, pubSub, "booking-events", NewSalesProjector(slogdiscard.NewDiscardLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() { _ = (&Pipeline{Router: router}).Run(ctx) }()
	<-router.Running()

	before := testutil.ToFloat64(metrics.SalesTickets.WithLabelValues(models.EventBookingCancelled))

	require.NoError(t, pubSub.Publish("booking-events", eventMessage(t, models.BookingEvent{
		Type:     models.EventBookingCancelled,
		EventID:  9103,
		Quantity: 2,
	})))

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.SalesTickets.WithLabelValues(models.EventBookingCancelled))-before == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestForwarderUnwrapsOutboxMessages(t *testing.T) {
	t.Parallel()

	logger := NewSlogAdapter(slogdiscard.NewDiscardLogger())
	outbox := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, logger)
	broker := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, logger)
	t.Cleanup(func() {
		_ = outbox.Close()
		_ = broker.Close()
	})

	fwd, err := NewForwarder(outbox, broker, "bookings_outbox", logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() { _ = (&Pipeline{Forwarder: fwd}).Run(ctx) }()

	messages, err := broker.Subscribe(ctx, "booking-events")
	require.NoError(t, err)

	pub := forwarder.NewPublisher(outbox, forwarder.PublisherConfig{ForwarderTopic: "bookings_outbox"})
	sent := message.NewMessage(watermill.NewUUID(), []byte(`{"type":"BookingCreated"}`))
	require.NoError(t, pub.Publish("booking-events", sent))

	select {
	case got := <-messages:
		assert.Equal(t, sent.UUID, got.UUID)
		assert.JSONEq(t, `{"type":"BookingCreated"}`, string(got.Payload))
		got.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("message was not forwarded")
	}
}

func TestSlogAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	a := NewSlogAdapter(log).With(watermill.LogFields{"topic": "booking-events"})
	a.Error("publish failed", errors.New("broken pipe"), watermill.LogFields{"attempt": 2})
	a.Trace("polling", nil)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "ERROR", first["level"])
	assert.Equal(t, "publish failed", first["msg"])
	assert.Equal(t, "booking-events", first["topic"])
	assert.Equal(t, 2.0, first["attempt"])
	assert.Equal(t, "broken pipe", first["error"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "DEBUG-4", second["level"])
}
