package messaging

import (
	"encoding/json"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/metrics"
	"ticketing/internal/models"
)

// SalesProjector keeps the sales counters up to date from booking events.
type SalesProjector struct {
	log    *slog.Logger
	tracer trace.Tracer
}

func NewSalesProjector(log *slog.Logger) *SalesProjector {
	return &SalesProjector{
		log:    log,
		tracer: otel.Tracer("ticketing/messaging"),
	}
}

func (p *SalesProjector) Handle(msg *message.Message) error {
	const op = "messaging.SalesProjector.Handle"

	ctx := otel.GetTextMapPropagator().Extract(msg.Context(), propagation.MapCarrier(msg.Metadata))
	_, span := p.tracer.Start(ctx, op)
	defer span.End()

	var ev models.BookingEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		p.drop(msg, "malformed", sl.Err(err))
		return nil
	}

	span.SetAttributes(
		attribute.String("event.type", ev.Type),
		attribute.Int64("booking.id", ev.BookingID),
	)

	switch ev.Type {
	case models.EventBookingCreated, models.EventBookingEdited, models.EventBookingCancelled:
		metrics.SalesTickets.WithLabelValues(ev.Type).Add(float64(ev.Quantity))
	case models.EventBookingPaid:
		metrics.SalesTickets.WithLabelValues(ev.Type).Add(float64(ev.Quantity))
		revenue, _ := ev.TotalPrice.Float64()
		metrics.SalesRevenue.Add(revenue)
	default:
		// Redelivery cannot make an unknown type known.
		p.drop(msg, "unknown_type", slog.String("type", ev.Type))
		return nil
	}

	p.log.Debug("booking event projected",
		slog.String("op", op),
		slog.String("type", ev.Type),
		slog.Int64("booking_id", ev.BookingID),
	)

	return nil
}

func (p *SalesProjector) drop(msg *message.Message, reason string, attrs ...any) {
	const op = "messaging.SalesProjector.Handle"

	metrics.SalesEventsDropped.WithLabelValues(reason).Inc()

	attrs = append(attrs,
		slog.String("op", op),
		slog.String("reason", reason),
		slog.String("message_uuid", msg.UUID),
	)
	p.log.Error("dropping booking event", attrs...)
}
