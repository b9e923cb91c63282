package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventBookingCreated   = "BookingCreated"
	EventBookingEdited    = "BookingEdited"
	EventBookingCancelled = "BookingCancelled"
	EventBookingPaid      = "BookingPaid"
)

// BookingEvent is published to the outbox in the same transaction as the
// state change it describes.
type BookingEvent struct {
	Type       string          `json:"type"`
	BookingID  int64           `json:"booking_id"`
	CustomerID int64           `json:"customer_id"`
	EventID    int64           `json:"event_id"`
	TicketType string          `json:"ticket_type"`
	Quantity   int             `json:"number_of_tickets"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		EventID:    b.EventID,
		TicketType: b.TicketType,
		Quantity:   b.Quantity,
		TotalPrice: b.TotalPrice,
		OccurredAt: at,
	}
}
