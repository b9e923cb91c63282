package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingBooked    BookingStatus = "Booked"
	BookingCancelled BookingStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

type Booking struct {
	ID               int64           `json:"booking_id" db:"booking_id"`
	CustomerID       int64           `json:"customer_id" db:"customer_id"`
	EventID          int64           `json:"event_id" db:"event_id"`
	TicketType       string          `json:"ticket_type" db:"ticket_type"`
	Quantity         int             `json:"number_of_tickets" db:"number_of_tickets"`
	TotalPrice       decimal.Decimal `json:"total_price" db:"total_price"`
	BookingStatus    BookingStatus   `json:"booking_status" db:"booking_status"`
	PaymentStatus    PaymentStatus   `json:"payment_status" db:"payment_status"`
	ConfirmationCode string          `json:"confirmation_code" db:"confirmation_code"`
	CreatedAt        time.Time       `json:"booking_date" db:"booking_date"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty" db:"payment_date"`
	PaymentMethod    *string         `json:"payment_method,omitempty" db:"payment_method"`
}

// Editable reports whether the booking is still in the Pending/Unpaid state.
func (b Booking) Editable() bool {
	return b.BookingStatus == BookingPending && b.PaymentStatus == PaymentUnpaid
}

// BookingView is a booking joined with its event, venue and customer.
type BookingView struct {
	Booking
	EventName     string    `json:"event_name" db:"event_name"`
	EventStart    time.Time `json:"event_start" db:"event_start"`
	EventEnd      time.Time `json:"event_end" db:"event_end"`
	VenueName     string    `json:"venue_name" db:"venue_name"`
	CustomerEmail string    `json:"customer_email" db:"customer_email"`
}
