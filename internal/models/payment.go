package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID        int64           `json:"payment_id" db:"payment_id"`
	BookingID int64           `json:"booking_id" db:"booking_id"`
	Method    string          `json:"payment_method" db:"payment_method"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Status    PaymentStatus   `json:"payment_status" db:"payment_status"`
	PaidAt    time.Time       `json:"payment_date" db:"payment_date"`
}

type Receipt struct {
	Payment
	CustomerID    int64         `json:"customer_id" db:"customer_id"`
	Quantity      int           `json:"number_of_tickets" db:"number_of_tickets"`
	BookingStatus BookingStatus `json:"booking_status" db:"booking_status"`
	EventName     string        `json:"event_name" db:"event_name"`
	EventStart    time.Time     `json:"event_start" db:"event_start"`
	EventEnd      time.Time     `json:"event_end" db:"event_end"`
	VenueName     string        `json:"venue_name" db:"venue_name"`
}
