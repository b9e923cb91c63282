package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	ID          int64     `json:"event_id" db:"event_id"`
	Name        string    `json:"event_name" db:"event_name"`
	VenueID     int64     `json:"venue_id" db:"venue_id"`
	Start       time.Time `json:"event_start" db:"event_start"`
	End         time.Time `json:"event_end" db:"event_end"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"event_type" db:"event_type"`
	OrganizerID int64     `json:"organizer_id" db:"organizer_id"`
}

// TicketType is a sellable category of one event. Availability never goes negative.
type TicketType struct {
	EventID      int64           `json:"event_id" db:"event_id"`
	Type         string          `json:"ticket_type" db:"ticket_type"`
	Price        decimal.Decimal `json:"price" db:"price"`
	Availability int             `json:"availability" db:"availability"`
}

type Venue struct {
	ID       int64  `json:"venue_id" db:"venue_id"`
	Name     string `json:"venue_name" db:"venue_name"`
	Location string `json:"location" db:"location"`
}

// EventListing is the public catalog view of an event.
type EventListing struct {
	Event
	VenueName     string       `json:"venue_name" db:"venue_name"`
	VenueLocation string       `json:"venue_location" db:"venue_location"`
	Tickets       []TicketType `json:"tickets" db:"-"`
}
