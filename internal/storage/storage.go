package storage

import (
	"context"
	"errors"
	"time"

	"ticketing/internal/models"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrVenueNotFound         = errors.New("venue not found")
	ErrTicketTypeNotFound    = errors.New("ticket type not found for this event")
	ErrTicketTypeExists      = errors.New("ticket type already exists for this event")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrUserExists            = errors.New("email is already registered")
	ErrInsufficientInventory = errors.New("not enough tickets available")
	ErrVenueConflict         = errors.New("venue is already booked for this time")
)

// Tx is the set of store operations available inside one transaction.
// Changes made through a Tx become visible to other callers only if the
// function passed to Transactor.InTx returns nil.
type Tx interface {
	Event(ctx context.Context, id int64) (models.Event, error)
	InsertEvent(ctx context.Context, e models.Event) (models.Event, error)
	UpdateEvent(ctx context.Context, e models.Event) (models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	// LockVenue serializes event placement on one venue until the transaction ends.
	LockVenue(ctx context.Context, venueID int64) error
	// OverlappingEvent returns the earliest event at venueID whose [start, end)
	// interval intersects the given one, ignoring excludeEventID. It returns
	// nil when there is none.
	OverlappingEvent(ctx context.Context, venueID int64, start, end time.Time, excludeEventID int64) (*models.Event, error)

	TicketType(ctx context.Context, eventID int64, ticketType string) (models.TicketType, error)
	InsertTicketType(ctx context.Context, t models.TicketType) error
	// DecrementAvailability subtracts quantity only if at least quantity units
	// remain and reports whether a row was changed.
	DecrementAvailability(ctx context.Context, eventID int64, ticketType string, quantity int) (bool, error)
	IncrementAvailability(ctx context.Context, eventID int64, ticketType string, quantity int) (bool, error)

	InsertBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	// BookingForUpdate loads a booking and locks it until the transaction ends.
	BookingForUpdate(ctx context.Context, id int64) (models.Booking, error)
	UpdateBooking(ctx context.Context, b models.Booking) (models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	// StaleBookings locks up to limit Pending/Unpaid bookings created before
	// the given instant, skipping rows locked by other transactions.
	StaleBookings(ctx context.Context, createdBefore time.Time, limit int) ([]models.Booking, error)

	InsertPayment(ctx context.Context, p models.Payment) (models.Payment, error)

	Publish(ctx context.Context, ev models.BookingEvent) error
}

type Transactor interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
