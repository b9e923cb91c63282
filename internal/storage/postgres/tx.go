package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"

	"ticketing/internal/models"
	"ticketing/internal/storage"
)

const (
	eventColumns = `event_id, event_name, venue_id, event_start, event_end,
		description, event_type, organizer_id`
	bookingColumns = `booking_id, customer_id, event_id, ticket_type, number_of_tickets,
		total_price, booking_status, payment_status, confirmation_code,
		booking_date, payment_date, payment_method`
)

// Tx implements storage.Tx on top of one database transaction.
type Tx struct {
	tx     *sqlx.Tx
	outbox *outbox
	pub    message.Publisher
}

func (t *Tx) Event(ctx context.Context, id int64) (models.Event, error) {
	const op = "storage.postgres.Event"

	var e models.Event
	err := t.tx.GetContext(ctx, &e, `SELECT `+eventColumns+` FROM events WHERE event_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, storage.ErrEventNotFound
		}
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

func (t *Tx) InsertEvent(ctx context.Context, e models.Event) (models.Event, error) {
	const op = "storage.postgres.InsertEvent"

	query := `
		INSERT INTO events (event_name, venue_id, event_start, event_end, description, event_type, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING event_id`

	err := t.tx.QueryRowxContext(ctx, query,
		e.Name, e.VenueID, e.Start, e.End, e.Description, e.Category, e.OrganizerID,
	).Scan(&e.ID)
	if err != nil {
		return models.Event{}, eventWriteError(op, err)
	}

	return e, nil
}

func (t *Tx) UpdateEvent(ctx context.Context, e models.Event) (models.Event, error) {
	const op = "storage.postgres.UpdateEvent"

	query := `
		UPDATE events
		SET event_name = $2, venue_id = $3, event_start = $4, event_end = $5,
			description = $6, event_type = $7
		WHERE event_id = $1`

	res, err := t.tx.ExecContext(ctx, query,
		e.ID, e.Name, e.VenueID, e.Start, e.End, e.Description, e.Category,
	)
	if err != nil {
		return models.Event{}, eventWriteError(op, err)
	}

	if err = expectOneRow(res, storage.ErrEventNotFound); err != nil {
		return models.Event{}, err
	}

	return e, nil
}

func eventWriteError(op string, err error) error {
	switch pgCode(err) {
	case pgExclusionViolation:
		return storage.ErrVenueConflict
	case pgForeignKeyViolation:
		return storage.ErrVenueNotFound
	}

	return fmt.Errorf("%s: %w", op, err)
}

func (t *Tx) DeleteEvent(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteEvent"

	res, err := t.tx.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectOneRow(res, storage.ErrEventNotFound)
}

func (t *Tx) LockVenue(ctx context.Context, venueID int64) error {
	const op = "storage.postgres.LockVenue"

	var id int64
	err := t.tx.GetContext(ctx, &id, `SELECT venue_id FROM venues WHERE venue_id = $1 FOR UPDATE`, venueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrVenueNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (t *Tx) OverlappingEvent(
	ctx context.Context,
	venueID int64,
	start, end time.Time,
	excludeEventID int64,
) (*models.Event, error) {
	const op = "storage.postgres.OverlappingEvent"

	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE venue_id = $1 AND event_id <> $4
			AND event_start < $3 AND event_end > $2
		ORDER BY event_start
		LIMIT 1`

	var e models.Event
	err := t.tx.GetContext(ctx, &e, query, venueID, start, end, excludeEventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &e, nil
}

func (t *Tx) TicketType(ctx context.Context, eventID int64, ticketType string) (models.TicketType, error) {
	const op = "storage.postgres.TicketType"

	query := `
		SELECT event_id, ticket_type, price, availability
		FROM tickets
		WHERE event_id = $1 AND ticket_type = $2`

	var tt models.TicketType
	if err := t.tx.GetContext(ctx, &tt, query, eventID, ticketType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.TicketType{}, storage.ErrTicketTypeNotFound
		}
		return models.TicketType{}, fmt.Errorf("%s: %w", op, err)
	}

	return tt, nil
}

func (t *Tx) InsertTicketType(ctx context.Context, tt models.TicketType) error {
	const op = "storage.postgres.InsertTicketType"

	query := `
		INSERT INTO tickets (event_id, ticket_type, price, availability)
		VALUES ($1, $2, $3, $4)`

	_, err := t.tx.ExecContext(ctx, query, tt.EventID, tt.Type, tt.Price, tt.Availability)
	if err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return storage.ErrTicketTypeExists
		case pgForeignKeyViolation:
			return storage.ErrEventNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (t *Tx) DecrementAvailability(ctx context.Context, eventID int64, ticketType string, quantity int) (bool, error) {
	const op = "storage.postgres.DecrementAvailability"

	query := `
		UPDATE tickets
		SET availability = availability - $1
		WHERE event_id = $2 AND ticket_type = $3 AND availability >= $1`

	return t.changeAvailability(ctx, op, query, quantity, eventID, ticketType)
}

func (t *Tx) IncrementAvailability(ctx context.Context, eventID int64, ticketType string, quantity int) (bool, error) {
	const op = "storage.postgres.IncrementAvailability"

	query := `
		UPDATE tickets
		SET availability = availability + $1
		WHERE event_id = $2 AND ticket_type = $3`

	return t.changeAvailability(ctx, op, query, quantity, eventID, ticketType)
}

func (t *Tx) changeAvailability(
	ctx context.Context,
	op, query string,
	quantity int,
	eventID int64,
	ticketType string,
) (bool, error) {
	res, err := t.tx.ExecContext(ctx, query, quantity, eventID, ticketType)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n == 1, nil
}

func (t *Tx) InsertBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	const op = "storage.postgres.InsertBooking"

	query := `
		INSERT INTO bookings (customer_id, event_id, ticket_type, number_of_tickets, total_price,
			booking_status, payment_status, confirmation_code, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING booking_id`

	err := t.tx.QueryRowxContext(ctx, query,
		b.CustomerID, b.EventID, b.TicketType, b.Quantity, b.TotalPrice,
		b.BookingStatus, b.PaymentStatus, b.ConfirmationCode, b.CreatedAt,
	).Scan(&b.ID)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return models.Booking{}, storage.ErrTicketTypeNotFound
		}
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

func (t *Tx) BookingForUpdate(ctx context.Context, id int64) (models.Booking, error) {
	const op = "storage.postgres.BookingForUpdate"

	var b models.Booking
	err := t.tx.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, storage.ErrBookingNotFound
		}
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

func (t *Tx) UpdateBooking(ctx context.Context, b models.Booking) (models.Booking, error) {
	const op = "storage.postgres.UpdateBooking"

	query := `
		UPDATE bookings
		SET ticket_type = $2, number_of_tickets = $3, total_price = $4,
			booking_status = $5, payment_status = $6, payment_date = $7, payment_method = $8
		WHERE booking_id = $1`

	res, err := t.tx.ExecContext(ctx, query,
		b.ID, b.TicketType, b.Quantity, b.TotalPrice,
		b.BookingStatus, b.PaymentStatus, b.PaymentDate, b.PaymentMethod,
	)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return models.Booking{}, storage.ErrTicketTypeNotFound
		}
		return models.Booking{}, fmt.Errorf("%s: %w", op, err)
	}

	if err = expectOneRow(res, storage.ErrBookingNotFound); err != nil {
		return models.Booking{}, err
	}

	return b, nil
}

func (t *Tx) DeleteBooking(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteBooking"

	res, err := t.tx.ExecContext(ctx, `DELETE FROM bookings WHERE booking_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectOneRow(res, storage.ErrBookingNotFound)
}

func (t *Tx) StaleBookings(ctx context.Context, createdBefore time.Time, limit int) ([]models.Booking, error) {
	const op = "storage.postgres.StaleBookings"

	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_status = 'Pending' AND payment_status = 'Unpaid' AND booking_date < $1
		ORDER BY booking_date
		LIMIT $2
		FOR UPDATE SKIP LOCKED`

	var bookings []models.Booking
	if err := t.tx.SelectContext(ctx, &bookings, query, createdBefore, limit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

func (t *Tx) InsertPayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	const op = "storage.postgres.InsertPayment"

	query := `
		INSERT INTO payments (booking_id, payment_method, amount, payment_status, payment_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING payment_id`

	err := t.tx.QueryRowxContext(ctx, query, p.BookingID, p.Method, p.Amount, p.Status, p.PaidAt).Scan(&p.ID)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return models.Payment{}, storage.ErrBookingNotFound
		}
		return models.Payment{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// Publish is a no-op unless the storage was built WithOutbox.
func (t *Tx) Publish(ctx context.Context, ev models.BookingEvent) error {
	const op = "storage.postgres.Publish"

	if t.outbox == nil {
		return nil
	}

	if t.pub == nil {
		pub, err := t.outbox.publisher(t.tx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		t.pub = pub
	}

	msg, err := newEventMessage(ctx, ev)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = t.pub.Publish(t.outbox.eventsTopic, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}

	return nil
}
