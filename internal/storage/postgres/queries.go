package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ticketing/internal/models"
	"ticketing/internal/storage"
)

func (s *Storage) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	const op = "storage.postgres.CreateUser"

	query := `
		INSERT INTO customers (email, password, role)
		VALUES ($1, $2, $3)
		RETURNING customer_id`

	err := s.DB.QueryRowxContext(ctx, query, u.Email, u.PasswordHash, u.Role).Scan(&u.ID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return models.User{}, storage.ErrUserExists
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `
		SELECT customer_id, email, password, role
		FROM customers
		WHERE lower(email) = lower($1)`

	var u models.User
	if err := s.DB.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (s *Storage) CreateVenue(ctx context.Context, v models.Venue) (models.Venue, error) {
	const op = "storage.postgres.CreateVenue"

	query := `
		INSERT INTO venues (venue_name, location)
		VALUES ($1, $2)
		RETURNING venue_id`

	if err := s.DB.QueryRowxContext(ctx, query, v.Name, v.Location).Scan(&v.ID); err != nil {
		return models.Venue{}, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

func (s *Storage) ListVenues(ctx context.Context) ([]models.Venue, error) {
	const op = "storage.postgres.ListVenues"

	venues := []models.Venue{}
	err := s.DB.SelectContext(ctx, &venues, `SELECT venue_id, venue_name, location FROM venues ORDER BY venue_id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return venues, nil
}

const listingQuery = `
	SELECT e.event_id, e.event_name, e.venue_id, e.event_start, e.event_end,
		e.description, e.event_type, e.organizer_id,
		v.venue_name, v.location AS venue_location
	FROM events e
	JOIN venues v ON v.venue_id = e.venue_id`

func (s *Storage) ListEvents(ctx context.Context) ([]models.EventListing, error) {
	const op = "storage.postgres.ListEvents"

	listings := []models.EventListing{}
	if err := s.DB.SelectContext(ctx, &listings, listingQuery+` ORDER BY e.event_start ASC`); err != nil {
		return nil, fmt.Errorf("%s: failed to get events: %w", op, err)
	}

	var tickets []models.TicketType
	err := s.DB.SelectContext(ctx, &tickets, `
		SELECT event_id, ticket_type, price, availability
		FROM tickets
		ORDER BY event_id, ticket_type`)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get tickets: %w", op, err)
	}

	byEvent := make(map[int64][]models.TicketType, len(listings))
	for _, tt := range tickets {
		byEvent[tt.EventID] = append(byEvent[tt.EventID], tt)
	}

	for i := range listings {
		listings[i].Tickets = byEvent[listings[i].ID]
		if listings[i].Tickets == nil {
			listings[i].Tickets = []models.TicketType{}
		}
	}

	return listings, nil
}

func (s *Storage) EventListing(ctx context.Context, eventID int64) (models.EventListing, error) {
	const op = "storage.postgres.EventListing"

	var listing models.EventListing
	if err := s.DB.GetContext(ctx, &listing, listingQuery+` WHERE e.event_id = $1`, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EventListing{}, storage.ErrEventNotFound
		}
		return models.EventListing{}, fmt.Errorf("%s: %w", op, err)
	}

	listing.Tickets = []models.TicketType{}
	err := s.DB.SelectContext(ctx, &listing.Tickets, `
		SELECT event_id, ticket_type, price, availability
		FROM tickets
		WHERE event_id = $1
		ORDER BY ticket_type`, eventID)
	if err != nil {
		return models.EventListing{}, fmt.Errorf("%s: failed to get tickets: %w", op, err)
	}

	return listing, nil
}

const bookingViewQuery = `
	SELECT b.booking_id, b.customer_id, b.event_id, b.ticket_type, b.number_of_tickets,
		b.total_price, b.booking_status, b.payment_status, b.confirmation_code,
		b.booking_date, b.payment_date, b.payment_method,
		e.event_name, e.event_start, e.event_end, v.venue_name,
		COALESCE(c.email, '') AS customer_email
	FROM bookings b
	JOIN events e ON e.event_id = b.event_id
	JOIN venues v ON v.venue_id = e.venue_id
	LEFT JOIN customers c ON c.customer_id = b.customer_id`

func (s *Storage) bookingViews(ctx context.Context, op, where string, args ...any) ([]models.BookingView, error) {
	views := []models.BookingView{}
	if err := s.DB.SelectContext(ctx, &views, bookingViewQuery+where+` ORDER BY b.booking_id`, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return views, nil
}

func (s *Storage) CustomerBookings(ctx context.Context, customerID int64) ([]models.BookingView, error) {
	return s.bookingViews(ctx, "storage.postgres.CustomerBookings", ` WHERE b.customer_id = $1`, customerID)
}

func (s *Storage) OrganizerBookings(ctx context.Context, organizerID int64) ([]models.BookingView, error) {
	return s.bookingViews(ctx, "storage.postgres.OrganizerBookings", ` WHERE e.organizer_id = $1`, organizerID)
}

func (s *Storage) AllBookings(ctx context.Context) ([]models.BookingView, error) {
	return s.bookingViews(ctx, "storage.postgres.AllBookings", "")
}

func (s *Storage) CustomerBooking(ctx context.Context, bookingID, customerID int64) (models.BookingView, error) {
	const op = "storage.postgres.CustomerBooking"

	var v models.BookingView
	query := bookingViewQuery + ` WHERE b.booking_id = $1 AND b.customer_id = $2`
	if err := s.DB.GetContext(ctx, &v, query, bookingID, customerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.BookingView{}, storage.ErrBookingNotFound
		}
		return models.BookingView{}, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

const receiptQuery = `
	SELECT p.payment_id, p.booking_id, p.payment_method, p.amount, p.payment_status, p.payment_date,
		b.customer_id, b.number_of_tickets, b.booking_status,
		e.event_name, e.event_start, e.event_end, v.venue_name
	FROM payments p
	JOIN bookings b ON b.booking_id = p.booking_id
	JOIN events e ON e.event_id = b.event_id
	JOIN venues v ON v.venue_id = e.venue_id`

func (s *Storage) Receipt(ctx context.Context, paymentID int64) (models.Receipt, error) {
	const op = "storage.postgres.Receipt"

	var r models.Receipt
	if err := s.DB.GetContext(ctx, &r, receiptQuery+` WHERE p.payment_id = $1`, paymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Receipt{}, storage.ErrPaymentNotFound
		}
		return models.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}

func (s *Storage) CustomerReceipts(ctx context.Context, customerID int64) ([]models.Receipt, error) {
	const op = "storage.postgres.CustomerReceipts"

	receipts := []models.Receipt{}
	query := receiptQuery + ` WHERE b.customer_id = $1 ORDER BY p.payment_date DESC`
	if err := s.DB.SelectContext(ctx, &receipts, query, customerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return receipts, nil
}
