// Package booking is the booking lifecycle manager. Every state change runs
// in a single store transaction together with its inventory movement and
// its outbox event.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ticketing/internal/inventory"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/metrics"
	"ticketing/internal/models"
	"ticketing/internal/pricing"
	"ticketing/internal/storage"
	"ticketing/internal/venue"
)

var (
	ErrBookingNotEditable = errors.New("booking can no longer be changed")
	ErrInvalidBooking     = errors.New("ticket_type is required and number_of_tickets must be positive")
)

const (
	cancelReasonCustomer = "customer"
	cancelReasonAdmin    = "admin"
	cancelReasonExpired  = "expired"
)

type Store interface {
	storage.Transactor
	CustomerBookings(ctx context.Context, customerID int64) ([]models.BookingView, error)
	OrganizerBookings(ctx context.Context, organizerID int64) ([]models.BookingView, error)
	AllBookings(ctx context.Context) ([]models.BookingView, error)
	CustomerBooking(ctx context.Context, bookingID, customerID int64) (models.BookingView, error)
}

type CreateCommand struct {
	CustomerID int64
	EventID    int64
	TicketType string
	Quantity   int
}

type EditCommand struct {
	BookingID  int64
	CustomerID int64
	TicketType string
	Quantity   int
}

type Service struct {
	log       *slog.Logger
	store     Store
	pricing   *pricing.Engine
	ledger    *inventory.Ledger
	scheduler *venue.Scheduler
	tracer    trace.Tracer
	now       func() time.Time
	newCode   func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(log *slog.Logger, store Store, engine *pricing.Engine, opts ...Option) *Service {
	s := &Service{
		log:       log,
		store:     store,
		pricing:   engine,
		ledger:    inventory.New(),
		scheduler: venue.NewScheduler(),
		tracer:    otel.Tracer("ticketing/booking"),
		now:       time.Now,
		newCode:   shortuuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create books quantity tickets of one type. Loading the event, the venue
// re-check, pricing, the insert and the reservation share one transaction;
// a failed reservation leaves no booking behind.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (models.Booking, error) {
	const op = "services.booking.Create"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.Int64("event_id", cmd.EventID),
		attribute.String("ticket_type", cmd.TicketType),
		attribute.Int("quantity", cmd.Quantity),
	))
	defer span.End()

	log := s.log.With(slog.String("op", op), slog.Int64("event_id", cmd.EventID))

	if cmd.TicketType == "" || cmd.Quantity <= 0 {
		return models.Booking{}, s.reject(ctx, span, "create", ErrInvalidBooking)
	}

	var created models.Booking
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		ev, err := tx.Event(ctx, cmd.EventID)
		if err != nil {
			return err
		}

		// Placement already forbids overlaps; this catches rows written
		// around that check.
		other, err := s.scheduler.Conflict(ctx, tx, ev.VenueID, ev.Start, ev.End, ev.ID)
		if err != nil {
			return err
		}
		if other != nil {
			log.Warn("event overlaps another event at its venue", slog.Int64("other_event_id", other.ID))
			return storage.ErrVenueConflict
		}

		tt, err := tx.TicketType(ctx, ev.ID, cmd.TicketType)
		if err != nil {
			return err
		}
		if tt.Availability < cmd.Quantity {
			return storage.ErrInsufficientInventory
		}

		total, err := s.pricing.TotalPrice(ctx, tx, ev.ID, cmd.TicketType, cmd.Quantity, ev.Start)
		if err != nil {
			return err
		}

		created, err = tx.InsertBooking(ctx, models.Booking{
			CustomerID:       cmd.CustomerID,
			EventID:          ev.ID,
			TicketType:       cmd.TicketType,
			Quantity:         cmd.Quantity,
			TotalPrice:       total,
			BookingStatus:    models.BookingPending,
			PaymentStatus:    models.PaymentUnpaid,
			ConfirmationCode: s.newCode(),
			CreatedAt:        s.now().UTC(),
		})
		if err != nil {
			return err
		}

		if err = s.ledger.Reserve(ctx, tx, ev.ID, cmd.TicketType, cmd.Quantity); err != nil {
			return err
		}

		return tx.Publish(ctx, models.NewBookingEvent(models.EventBookingCreated, created, created.CreatedAt))
	})
	if err != nil {
		return models.Booking{}, s.reject(ctx, span, "create", fmt.Errorf("%s: %w", op, err))
	}

	metrics.BookingsCreated.Inc()
	log.Info("booking created",
		slog.Int64("booking_id", created.ID),
		slog.String("total_price", created.TotalPrice.StringFixed(2)),
	)

	return created, nil
}

// Edit re-prices a Pending/Unpaid booking for a new ticket type and quantity
// and moves only the inventory difference.
func (s *Service) Edit(ctx context.Context, cmd EditCommand) (models.Booking, error) {
	const op = "services.booking.Edit"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("booking_id", cmd.BookingID)))
	defer span.End()

	if cmd.TicketType == "" || cmd.Quantity <= 0 {
		return models.Booking{}, s.reject(ctx, span, "edit", ErrInvalidBooking)
	}

	var updated models.Booking
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		b, err := tx.BookingForUpdate(ctx, cmd.BookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != cmd.CustomerID {
			return storage.ErrBookingNotFound
		}
		if !b.Editable() {
			return ErrBookingNotEditable
		}

		ev, err := tx.Event(ctx, b.EventID)
		if err != nil {
			return err
		}

		total, err := s.pricing.TotalPrice(ctx, tx, ev.ID, cmd.TicketType, cmd.Quantity, ev.Start)
		if err != nil {
			return err
		}

		err = s.ledger.Adjust(ctx, tx, ev.ID, b.TicketType, b.Quantity, cmd.TicketType, cmd.Quantity)
		if err != nil {
			return err
		}

		b.TicketType = cmd.TicketType
		b.Quantity = cmd.Quantity
		b.TotalPrice = total

		if updated, err = tx.UpdateBooking(ctx, b); err != nil {
			return err
		}

		return tx.Publish(ctx, models.NewBookingEvent(models.EventBookingEdited, updated, s.now().UTC()))
	})
	if err != nil {
		return models.Booking{}, s.reject(ctx, span, "edit", fmt.Errorf("%s: %w", op, err))
	}

	s.log.Info("booking edited",
		slog.String("op", op),
		slog.Int64("booking_id", updated.ID),
		slog.Int("quantity", updated.Quantity),
	)

	return updated, nil
}

// Cancel deletes a booking and returns its tickets to availability. Only the
// owner or an Admin may cancel; anyone else gets storage.ErrBookingNotFound.
func (s *Service) Cancel(ctx context.Context, bookingID int64, actor models.Identity) (models.Booking, error) {
	const op = "services.booking.Cancel"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("booking_id", bookingID)))
	defer span.End()

	var cancelled models.Booking
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		b, err := tx.BookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && b.CustomerID != actor.ID {
			return storage.ErrBookingNotFound
		}

		if err = s.cancel(ctx, tx, b); err != nil {
			return err
		}

		cancelled = b

		return nil
	})
	if err != nil {
		return models.Booking{}, s.reject(ctx, span, "cancel", fmt.Errorf("%s: %w", op, err))
	}

	reason := cancelReasonCustomer
	if actor.IsAdmin() && cancelled.CustomerID != actor.ID {
		reason = cancelReasonAdmin
	}
	metrics.BookingsCancelled.WithLabelValues(reason).Inc()

	s.log.Info("booking cancelled",
		slog.String("op", op),
		slog.Int64("booking_id", cancelled.ID),
		slog.String("reason", reason),
	)

	cancelled.BookingStatus = models.BookingCancelled

	return cancelled, nil
}

func (s *Service) cancel(ctx context.Context, tx storage.Tx, b models.Booking) error {
	if err := tx.DeleteBooking(ctx, b.ID); err != nil {
		return err
	}

	if err := s.ledger.Release(ctx, tx, b.EventID, b.TicketType, b.Quantity); err != nil {
		return err
	}

	b.BookingStatus = models.BookingCancelled

	return tx.Publish(ctx, models.NewBookingEvent(models.EventBookingCancelled, b, s.now().UTC()))
}

// ExpireStale cancels up to limit Pending/Unpaid bookings created before the
// given instant and reports how many were cancelled.
func (s *Service) ExpireStale(ctx context.Context, createdBefore time.Time, limit int) (int, error) {
	const op = "services.booking.ExpireStale"

	ctx, span := s.tracer.Start(ctx, op)
	defer span.End()

	var expired int
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		stale, err := tx.StaleBookings(ctx, createdBefore, limit)
		if err != nil {
			return err
		}

		for _, b := range stale {
			if err = s.cancel(ctx, tx, b); err != nil {
				return fmt.Errorf("booking %d: %w", b.ID, err)
			}
		}
		expired = len(stale)

		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if expired > 0 {
		metrics.BookingsCancelled.WithLabelValues(cancelReasonExpired).Add(float64(expired))
		s.log.Info("expired unpaid bookings", slog.String("op", op), slog.Int("count", expired))
	}

	return expired, nil
}

func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]models.BookingView, error) {
	const op = "services.booking.ListForCustomer"

	bookings, err := s.store.CustomerBookings(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

func (s *Service) ListForOrganizer(ctx context.Context, organizerID int64) ([]models.BookingView, error) {
	const op = "services.booking.ListForOrganizer"

	bookings, err := s.store.OrganizerBookings(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

func (s *Service) ListAll(ctx context.Context) ([]models.BookingView, error) {
	const op = "services.booking.ListAll"

	bookings, err := s.store.AllBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// Booking returns one of the customer's own bookings.
func (s *Service) Booking(ctx context.Context, bookingID, customerID int64) (models.BookingView, error) {
	const op = "services.booking.Booking"

	b, err := s.store.CustomerBooking(ctx, bookingID, customerID)
	if err != nil {
		return models.BookingView{}, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

func (s *Service) reject(ctx context.Context, span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	reason := rejectionReason(err)
	metrics.BookingRejections.WithLabelValues(operation, reason).Inc()

	level := slog.LevelDebug
	if reason == "internal" {
		level = slog.LevelError
	}
	s.log.Log(ctx, level, "booking operation rejected",
		slog.String("operation", operation),
		sl.Err(err),
	)

	return err
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidBooking), errors.Is(err, pricing.ErrInvalidQuantity):
		return "invalid_input"
	case errors.Is(err, storage.ErrEventNotFound),
		errors.Is(err, storage.ErrTicketTypeNotFound),
		errors.Is(err, storage.ErrBookingNotFound):
		return "not_found"
	case errors.Is(err, storage.ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, storage.ErrVenueConflict):
		return "venue_conflict"
	case errors.Is(err, ErrBookingNotEditable):
		return "not_editable"
	}

	return "internal"
}
