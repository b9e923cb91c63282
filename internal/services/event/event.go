// Package event places events on venues. Creation and edits lock the venue
// row before the overlap check so two placements on one venue serialize.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ticketing/internal/models"
	"ticketing/internal/storage"
	"ticketing/internal/venue"
)

var (
	ErrForbidden    = errors.New("only the organizer of the event or an admin may change it")
	ErrInvalidEvent = errors.New("invalid event")
)

type Store interface {
	storage.Transactor
	ListEvents(ctx context.Context) ([]models.EventListing, error)
	EventListing(ctx context.Context, eventID int64) (models.EventListing, error)
	CreateVenue(ctx context.Context, v models.Venue) (models.Venue, error)
	ListVenues(ctx context.Context) ([]models.Venue, error)
}

type TicketSpec struct {
	Type         string
	Price        decimal.Decimal
	Availability int
}

type CreateCommand struct {
	Name        string
	VenueID     int64
	Start       time.Time
	End         time.Time
	Description string
	Category    string
	Tickets     []TicketSpec
}

type EditCommand struct {
	Name        string
	VenueID     int64
	Start       time.Time
	End         time.Time
	Description string
	Category    string
}

type Service struct {
	log       *slog.Logger
	store     Store
	scheduler *venue.Scheduler
	tracer    trace.Tracer
}

func New(log *slog.Logger, store Store) *Service {
	return &Service{
		log:       log,
		store:     store,
		scheduler: venue.NewScheduler(),
		tracer:    otel.Tracer("ticketing/event"),
	}
}

// CanModifyEvent is the single authorization rule for editing and deleting events.
func CanModifyEvent(user models.Identity, ev models.Event) bool {
	return user.Role == models.RoleAdmin ||
		(user.Role == models.RoleOrganizer && user.ID == ev.OrganizerID)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEvent, fmt.Sprintf(format, args...))
}

func validateCreate(cmd CreateCommand) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return invalid("event_name is required")
	}
	if err := venue.ValidateInterval(cmd.Start, cmd.End); err != nil {
		return invalid("%v", err)
	}
	if len(cmd.Tickets) == 0 {
		return invalid("at least one ticket type is required")
	}

	seen := make(map[string]struct{}, len(cmd.Tickets))
	for _, t := range cmd.Tickets {
		if t.Type == "" {
			return invalid("ticket_type is required")
		}
		if _, ok := seen[t.Type]; ok {
			return invalid("ticket type %q is listed twice", t.Type)
		}
		seen[t.Type] = struct{}{}

		if t.Price.IsNegative() {
			return invalid("price of %q must not be negative", t.Type)
		}
		if t.Availability < 0 {
			return invalid("availability of %q must not be negative", t.Type)
		}
	}

	return nil
}

func (s *Service) CreateEvent(ctx context.Context, organizer models.Identity, cmd CreateCommand) (models.EventListing, error) {
	const op = "services.event.CreateEvent"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("venue_id", cmd.VenueID)))
	defer span.End()

	log := s.log.With(slog.String("op", op))

	if err := validateCreate(cmd); err != nil {
		return models.EventListing{}, err
	}

	listing := models.EventListing{Tickets: make([]models.TicketType, 0, len(cmd.Tickets))}
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		if err := tx.LockVenue(ctx, cmd.VenueID); err != nil {
			return err
		}

		other, err := s.scheduler.Conflict(ctx, tx, cmd.VenueID, cmd.Start, cmd.End, 0)
		if err != nil {
			return err
		}
		if other != nil {
			log.Info("venue is taken", slog.Int64("other_event_id", other.ID))
			return storage.ErrVenueConflict
		}

		ev, err := tx.InsertEvent(ctx, models.Event{
			Name:        cmd.Name,
			VenueID:     cmd.VenueID,
			Start:       cmd.Start.UTC(),
			End:         cmd.End.UTC(),
			Description: cmd.Description,
			Category:    cmd.Category,
			OrganizerID: organizer.ID,
		})
		if err != nil {
			return err
		}
		listing.Event = ev

		for _, ticket := range cmd.Tickets {
			tt := models.TicketType{
				EventID:      ev.ID,
				Type:         ticket.Type,
				Price:        ticket.Price,
				Availability: ticket.Availability,
			}
			if err = tx.InsertTicketType(ctx, tt); err != nil {
				return err
			}
			listing.Tickets = append(listing.Tickets, tt)
		}

		return nil
	})
	if err != nil {
		span.RecordError(err)
		return models.EventListing{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("event created", slog.Int64("event_id", listing.ID), slog.Int64("organizer_id", organizer.ID))

	return listing, nil
}

// EditEvent moves or renames an event. The overlap check skips the event
// itself. When the venue changes both venue rows are locked in id order.
func (s *Service) EditEvent(ctx context.Context, actor models.Identity, eventID int64, cmd EditCommand) (models.Event, error) {
	const op = "services.event.EditEvent"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("event_id", eventID)))
	defer span.End()

	if strings.TrimSpace(cmd.Name) == "" {
		return models.Event{}, invalid("event_name is required")
	}
	if err := venue.ValidateInterval(cmd.Start, cmd.End); err != nil {
		return models.Event{}, invalid("%v", err)
	}

	var updated models.Event
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		ev, err := tx.Event(ctx, eventID)
		if err != nil {
			return err
		}
		if !CanModifyEvent(actor, ev) {
			return ErrForbidden
		}

		venues := []int64{ev.VenueID}
		if cmd.VenueID != ev.VenueID {
			venues = append(venues, cmd.VenueID)
			sort.Slice(venues, func(i, j int) bool { return venues[i] < venues[j] })
		}
		for _, id := range venues {
			if err = tx.LockVenue(ctx, id); err != nil {
				return err
			}
		}

		overlap, err := s.scheduler.HasOverlap(ctx, tx, cmd.VenueID, cmd.Start, cmd.End, ev.ID)
		if err != nil {
			return err
		}
		if overlap {
			return storage.ErrVenueConflict
		}

		ev.Name = cmd.Name
		ev.VenueID = cmd.VenueID
		ev.Start = cmd.Start.UTC()
		ev.End = cmd.End.UTC()
		ev.Description = cmd.Description
		ev.Category = cmd.Category

		updated, err = tx.UpdateEvent(ctx, ev)

		return err
	})
	if err != nil {
		span.RecordError(err)
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("event updated", slog.String("op", op), slog.Int64("event_id", eventID))

	return updated, nil
}

// DeleteEvent removes an event with its ticket types, bookings and payments.
func (s *Service) DeleteEvent(ctx context.Context, actor models.Identity, eventID int64) error {
	const op = "services.event.DeleteEvent"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("event_id", eventID)))
	defer span.End()

	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		ev, err := tx.Event(ctx, eventID)
		if err != nil {
			return err
		}
		if !CanModifyEvent(actor, ev) {
			return ErrForbidden
		}

		return tx.DeleteEvent(ctx, eventID)
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("event deleted", slog.String("op", op), slog.Int64("event_id", eventID))

	return nil
}

func (s *Service) ListEvents(ctx context.Context) ([]models.EventListing, error) {
	const op = "services.event.ListEvents"

	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}

func (s *Service) Event(ctx context.Context, eventID int64) (models.EventListing, error) {
	const op = "services.event.Event"

	listing, err := s.store.EventListing(ctx, eventID)
	if err != nil {
		return models.EventListing{}, fmt.Errorf("%s: %w", op, err)
	}

	return listing, nil
}

func (s *Service) CreateVenue(ctx context.Context, name, location string) (models.Venue, error) {
	const op = "services.event.CreateVenue"

	if strings.TrimSpace(name) == "" {
		return models.Venue{}, fmt.Errorf("%w: venue_name is required", ErrInvalidEvent)
	}

	v, err := s.store.CreateVenue(ctx, models.Venue{Name: name, Location: location})
	if err != nil {
		return models.Venue{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("venue created", slog.String("op", op), slog.Int64("venue_id", v.ID))

	return v, nil
}

func (s *Service) ListVenues(ctx context.Context) ([]models.Venue, error) {
	const op = "services.event.ListVenues"

	venues, err := s.store.ListVenues(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return venues, nil
}
