package createEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"ticketing/internal/http-server/middleware/mwauth"
	"ticketing/internal/lib/api/errmap"
	"ticketing/internal/lib/api/response"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/models"
	"ticketing/internal/services/event"
	"ticketing/internal/storage"
)

type TicketRequest struct {
	Type         string          `json:"ticket_type" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	Availability int             `json:"availability" validate:"gte=0"`
}

type EventRequest struct {
	Name        string          `json:"event_name" validate:"required"`
	Start       time.Time       `json:"event_start" validate:"required"`
	End         time.Time       `json:"event_end" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Category    string          `json:"event_type"`
	VenueID     int64           `json:"venue_id" validate:"required"`
	Tickets     []TicketRequest `json:"tickets" validate:"required,min=1,dive"`
}

type EventResponse struct {
	response.Response
	Message string              `json:"message"`
	Event   models.EventListing `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ctx context.Context, organizer models.Identity, cmd event.CreateCommand) (models.EventListing, error)
}

func New(log *slog.Logger, events EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := mwauth.IdentityFromContext(r.Context())
		if !ok {
			log.Error("identity is missing")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authorization token is required"))
			return
		}

		var req EventRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		log.Info("request body decoded", slog.String("event_name", req.Name), slog.Int64("venue_id", req.VenueID))

		if err = validator.New().Struct(req); err != nil {
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationFailed(err))

			return
		}

		tickets := make([]event.TicketSpec, 0, len(req.Tickets))
		for _, t := range req.Tickets {
			tickets = append(tickets, event.TicketSpec{
				Type:         t.Type,
				Price:        t.Price,
				Availability: t.Availability,
			})
		}

		listing, err := events.CreateEvent(r.Context(), user, event.CreateCommand{
			Name:        req.Name,
			VenueID:     req.VenueID,
			Start:       req.Start,
			End:         req.End,
			Description: req.Description,
			Category:    req.Category,
			Tickets:     tickets,
		})
		if err != nil {
			status, msg := errmap.Status(err)
			switch {
			case errors.Is(err, storage.ErrVenueConflict):
				status = http.StatusConflict
			case status == http.StatusInternalServerError:
				log.Error("failed to add event", sl.Err(err))
				msg = "failed to add event"
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))

			return
		}

		log.Info("event added", slog.Int64("id", listing.ID))

		responseCreated(w, r, listing)
	}
}

func responseCreated(w http.ResponseWriter, r *http.Request, listing models.EventListing) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, EventResponse{
		Response: response.OK(),
		Message:  "Event created successfully.",
		Event:    listing,
	})
}
