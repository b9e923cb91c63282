package createBooking

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ticketing/internal/http-server/middleware/mwauth"
	"ticketing/internal/lib/api/errmap"
	"ticketing/internal/lib/api/response"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/models"
	"ticketing/internal/services/booking"
)

type BookingRequest struct {
	EventID    int64  `json:"event_id" validate:"required"`
	TicketType string `json:"ticket_type" validate:"required"`
	Quantity   int    `json:"number_of_tickets" validate:"required,gt=0"`
}

type BookingResponse struct {
	response.Response
	Message string         `json:"message"`
	Booking models.Booking `json:"booking"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCreator
type BookingCreator interface {
	Create(ctx context.Context, cmd booking.CreateCommand) (models.Booking, error)
}

func New(log *slog.Logger, bookings BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.createBooking.New"

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

		var req BookingRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = validator.New().Struct(req); err != nil {
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationFailed(err))
			return
		}

		b, err := bookings.Create(r.Context(), booking.CreateCommand{
			CustomerID: user.ID,
			EventID:    req.EventID,
			TicketType: req.TicketType,
			Quantity:   req.Quantity,
		})
		if err != nil {
			status, msg := errmap.Status(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to create booking", sl.Err(err))
				msg = "failed to create booking"
			} else {
				log.Info("booking rejected", sl.Err(err))
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log.Info("booking created", slog.Int64("booking_id", b.ID))

		responseCreated(w, r, b)
	}
}

func responseCreated(w http.ResponseWriter, r *http.Request, b models.Booking) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, BookingResponse{
		Response: response.OK(),
		Message:  "Booking successful.",
		Booking:  b,
	})
}
