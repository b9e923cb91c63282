package editBooking

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
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

// EditRequest carries the new ticket type and quantity. Statuses cannot be
// set by clients.
type EditRequest struct {
	TicketType string `json:"ticket_type" validate:"required"`
	Quantity   int    `json:"number_of_tickets" validate:"required,gt=0"`
}

type EditResponse struct {
	response.Response
	Message string         `json:"message"`
	Booking models.Booking `json:"booking"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingEditor
type BookingEditor interface {
	Edit(ctx context.Context, cmd booking.EditCommand) (models.Booking, error)
}

func New(log *slog.Logger, bookings BookingEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.editBooking.New"

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

		bookingID, err := strconv.ParseInt(chi.URLParam(r, "booking_id"), 10, 64)
		if err != nil {
			log.Error("invalid booking id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid booking id format"))
			return
		}

		log = log.With(slog.Int64("booking_id", bookingID))

		var req EditRequest

		err = render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationFailed(err))
			return
		}

		b, err := bookings.Edit(r.Context(), booking.EditCommand{
			BookingID:  bookingID,
			CustomerID: user.ID,
			TicketType: req.TicketType,
			Quantity:   req.Quantity,
		})
		if err != nil {
			status, msg := errmap.Status(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to edit booking", sl.Err(err))
				msg = "failed to edit booking"
			} else {
				log.Info("edit rejected", sl.Err(err))
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log.Info("booking edited", slog.Int("number_of_tickets", b.Quantity))

		render.JSON(w, r, EditResponse{
			Response: response.OK(),
			Message:  "Booking updated successfully.",
			Booking:  b,
		})
	}
}
