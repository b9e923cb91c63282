package cancelBooking

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ticketing/internal/http-server/middleware/mwauth"
	"ticketing/internal/lib/api/errmap"
	"ticketing/internal/lib/api/response"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/models"
)

type CancelResponse struct {
	response.Response
	Message string         `json:"message"`
	Booking models.Booking `json:"booking"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCanceller
type BookingCanceller interface {
	Cancel(ctx context.Context, bookingID int64, actor models.Identity) (models.Booking, error)
}

// New cancels a booking of the caller. Admins may cancel any booking.
func New(log *slog.Logger, bookings BookingCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.cancelBooking.New"

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

		b, err := bookings.Cancel(r.Context(), bookingID, user)
		if err != nil {
			status, msg := errmap.Status(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to cancel booking", sl.Err(err))
				msg = "failed to cancel booking"
			} else {
				log.Info("cancellation rejected", sl.Err(err))
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log.Info("booking cancelled", slog.String("role", string(user.Role)))

		render.JSON(w, r, CancelResponse{
			Response: response.OK(),
			Message:  "Booking cancelled successfully.",
			Booking:  b,
		})
	}
}
