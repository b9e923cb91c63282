package bookingPDF

import (
	"bytes"
	"context"
	"fmt"
	"io"
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
	"ticketing/internal/lib/pdf"
	"ticketing/internal/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingGetter
type BookingGetter interface {
	Booking(ctx context.Context, bookingID, customerID int64) (models.BookingView, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingRenderer
type BookingRenderer interface {
	Booking(w io.Writer, b models.BookingView) error
}

// New streams the caller's booking as a PDF attachment.
func New(log *slog.Logger, bookings BookingGetter, renderer BookingRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.bookingPDF.New"

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

		b, err := bookings.Booking(r.Context(), bookingID, user.ID)
		if err != nil {
			status, msg := errmap.Status(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to get booking", sl.Err(err))
				msg = "failed to get booking"
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		var buf bytes.Buffer
		if err = renderer.Booking(&buf, b); err != nil {
			log.Error("failed to render booking", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to generate PDF"))
			return
		}

		w.Header().Set("Content-Type", pdf.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", pdf.BookingFilename(bookingID)))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

		if _, err = buf.WriteTo(w); err != nil {
			log.Error("failed to write PDF", sl.Err(err))
		}
	}
}
