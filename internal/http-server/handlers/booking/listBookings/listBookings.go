package listBookings

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ticketing/internal/http-server/middleware/mwauth"
	"ticketing/internal/lib/api/response"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/models"
)

type BookingsResponse struct {
	response.Response
	Bookings []models.BookingView `json:"bookings"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingsLister
type BookingsLister interface {
	ListForCustomer(ctx context.Context, customerID int64) ([]models.BookingView, error)
	ListForOrganizer(ctx context.Context, organizerID int64) ([]models.BookingView, error)
	ListAll(ctx context.Context) ([]models.BookingView, error)
}

// Scope selects whose bookings a handler lists.
type Scope int

const (
	// Mine lists the caller's own bookings.
	Mine Scope = iota
	// Organizer lists bookings of events organized by the caller.
	Organizer
	// All lists every booking.
	All
)

func (s Scope) String() string {
	switch s {
	case Mine:
		return "mine"
	case Organizer:
		return "organizer"
	default:
		return "all"
	}
}

func New(log *slog.Logger, lister BookingsLister, scope Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.listBookings.New"

		log := log.With(
			slog.String("op", op),
			slog.String("scope", scope.String()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := mwauth.IdentityFromContext(r.Context())
		if !ok {
			log.Error("identity is missing")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authorization token is required"))
			return
		}

		var (
			bookings []models.BookingView
			err      error
		)

		switch scope {
		case Mine:
			bookings, err = lister.ListForCustomer(r.Context(), user.ID)
		case Organizer:
			bookings, err = lister.ListForOrganizer(r.Context(), user.ID)
		default:
			bookings, err = lister.ListAll(r.Context())
		}
		if err != nil {
			log.Error("failed to list bookings", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get bookings"))
			return
		}

		log.Info("bookings retrieved successfully", slog.Int("count", len(bookings)))

		responseOK(w, r, bookings)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, bookings []models.BookingView) {
	if bookings == nil {
		bookings = []models.BookingView{}
	}

	render.JSON(w, r, BookingsResponse{
		Response: response.OK(),
		Bookings: bookings,
	})
}
