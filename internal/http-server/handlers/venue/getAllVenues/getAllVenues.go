package getAllVenues

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ticketing/internal/lib/api/response"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/models"
)

type VenuesResponse struct {
	response.Response
	Venues []models.Venue `json:"venues"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=VenuesGetter
type VenuesGetter interface {
	ListVenues(ctx context.Context) ([]models.Venue, error)
}

func New(log *slog.Logger, getter VenuesGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.venue.getAllVenues.New"

		log := log.With(slog.String("op", op))

		venues, err := getter.ListVenues(r.Context())
		if err != nil {
			log.Error("failed to get venues", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get venues"))
			return
		}

		if venues == nil {
			venues = []models.Venue{}
		}

		render.JSON(w, r, VenuesResponse{
			Response: response.OK(),
			Venues:   venues,
		})
	}
}
