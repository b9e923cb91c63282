package createVenue

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ticketing/internal/lib/api/errmap"
	"ticketing/internal/lib/api/response"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/models"
)

type VenueRequest struct {
	Name     string `json:"venue_name" validate:"required"`
	Location string `json:"location"`
}

type VenueResponse struct {
	response.Response
	Venue models.Venue `json:"venue"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=VenueCreator
type VenueCreator interface {
	CreateVenue(ctx context.Context, name, location string) (models.Venue, error)
}

func New(log *slog.Logger, venues VenueCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.venue.createVenue.New"

		log := log.With(slog.String("op", op))

		var req VenueRequest

		err := render.DecodeJSON(r.Body, &req)
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

		v, err := venues.CreateVenue(r.Context(), req.Name, req.Location)
		if err != nil {
			status, msg := errmap.Status(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to add venue", sl.Err(err))
				msg = "failed to add venue"
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log.Info("venue added", slog.Int64("id", v.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, VenueResponse{
			Response: response.OK(),
			Venue:    v,
		})
	}
}
