package editEvent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ticketing/internal/http-server/middleware/mwauth"
	"ticketing/internal/lib/api/errmap"
	"ticketing/internal/lib/api/response"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/models"
	"ticketing/internal/services/event"
	"ticketing/internal/storage"
)

type EditRequest struct {
	Name        string    `json:"event_name" validate:"required"`
	Start       time.Time `json:"event_start" validate:"required"`
	End         time.Time `json:"event_end" validate:"required"`
	Description string    `json:"description"`
	Category    string    `json:"event_type"`
	VenueID     int64     `json:"venue_id" validate:"required"`
}

type EditResponse struct {
	response.Response
	Message string       `json:"message"`
	Event   models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventEditor
type EventEditor interface {
	EditEvent(ctx context.Context, actor models.Identity, eventID int64, cmd event.EditCommand) (models.Event, error)
}

func New(log *slog.Logger, events EventEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.editEvent.New"

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

		eventID, err := strconv.ParseInt(chi.URLParam(r, "event_id"), 10, 64)
		if err != nil {
			log.Error("invalid event id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id format"))
			return
		}

		log = log.With(slog.Int64("event_id", eventID))

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

		ev, err := events.EditEvent(r.Context(), user, eventID, event.EditCommand{
			Name:        req.Name,
			VenueID:     req.VenueID,
			Start:       req.Start,
			End:         req.End,
			Description: req.Description,
			Category:    req.Category,
		})
		if err != nil {
			status, msg := errmap.Status(err)
			switch {
			case errors.Is(err, storage.ErrVenueConflict):
				status = http.StatusConflict
			case status == http.StatusInternalServerError:
				log.Error("failed to edit event", sl.Err(err))
				msg = "failed to edit event"
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log.Info("event updated")

		render.JSON(w, r, EditResponse{
			Response: response.OK(),
			Message:  "Event updated successfully.",
			Event:    ev,
		})
	}
}
