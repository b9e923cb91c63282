package register

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

type RegisterRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     models.Role `json:"role" validate:"required,oneof=Customer Organizer Admin"`
}

type RegisterResponse struct {
	response.Response
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UserRegistrar
type UserRegistrar interface {
	Register(ctx context.Context, email, password string, role models.Role) (models.User, error)
}

func New(log *slog.Logger, users UserRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.register.New"

		log := log.With(slog.String("op", op))

		var req RegisterRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			log.Info("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationFailed(err))
			return
		}

		user, err := users.Register(r.Context(), req.Email, req.Password, req.Role)
		if err != nil {
			status, msg := errmap.Status(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to register user", sl.Err(err))
				msg = "failed to register user"
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log.Info("user registered", slog.Int64("user_id", user.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, RegisterResponse{
			Response: response.OK(),
			Message:  "User successfully registered.",
			User:     user,
		})
	}
}
