package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ticketing/internal/lib/api/errmap"
	"ticketing/internal/lib/api/response"
	"ticketing/internal/lib/logger/sl"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	response.Response
	Message string `json:"message"`
	Token   string `json:"token"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Authenticator
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

func New(log *slog.Logger, auth Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.login.New"

		log := log.With(slog.String("op", op))

		var req LoginRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationFailed(err))
			return
		}

		token, err := auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			status, msg := errmap.Status(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to log in", sl.Err(err))
				msg = "failed to log in"
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		render.JSON(w, r, LoginResponse{
			Response: response.OK(),
			Message:  "Login successful",
			Token:    token,
		})
	}
}
