package pay

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"ticketing/internal/http-server/middleware/mwauth"
	"ticketing/internal/lib/api/errmap"
	"ticketing/internal/lib/api/response"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/models"
	"ticketing/internal/services/payment"
)

// PaymentRequest accepts the amount as a JSON number or a decimal string.
type PaymentRequest struct {
	Method string          `json:"payment_method" validate:"required"`
	Amount decimal.Decimal `json:"amount_paid"`
}

type PaymentResponse struct {
	response.Response
	Message string         `json:"message"`
	Payment models.Payment `json:"payment"`
	Booking models.Booking `json:"booking"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingPayer
type BookingPayer interface {
	Pay(ctx context.Context, cmd payment.PayCommand) (models.Payment, models.Booking, error)
}

func New(log *slog.Logger, payer BookingPayer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payment.pay.New"

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

		var req PaymentRequest

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

		p, b, err := payer.Pay(r.Context(), payment.PayCommand{
			BookingID:  bookingID,
			CustomerID: user.ID,
			Method:     req.Method,
			Amount:     req.Amount,
		})
		if err != nil {
			status, msg := errmap.Status(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to record payment", sl.Err(err))
				msg = "failed to process payment"
			} else {
				log.Info("payment rejected", sl.Err(err))
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		log.Info("booking paid", slog.Int64("payment_id", p.ID))

		responseOK(w, r, p, b)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, p models.Payment, b models.Booking) {
	render.JSON(w, r, PaymentResponse{
		Response: response.OK(),
		Message:  "Payment successful",
		Payment:  p,
		Booking:  b,
	})
}
