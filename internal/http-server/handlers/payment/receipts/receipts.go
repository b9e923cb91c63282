package receipts

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

type ReceiptsResponse struct {
	response.Response
	Receipts []models.Receipt `json:"receipts"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ReceiptsGetter
type ReceiptsGetter interface {
	Receipts(ctx context.Context, actor models.Identity, customerID int64) ([]models.Receipt, error)
}

// New lists receipts of the customer named by the customer_id URL parameter,
// or of the caller when the route has none.
func New(log *slog.Logger, getter ReceiptsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payment.receipts.New"

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

		customerID := user.ID
		if param := chi.URLParam(r, "customer_id"); param != "" {
			id, err := strconv.ParseInt(param, 10, 64)
			if err != nil {
				log.Error("invalid customer id format", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid customer id format"))
				return
			}
			customerID = id
		}

		log = log.With(slog.Int64("customer_id", customerID))

		receipts, err := getter.Receipts(r.Context(), user, customerID)
		if err != nil {
			status, msg := errmap.Status(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to get receipts", sl.Err(err))
				msg = "failed to get receipts"
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		if receipts == nil {
			receipts = []models.Receipt{}
		}

		log.Info("receipts retrieved successfully", slog.Int("count", len(receipts)))

		render.JSON(w, r, ReceiptsResponse{
			Response: response.OK(),
			Receipts: receipts,
		})
	}
}
