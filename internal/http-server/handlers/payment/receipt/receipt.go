package receipt

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

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ReceiptGetter
type ReceiptGetter interface {
	Receipt(ctx context.Context, paymentID int64, actor models.Identity) (models.Receipt, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ReceiptRenderer
type ReceiptRenderer interface {
	Receipt(w io.Writer, rc models.Receipt) error
}

func New(log *slog.Logger, receipts ReceiptGetter, renderer ReceiptRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payment.receipt.New"

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

		paymentID, err := strconv.ParseInt(chi.URLParam(r, "payment_id"), 10, 64)
		if err != nil {
			log.Error("invalid payment id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid payment id format"))
			return
		}

		log = log.With(slog.Int64("payment_id", paymentID))

		rc, err := receipts.Receipt(r.Context(), paymentID, user)
		if err != nil {
			status, msg := errmap.Status(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to get receipt", sl.Err(err))
				msg = "failed to get receipt"
			}

			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		var buf bytes.Buffer
		if err = renderer.Receipt(&buf, rc); err != nil {
			log.Error("failed to render receipt", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to generate PDF"))
			return
		}

		w.Header().Set("Content-Type", pdf.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", pdf.ReceiptFilename(paymentID)))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

		if _, err = buf.WriteTo(w); err != nil {
			log.Error("failed to write PDF", sl.Err(err))
		}
	}
}
