// Package payment records payments against bookings and serves receipts.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/metrics"
	"ticketing/internal/models"
	"ticketing/internal/storage"
)

var (
	ErrAlreadyPaid         = errors.New("booking is already paid")
	ErrInsufficientPayment = errors.New("payment amount is less than the booking total")
	ErrInvalidPayment      = errors.New("payment_method is required and amount must be positive")
	ErrForbidden           = errors.New("not allowed to read these receipts")
)

type Store interface {
	storage.Transactor
	Receipt(ctx context.Context, paymentID int64) (models.Receipt, error)
	CustomerReceipts(ctx context.Context, customerID int64) ([]models.Receipt, error)
}

type PayCommand struct {
	BookingID  int64
	CustomerID int64
	Method     string
	Amount     decimal.Decimal
}

type Service struct {
	log    *slog.Logger
	store  Store
	tracer trace.Tracer
	now    func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(log *slog.Logger, store Store, opts ...Option) *Service {
	s := &Service{
		log:    log,
		store:  store,
		tracer: otel.Tracer("ticketing/payment"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Pay settles a Pending/Unpaid booking. The payment row and the booking
// status change commit together. A second call on the same booking returns
// ErrAlreadyPaid and writes nothing.
func (s *Service) Pay(ctx context.Context, cmd PayCommand) (models.Payment, models.Booking, error) {
	const op = "services.payment.Pay"

	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(attribute.Int64("booking_id", cmd.BookingID)))
	defer span.End()

	log := s.log.With(slog.String("op", op), slog.Int64("booking_id", cmd.BookingID))

	if cmd.Method == "" || !cmd.Amount.IsPositive() {
		return models.Payment{}, models.Booking{}, s.reject(log, span, fmt.Errorf("%s: %w", op, ErrInvalidPayment))
	}

	var (
		payment models.Payment
		booking models.Booking
	)
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		b, err := tx.BookingForUpdate(ctx, cmd.BookingID)
		if err != nil {
			return err
		}
		if b.CustomerID != cmd.CustomerID {
			return storage.ErrBookingNotFound
		}
		if b.PaymentStatus == models.PaymentPaid {
			return ErrAlreadyPaid
		}
		if cmd.Amount.LessThan(b.TotalPrice) {
			return ErrInsufficientPayment
		}

		paidAt := s.now().UTC()

		payment, err = tx.InsertPayment(ctx, models.Payment{
			BookingID: b.ID,
			Method:    cmd.Method,
			Amount:    cmd.Amount,
			Status:    models.PaymentPaid,
			PaidAt:    paidAt,
		})
		if err != nil {
			return err
		}

		method := cmd.Method
		b.BookingStatus = models.BookingBooked
		b.PaymentStatus = models.PaymentPaid
		b.PaymentDate = &paidAt
		b.PaymentMethod = &method

		if booking, err = tx.UpdateBooking(ctx, b); err != nil {
			return err
		}

		return tx.Publish(ctx, models.NewBookingEvent(models.EventBookingPaid, booking, paidAt))
	})
	if err != nil {
		return models.Payment{}, models.Booking{}, s.reject(log, span, fmt.Errorf("%s: %w", op, err))
	}

	metrics.PaymentsRecorded.Inc()
	log.Info("payment recorded",
		slog.Int64("payment_id", payment.ID),
		slog.String("amount", payment.Amount.StringFixed(2)),
	)

	return payment, booking, nil
}

func (s *Service) reject(log *slog.Logger, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	switch {
	case errors.Is(err, ErrInvalidPayment),
		errors.Is(err, ErrAlreadyPaid),
		errors.Is(err, ErrInsufficientPayment),
		errors.Is(err, storage.ErrBookingNotFound):
		log.Debug("payment rejected", sl.Err(err))
	default:
		log.Error("failed to record payment", sl.Err(err))
	}

	return err
}

// Receipt returns a payment joined with its booking. Customers only see their
// own payments; for anyone else the payment does not exist.
func (s *Service) Receipt(ctx context.Context, paymentID int64, actor models.Identity) (models.Receipt, error) {
	const op = "services.payment.Receipt"

	r, err := s.store.Receipt(ctx, paymentID)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	if !actor.IsAdmin() && r.CustomerID != actor.ID {
		return models.Receipt{}, fmt.Errorf("%s: %w", op, storage.ErrPaymentNotFound)
	}

	return r, nil
}

func (s *Service) Receipts(ctx context.Context, actor models.Identity, customerID int64) ([]models.Receipt, error) {
	const op = "services.payment.Receipts"

	if !actor.IsAdmin() && customerID != actor.ID {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	receipts, err := s.store.CustomerReceipts(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return receipts, nil
}
