package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ticketing/internal/config"
	"ticketing/internal/lib/logger/sl"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Expirer
type Expirer interface {
	ExpireStale(ctx context.Context, createdBefore time.Time, limit int) (int, error)
}

// Locker keeps replicas from sweeping the same tick.
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

type Sweeper struct {
	log      *slog.Logger
	expirer  Expirer
	locker   Locker
	deadline time.Duration
	interval time.Duration
	batch    int
	now      func() time.Time
}

type Option func(*Sweeper)

func WithLocker(l Locker) Option {
	return func(s *Sweeper) {
		s.locker = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

func New(log *slog.Logger, expirer Expirer, cfg config.Booking, opts ...Option) *Sweeper {
	s := &Sweeper{
		log:      log,
		expirer:  expirer,
		deadline: cfg.PaymentDeadline,
		interval: cfg.SweepInterval,
		batch:    cfg.SweepBatch,
		now:      time.Now,
	}
	if s.batch <= 0 {
		s.batch = 100
	}
	if s.interval <= 0 {
		s.interval = time.Minute
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run sweeps every interval until ctx is done. A zero payment deadline
// disables expiry and Run returns immediately.
func (s *Sweeper) Run(ctx context.Context) error {
	const op = "sweeper.Run"

	log := s.log.With(slog.String("op", op))

	if s.deadline <= 0 {
		log.Info("payment deadline is not set, booking expiry disabled")
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				log.Error("failed to expire bookings", sl.Err(err))
			}
		}
	}
}

// Sweep cancels every booking left unpaid past the deadline, batch by batch.
// It reports zero without touching the store when another replica holds the lock.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	const op = "sweeper.Sweep"

	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			s.log.Debug("sweep lock is held elsewhere", slog.String("op", op))
			return 0, nil
		}
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn("failed to release sweep lock", slog.String("op", op), sl.Err(err))
			}
		}()
	}

	cutoff := s.now().Add(-s.deadline)

	var total int
	for {
		n, err := s.expirer.ExpireStale(ctx, cutoff, s.batch)
		if err != nil {
			return total, fmt.Errorf("%s: %w", op, err)
		}
		total += n

		if n < s.batch || ctx.Err() != nil {
			return total, nil
		}
	}
}
