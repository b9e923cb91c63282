// Package pricing computes booking prices from a ticket type's unit price, a
// date-based adjustment and a group discount.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ticketing/internal/models"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Catalog resolves ticket types. storage.Tx satisfies it, so prices are read
// inside the caller's transaction.
type Catalog interface {
	TicketType(ctx context.Context, eventID int64, ticketType string) (models.TicketType, error)
}

// DateAdjuster adjusts a base unit price depending on when the booking is made
// relative to the event date.
type DateAdjuster interface {
	Adjust(bookedAt, eventDate time.Time, base decimal.Decimal) decimal.Decimal
}

type DateAdjusterFunc func(bookedAt, eventDate time.Time, base decimal.Decimal) decimal.Decimal

func (f DateAdjusterFunc) Adjust(bookedAt, eventDate time.Time, base decimal.Decimal) decimal.Decimal {
	return f(bookedAt, eventDate, base)
}

// Identity leaves the price unchanged.
var Identity = DateAdjusterFunc(func(_, _ time.Time, base decimal.Decimal) decimal.Decimal {
	return base
})

type Tier struct {
	DaysBefore int
	Factor     decimal.Decimal
}

// AdvanceTiers applies the factor of the tier with the largest DaysBefore the
// booking satisfies. Bookings matching no tier, or made once the event has
// started, pay the base price.
type AdvanceTiers []Tier

func NewAdvanceTiers(tiers ...Tier) AdvanceTiers {
	sorted := make(AdvanceTiers, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DaysBefore > sorted[j].DaysBefore
	})

	return sorted
}

func (t AdvanceTiers) Adjust(bookedAt, eventDate time.Time, base decimal.Decimal) decimal.Decimal {
	if !bookedAt.Before(eventDate) {
		return base
	}

	daysBefore := int(eventDate.Sub(bookedAt) / (24 * time.Hour))

	for _, tier := range t {
		if daysBefore >= tier.DaysBefore {
			return base.Mul(tier.Factor)
		}
	}

	return base
}

type Config struct {
	GroupThreshold int
	GroupFactor    decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		GroupThreshold: 10,
		GroupFactor:    decimal.RequireFromString("0.9"),
	}
}

type Engine struct {
	cfg      Config
	adjuster DateAdjuster
	now      func() time.Time
}

type Option func(*Engine)

func WithDateAdjuster(a DateAdjuster) Option {
	return func(e *Engine) {
		e.adjuster = a
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	const op = "pricing.New"

	if cfg.GroupThreshold < 1 {
		return nil, fmt.Errorf("%s: group threshold must be at least 1, got %d", op, cfg.GroupThreshold)
	}
	// A factor above one would make larger groups pay more per unit.
	if !cfg.GroupFactor.IsPositive() || cfg.GroupFactor.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%s: group factor must be in (0, 1], got %s", op, cfg.GroupFactor)
	}

	e := &Engine{
		cfg:      cfg,
		adjuster: Identity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

func (e *Engine) UnitPrice(ctx context.Context, c Catalog, eventID int64, ticketType string) (decimal.Decimal, error) {
	const op = "pricing.UnitPrice"

	tt, err := c.TicketType(ctx, eventID, ticketType)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	return tt.Price, nil
}

func (e *Engine) ApplyDateAdjustment(eventDate time.Time, base decimal.Decimal) decimal.Decimal {
	return e.adjuster.Adjust(e.now(), eventDate, base)
}

func (e *Engine) ApplyGroupDiscount(price decimal.Decimal, quantity int) decimal.Decimal {
	if quantity >= e.cfg.GroupThreshold {
		return price.Mul(e.cfg.GroupFactor)
	}

	return price
}

// Quote prices quantity units of a ticket whose unit price is already known.
func (e *Engine) Quote(unitPrice decimal.Decimal, quantity int, eventDate time.Time) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, ErrInvalidQuantity
	}

	unit := e.ApplyGroupDiscount(e.ApplyDateAdjustment(eventDate, unitPrice), quantity)

	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2), nil
}

func (e *Engine) TotalPrice(
	ctx context.Context,
	c Catalog,
	eventID int64,
	ticketType string,
	quantity int,
	eventDate time.Time,
) (decimal.Decimal, error) {
	const op = "pricing.TotalPrice"

	unit, err := e.UnitPrice(ctx, c, eventID, ticketType)
	if err != nil {
		return decimal.Zero, err
	}

	total, err := e.Quote(unit, quantity, eventDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	return total, nil
}
