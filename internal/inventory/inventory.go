// Package inventory keeps the availability counter of each (event, ticket type).
package inventory

import (
	"context"
	"errors"
	"fmt"

	"ticketing/internal/metrics"
	"ticketing/internal/models"
	"ticketing/internal/storage"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Store is the subset of storage.Tx the ledger works against. Both calls
// must run in the caller's transaction.
type Store interface {
	TicketType(ctx context.Context, eventID int64, ticketType string) (models.TicketType, error)
	DecrementAvailability(ctx context.Context, eventID int64, ticketType string, quantity int) (bool, error)
	IncrementAvailability(ctx context.Context, eventID int64, ticketType string, quantity int) (bool, error)
}

type Ledger struct{}

func New() *Ledger {
	return &Ledger{}
}

// Reserve takes quantity units out of availability. It never leaves the
// counter negative: when fewer units remain nothing changes and
// storage.ErrInsufficientInventory is returned.
func (l *Ledger) Reserve(ctx context.Context, s Store, eventID int64, ticketType string, quantity int) error {
	const op = "inventory.Reserve"

	if quantity <= 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	ok, err := s.DecrementAvailability(ctx, eventID, ticketType, quantity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ok {
		metrics.TicketsReserved.Add(float64(quantity))
		return nil
	}

	// No row changed: either the ticket type is gone or it ran out.
	if _, err := s.TicketType(ctx, eventID, ticketType); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.InventoryRejections.Inc()

	return fmt.Errorf("%s: %w", op, storage.ErrInsufficientInventory)
}

func (l *Ledger) Release(ctx context.Context, s Store, eventID int64, ticketType string, quantity int) error {
	const op = "inventory.Release"

	if quantity <= 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	ok, err := s.IncrementAvailability(ctx, eventID, ticketType, quantity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrTicketTypeNotFound)
	}

	metrics.TicketsReleased.Add(float64(quantity))

	return nil
}

// Adjust moves a reservation from (fromType, fromQty) to (toType, toQty) on
// one event, touching only the difference when the type is unchanged.
func (l *Ledger) Adjust(
	ctx context.Context,
	s Store,
	eventID int64,
	fromType string, fromQty int,
	toType string, toQty int,
) error {
	if fromType != toType {
		if err := l.Release(ctx, s, eventID, fromType, fromQty); err != nil {
			return err
		}

		return l.Reserve(ctx, s, eventID, toType, toQty)
	}

	switch delta := toQty - fromQty; {
	case delta > 0:
		return l.Reserve(ctx, s, eventID, toType, delta)
	case delta < 0:
		return l.Release(ctx, s, eventID, toType, -delta)
	}

	return nil
}
