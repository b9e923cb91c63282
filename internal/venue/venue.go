// Package venue guards the rule that events sharing a venue never overlap in time.
package venue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketing/internal/models"
)

var ErrInvalidInterval = errors.New("event end must be after event start")

type Store interface {
	OverlappingEvent(ctx context.Context, venueID int64, start, end time.Time, excludeEventID int64) (*models.Event, error)
}

// Overlaps is the half-open interval test: [aStart, aEnd) and [bStart, bEnd)
// share an instant. Intervals that only touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func ValidateInterval(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidInterval
	}

	return nil
}

type Scheduler struct{}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Conflict returns the event at venueID that overlaps [start, end), or nil.
// excludeEventID (0 for none) is skipped so an event never conflicts with itself.
func (s *Scheduler) Conflict(
	ctx context.Context,
	st Store,
	venueID int64,
	start, end time.Time,
	excludeEventID int64,
) (*models.Event, error) {
	const op = "venue.Conflict"

	if err := ValidateInterval(start, end); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	other, err := st.OverlappingEvent(ctx, venueID, start, end, excludeEventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return other, nil
}

func (s *Scheduler) HasOverlap(
	ctx context.Context,
	st Store,
	venueID int64,
	start, end time.Time,
	excludeEventID int64,
) (bool, error) {
	other, err := s.Conflict(ctx, st, venueID, start, end, excludeEventID)
	if err != nil {
		return false, err
	}

	return other != nil, nil
}
