package venue_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/models"
	"ticketing/internal/storage"
	"ticketing/internal/storage/memory"
	"ticketing/internal/venue"
)

var base = time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)

func at(h int) time.Time {
	return base.Add(time.Duration(h) * time.Hour)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		aStart   int
		aEnd     int
		bStart   int
		bEnd     int
		expected bool
	}{
		{name: "Disjoint", aStart: 0, aEnd: 2, bStart: 3, bEnd: 5, expected: false},
		{name: "Touching end to start", aStart: 0, aEnd: 2, bStart: 2, bEnd: 4, expected: false},
		{name: "Touching start to end", aStart: 2, aEnd: 4, bStart: 0, bEnd: 2, expected: false},
		{name: "Partial", aStart: 0, aEnd: 3, bStart: 2, bEnd: 5, expected: true},
		{name: "Contained", aStart: 1, aEnd: 2, bStart: 0, bEnd: 5, expected: true},
		{name: "Identical", aStart: 0, aEnd: 2, bStart: 0, bEnd: 2, expected: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, venue.Overlaps(at(tc.aStart), at(tc.aEnd), at(tc.bStart), at(tc.bEnd)))
			assert.Equal(t, tc.expected, venue.Overlaps(at(tc.bStart), at(tc.bEnd), at(tc.aStart), at(tc.aEnd)))
		})
	}
}

func TestValidateInterval(t *testing.T) {
	t.Parallel()

	assert.NoError(t, venue.ValidateInterval(at(0), at(1)))
	assert.ErrorIs(t, venue.ValidateInterval(at(1), at(1)), venue.ErrInvalidInterval)
	assert.ErrorIs(t, venue.ValidateInterval(at(2), at(1)), venue.ErrInvalidInterval)
}

func TestSchedulerHasOverlap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.New()

	hall, err := store.CreateVenue(ctx, models.Venue{Name: "Hall"})
	require.NoError(t, err)
	other, err := store.CreateVenue(ctx, models.Venue{Name: "Club"})
	require.NoError(t, err)

	var concert models.Event
	require.NoError(t, store.InTx(ctx, func(tx storage.Tx) error {
		concert, err = tx.InsertEvent(ctx, models.Event{Name: "Concert", VenueID: hall.ID, Start: at(0), End: at(3)})
		return err
	}))

	s := venue.NewScheduler()

	testCases := []struct {
		name      string
		venueID   int64
		start     int
		end       int
		excludeID int64
		expected  bool
	}{
		{name: "Overlapping slot", venueID: hall.ID, start: 2, end: 4, expected: true},
		{name: "Slot right after", venueID: hall.ID, start: 3, end: 5, expected: false},
		{name: "Other venue", venueID: other.ID, start: 0, end: 3, expected: false},
		{name: "Event itself excluded", venueID: hall.ID, start: 1, end: 4, excludeID: concert.ID, expected: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := store.InTx(ctx, func(tx storage.Tx) error {
				got, err := s.HasOverlap(ctx, tx, tc.venueID, at(tc.start), at(tc.end), tc.excludeID)
				if err != nil {
					return err
				}
				assert.Equal(t, tc.expected, got)
				return nil
			})
			require.NoError(t, err)
		})
	}

	t.Run("Invalid interval", func(t *testing.T) {
		t.Parallel()

		err := store.InTx(ctx, func(tx storage.Tx) error {
			_, err := s.Conflict(ctx, tx, hall.ID, at(4), at(2), 0)
			return err
		})
		assert.ErrorIs(t, err, venue.ErrInvalidInterval)
	})
}
