package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/models"
	"ticketing/internal/storage"
)

type catalog map[string]models.TicketType

func (c catalog) TicketType(_ context.Context, _ int64, ticketType string) (models.TicketType, error) {
	tt, ok := c[ticketType]
	if !ok {
		return models.TicketType{}, storage.ErrTicketTypeNotFound
	}

	return tt, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	e, err := New(DefaultConfig(), opts...)
	require.NoError(t, err)

	return e
}

func TestTotalPriceGroupDiscountBoundary(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	c := catalog{"GA": {EventID: 1, Type: "GA", Price: dec("20"), Availability: 100}}
	eventDate := time.Date(2026, 12, 1, 20, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		quantity int
		want     string
	}{
		{name: "single ticket", quantity: 1, want: "20"},
		{name: "just below threshold", quantity: 9, want: "180"},
		{name: "at threshold", quantity: 10, want: "180"},
		{name: "above threshold", quantity: 12, want: "216"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			total, err := e.TotalPrice(context.Background(), c, 1, "GA", tc.quantity, eventDate)
			require.NoError(t, err)
			assert.True(t, dec(tc.want).Equal(total), "want %s, got %s", tc.want, total)
		})
	}
}

func TestTotalPriceUnknownTicketType(t *testing.T) {
	t.Parallel()

	e := newEngine(t)

	_, err := e.TotalPrice(context.Background(), catalog{}, 1, "VIP", 1, time.Now())
	assert.True(t, errors.Is(err, storage.ErrTicketTypeNotFound))
}

func TestQuoteRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	e := newEngine(t)

	_, err := e.Quote(dec("10"), 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestGroupDiscountIsMonotonicPerUnit(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	unit := dec("37.50")
	eventDate := time.Now().Add(48 * time.Hour)

	prevPerUnit := unit
	for q := 1; q <= 30; q++ {
		total, err := e.Quote(unit, q, eventDate)
		require.NoError(t, err)

		perUnit := total.Div(decimal.NewFromInt(int64(q)))
		assert.True(t, perUnit.LessThanOrEqual(prevPerUnit), "quantity %d costs %s per unit", q, perUnit)
		prevPerUnit = perUnit
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{GroupThreshold: 0, GroupFactor: dec("0.9")})
	assert.Error(t, err)

	_, err = New(Config{GroupThreshold: 10, GroupFactor: dec("1.1")})
	assert.Error(t, err)

	_, err = New(Config{GroupThreshold: 10, GroupFactor: decimal.Zero})
	assert.Error(t, err)
}

func TestAdvanceTiers(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tiers := NewAdvanceTiers(
		Tier{DaysBefore: 7, Factor: dec("0.95")},
		Tier{DaysBefore: 30, Factor: dec("0.8")},
	)
	e := newEngine(t, WithDateAdjuster(tiers), WithClock(func() time.Time { return now }))

	base := dec("100")

	assert.True(t, dec("80").Equal(e.ApplyDateAdjustment(now.AddDate(0, 0, 45), base)))
	assert.True(t, dec("95").Equal(e.ApplyDateAdjustment(now.AddDate(0, 0, 10), base)))
	assert.True(t, base.Equal(e.ApplyDateAdjustment(now.AddDate(0, 0, 2), base)))
}

func TestAdvanceTiersAfterEventStart(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	tiers := NewAdvanceTiers(Tier{DaysBefore: 0, Factor: dec("0.5")})
	base := dec("100")

	testCases := []struct {
		name     string
		bookedAt time.Time
		expected decimal.Decimal
	}{
		{name: "Hours before start", bookedAt: start.Add(-20 * time.Hour), expected: dec("50")},
		{name: "At start", bookedAt: start, expected: base},
		{name: "Hours after start", bookedAt: start.Add(20 * time.Hour), expected: base},
		{name: "Days after start", bookedAt: start.AddDate(0, 0, 3), expected: base},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := tiers.Adjust(tc.bookedAt, start, base)
			assert.True(t, tc.expected.Equal(got), "got %s", got)
		})
	}
}

func TestIdentityAdjusterIsDefault(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	base := dec("42.10")

	assert.True(t, base.Equal(e.ApplyDateAdjustment(time.Now().AddDate(1, 0, 0), base)))
}
