package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/inventory"
	"ticketing/internal/models"
	"ticketing/internal/storage"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return New(sqlx.NewDb(db, "postgres"), time.Second), mock
}

func TestInTx(t *testing.T) {
	t.Parallel()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		t.Parallel()

		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := s.InTx(context.Background(), func(tx storage.Tx) error { return nil })
		require.NoError(t, err)
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		t.Parallel()

		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := s.InTx(context.Background(), func(tx storage.Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()

		s, mock := newMockStorage(t)
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		err := s.InTx(context.Background(), func(tx storage.Tx) error {
			t.Fatal("fn must not run")
			return nil
		})
		assert.ErrorContains(t, err, "failed to begin transaction")
	})
}

func TestDecrementAvailability(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "enough tickets", affected: 1, want: true},
		{name: "not enough tickets", affected: 0, want: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, mock := newMockStorage(t)
			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE tickets SET availability = availability - \$1 WHERE event_id = \$2 AND ticket_type = \$3 AND availability >= \$1`).
				WithArgs(3, int64(7), "VIP").
				WillReturnResult(sqlmock.NewResult(0, tc.affected))
			mock.ExpectCommit()

			var got bool
			err := s.InTx(context.Background(), func(tx storage.Tx) error {
				var err error
				got, err = tx.DecrementAvailability(context.Background(), 7, "VIP", 3)
				return err
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLedgerReserveOverPostgres(t *testing.T) {
	t.Parallel()

	s, mock := newMockStorage(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE tickets SET availability = availability - \$1`).
		WithArgs(6, int64(1), "General").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT event_id, ticket_type, price, availability FROM tickets`).
		WithArgs(int64(1), "General").
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "ticket_type", "price", "availability"}).
			AddRow(int64(1), "General", "20.00", 5))
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx storage.Tx) error {
		return inventory.New().Reserve(context.Background(), tx, 1, "General", 6)
	})
	assert.ErrorIs(t, err, storage.ErrInsufficientInventory)
}

func TestInsertEventErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{
			name:    "overlapping event",
			dbErr:   &pq.Error{Code: pgExclusionViolation},
			wantErr: storage.ErrVenueConflict,
		},
		{
			name:    "unknown venue",
			dbErr:   &pq.Error{Code: pgForeignKeyViolation},
			wantErr: storage.ErrVenueNotFound,
		},
	}

	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, mock := newMockStorage(t)
			mock.ExpectBegin()
			mock.ExpectQuery(`INSERT INTO events`).WillReturnError(tc.dbErr)
			mock.ExpectRollback()

			err := s.InTx(context.Background(), func(tx storage.Tx) error {
				_, err := tx.InsertEvent(context.Background(), models.Event{
					Name:    "Concert",
					VenueID: 1,
					Start:   start,
					End:     start.Add(2 * time.Hour),
				})
				return err
			})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestEventNotFound(t *testing.T) {
	t.Parallel()

	s, mock := newMockStorage(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT event_id, event_name`).WithArgs(int64(42)).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx storage.Tx) error {
		_, err := tx.Event(context.Background(), 42)
		return err
	})
	assert.ErrorIs(t, err, storage.ErrEventNotFound)
}

func TestOverlappingEvent(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	columns := []string{
		"event_id", "event_name", "venue_id", "event_start", "event_end",
		"description", "event_type", "organizer_id",
	}

	t.Run("no overlap", func(t *testing.T) {
		t.Parallel()

		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM events WHERE venue_id = \$1 AND event_id <> \$4 AND event_start < \$3 AND event_end > \$2`).
			WithArgs(int64(1), start, end, int64(0)).
			WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectCommit()

		var got *models.Event
		err := s.InTx(context.Background(), func(tx storage.Tx) error {
			var err error
			got, err = tx.OverlappingEvent(context.Background(), 1, start, end, 0)
			return err
		})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("overlap found", func(t *testing.T) {
		t.Parallel()

		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM events WHERE venue_id = \$1`).
			WithArgs(int64(1), start, end, int64(0)).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(int64(9), "Opera", int64(1), start.Add(time.Hour), end.Add(time.Hour), "", "Music", int64(3)))
		mock.ExpectCommit()

		var got *models.Event
		err := s.InTx(context.Background(), func(tx storage.Tx) error {
			var err error
			got, err = tx.OverlappingEvent(context.Background(), 1, start, end, 0)
			return err
		})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(9), got.ID)
		assert.Equal(t, "Opera", got.Name)
	})
}

func TestBookingForUpdate(t *testing.T) {
	t.Parallel()

	s, mock := newMockStorage(t)
	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE booking_id = \$1 FOR UPDATE`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{
			"booking_id", "customer_id", "event_id", "ticket_type", "number_of_tickets",
			"total_price", "booking_status", "payment_status", "confirmation_code",
			"booking_date", "payment_date", "payment_method",
		}).AddRow(int64(5), int64(2), int64(1), "VIP", 2, "300.00", "Pending", "Unpaid", "abc", created, nil, nil))
	mock.ExpectCommit()

	var got models.Booking
	err := s.InTx(context.Background(), func(tx storage.Tx) error {
		var err error
		got, err = tx.BookingForUpdate(context.Background(), 5)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, got.BookingStatus)
	assert.Equal(t, models.PaymentUnpaid, got.PaymentStatus)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(300)))
	assert.Nil(t, got.PaymentDate)
	assert.True(t, got.Editable())
}

func TestDeleteBookingNotFound(t *testing.T) {
	t.Parallel()

	s, mock := newMockStorage(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM bookings WHERE booking_id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx storage.Tx) error {
		return tx.DeleteBooking(context.Background(), 5)
	})
	assert.ErrorIs(t, err, storage.ErrBookingNotFound)
}

func TestPublishWithoutOutbox(t *testing.T) {
	t.Parallel()

	s, mock := newMockStorage(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := s.InTx(context.Background(), func(tx storage.Tx) error {
		return tx.Publish(context.Background(), models.BookingEvent{Type: models.EventBookingCreated})
	})
	require.NoError(t, err)
}

func TestCreateUserDuplicate(t *testing.T) {
	t.Parallel()

	s, mock := newMockStorage(t)
	mock.ExpectQuery(`INSERT INTO customers`).
		WithArgs("ann@example.com", []byte("hash"), models.RoleCustomer).
		WillReturnError(&pq.Error{Code: pgUniqueViolation})

	_, err := s.CreateUser(context.Background(), models.User{
		Email:        "ann@example.com",
		PasswordHash: []byte("hash"),
		Role:         models.RoleCustomer,
	})
	assert.ErrorIs(t, err, storage.ErrUserExists)
}

func TestListEventsGroupsTickets(t *testing.T) {
	t.Parallel()

	s, mock := newMockStorage(t)
	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM events e JOIN venues v`).
		WillReturnRows(sqlmock.NewRows([]string{
			"event_id", "event_name", "venue_id", "event_start", "event_end",
			"description", "event_type", "organizer_id", "venue_name", "venue_location",
		}).
			AddRow(int64(1), "Concert", int64(1), start, start.Add(time.Hour), "", "Music", int64(3), "Hall", "Riga").
			AddRow(int64(2), "Play", int64(1), start.Add(2*time.Hour), start.Add(3*time.Hour), "", "Theatre", int64(3), "Hall", "Riga"))
	mock.ExpectQuery(`SELECT event_id, ticket_type, price, availability FROM tickets ORDER BY`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "ticket_type", "price", "availability"}).
			AddRow(int64(1), "General", "20.00", 100).
			AddRow(int64(1), "VIP", "150.00", 10))

	listings, err := s.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Len(t, listings[0].Tickets, 2)
	assert.Equal(t, "Hall", listings[0].VenueName)
	assert.NotNil(t, listings[1].Tickets)
	assert.Empty(t, listings[1].Tickets)
}
