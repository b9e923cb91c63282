// Package memory is an in-process store. Transactions are serialized by a
// single mutex and applied to a copy of the data, which replaces the live
// data only on success.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ticketing/internal/models"
	"ticketing/internal/storage"
	"ticketing/internal/venue"
)

type ticketKey struct {
	eventID    int64
	ticketType string
}

type sequences struct {
	user, venue, event, booking, payment int64
}

type state struct {
	seq      sequences
	users    map[int64]models.User
	venues   map[int64]models.Venue
	events   map[int64]models.Event
	tickets  map[ticketKey]models.TicketType
	bookings map[int64]models.Booking
	payments map[int64]models.Payment
}

func newState() *state {
	return &state{
		users:    make(map[int64]models.User),
		venues:   make(map[int64]models.Venue),
		events:   make(map[int64]models.Event),
		tickets:  make(map[ticketKey]models.TicketType),
		bookings: make(map[int64]models.Booking),
		payments: make(map[int64]models.Payment),
	}
}

func (s *state) clone() *state {
	c := &state{
		seq:      s.seq,
		users:    make(map[int64]models.User, len(s.users)),
		venues:   make(map[int64]models.Venue, len(s.venues)),
		events:   make(map[int64]models.Event, len(s.events)),
		tickets:  make(map[ticketKey]models.TicketType, len(s.tickets)),
		bookings: make(map[int64]models.Booking, len(s.bookings)),
		payments: make(map[int64]models.Payment, len(s.payments)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.venues {
		c.venues[k] = v
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	for k, v := range s.tickets {
		c.tickets[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}

	return c
}

type Storage struct {
	mu        sync.Mutex
	data      *state
	published []models.BookingEvent
}

func New() *Storage {
	return &Storage{data: newState()}
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &Tx{st: s.data.clone()}
	if err := fn(tx); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.data = tx.st
	s.published = append(s.published, tx.pending...)

	return nil
}

// Published returns the booking events of committed transactions.
func (s *Storage) Published() []models.BookingEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.BookingEvent, len(s.published))
	copy(out, s.published)

	return out
}

type Tx struct {
	st      *state
	pending []models.BookingEvent
}

func (t *Tx) Event(_ context.Context, id int64) (models.Event, error) {
	e, ok := t.st.events[id]
	if !ok {
		return models.Event{}, storage.ErrEventNotFound
	}

	return e, nil
}

func (t *Tx) InsertEvent(_ context.Context, e models.Event) (models.Event, error) {
	if _, ok := t.st.venues[e.VenueID]; !ok {
		return models.Event{}, storage.ErrVenueNotFound
	}
	for _, other := range t.st.events {
		if other.VenueID == e.VenueID && venue.Overlaps(e.Start, e.End, other.Start, other.End) {
			return models.Event{}, storage.ErrVenueConflict
		}
	}

	t.st.seq.event++
	e.ID = t.st.seq.event
	t.st.events[e.ID] = e

	return e, nil
}

func (t *Tx) UpdateEvent(_ context.Context, e models.Event) (models.Event, error) {
	if _, ok := t.st.events[e.ID]; !ok {
		return models.Event{}, storage.ErrEventNotFound
	}
	if _, ok := t.st.venues[e.VenueID]; !ok {
		return models.Event{}, storage.ErrVenueNotFound
	}
	for _, other := range t.st.events {
		if other.ID != e.ID && other.VenueID == e.VenueID && venue.Overlaps(e.Start, e.End, other.Start, other.End) {
			return models.Event{}, storage.ErrVenueConflict
		}
	}

	t.st.events[e.ID] = e

	return e, nil
}

func (t *Tx) DeleteEvent(_ context.Context, id int64) error {
	if _, ok := t.st.events[id]; !ok {
		return storage.ErrEventNotFound
	}

	delete(t.st.events, id)
	for k := range t.st.tickets {
		if k.eventID == id {
			delete(t.st.tickets, k)
		}
	}
	for bid, b := range t.st.bookings {
		if b.EventID == id {
			t.deleteBooking(bid)
		}
	}

	return nil
}

func (t *Tx) LockVenue(_ context.Context, venueID int64) error {
	if _, ok := t.st.venues[venueID]; !ok {
		return storage.ErrVenueNotFound
	}

	return nil
}

func (t *Tx) OverlappingEvent(
	_ context.Context,
	venueID int64,
	start, end time.Time,
	excludeEventID int64,
) (*models.Event, error) {
	var found *models.Event
	for _, other := range t.st.events {
		if other.VenueID != venueID || other.ID == excludeEventID {
			continue
		}
		if !venue.Overlaps(start, end, other.Start, other.End) {
			continue
		}
		if found == nil || other.Start.Before(found.Start) {
			e := other
			found = &e
		}
	}

	return found, nil
}

func (t *Tx) TicketType(_ context.Context, eventID int64, ticketType string) (models.TicketType, error) {
	tt, ok := t.st.tickets[ticketKey{eventID, ticketType}]
	if !ok {
		return models.TicketType{}, storage.ErrTicketTypeNotFound
	}

	return tt, nil
}

func (t *Tx) InsertTicketType(_ context.Context, tt models.TicketType) error {
	if _, ok := t.st.events[tt.EventID]; !ok {
		return storage.ErrEventNotFound
	}
	key := ticketKey{tt.EventID, tt.Type}
	if _, ok := t.st.tickets[key]; ok {
		return storage.ErrTicketTypeExists
	}

	t.st.tickets[key] = tt

	return nil
}

func (t *Tx) DecrementAvailability(_ context.Context, eventID int64, ticketType string, quantity int) (bool, error) {
	key := ticketKey{eventID, ticketType}
	tt, ok := t.st.tickets[key]
	if !ok || tt.Availability < quantity {
		return false, nil
	}

	tt.Availability -= quantity
	t.st.tickets[key] = tt

	return true, nil
}

func (t *Tx) IncrementAvailability(_ context.Context, eventID int64, ticketType string, quantity int) (bool, error) {
	key := ticketKey{eventID, ticketType}
	tt, ok := t.st.tickets[key]
	if !ok {
		return false, nil
	}

	tt.Availability += quantity
	t.st.tickets[key] = tt

	return true, nil
}

func (t *Tx) InsertBooking(_ context.Context, b models.Booking) (models.Booking, error) {
	if _, ok := t.st.events[b.EventID]; !ok {
		return models.Booking{}, storage.ErrEventNotFound
	}

	t.st.seq.booking++
	b.ID = t.st.seq.booking
	t.st.bookings[b.ID] = b

	return b, nil
}

func (t *Tx) BookingForUpdate(_ context.Context, id int64) (models.Booking, error) {
	b, ok := t.st.bookings[id]
	if !ok {
		return models.Booking{}, storage.ErrBookingNotFound
	}

	return b, nil
}

func (t *Tx) UpdateBooking(_ context.Context, b models.Booking) (models.Booking, error) {
	if _, ok := t.st.bookings[b.ID]; !ok {
		return models.Booking{}, storage.ErrBookingNotFound
	}

	t.st.bookings[b.ID] = b

	return b, nil
}

func (t *Tx) DeleteBooking(_ context.Context, id int64) error {
	if _, ok := t.st.bookings[id]; !ok {
		return storage.ErrBookingNotFound
	}

	t.deleteBooking(id)

	return nil
}

func (t *Tx) deleteBooking(id int64) {
	delete(t.st.bookings, id)
	for pid, p := range t.st.payments {
		if p.BookingID == id {
			delete(t.st.payments, pid)
		}
	}
}

func (t *Tx) StaleBookings(_ context.Context, createdBefore time.Time, limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range t.st.bookings {
		if b.Editable() && b.CreatedAt.Before(createdBefore) {
			out = append(out, b)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (t *Tx) InsertPayment(_ context.Context, p models.Payment) (models.Payment, error) {
	if _, ok := t.st.bookings[p.BookingID]; !ok {
		return models.Payment{}, storage.ErrBookingNotFound
	}

	t.st.seq.payment++
	p.ID = t.st.seq.payment
	t.st.payments[p.ID] = p

	return p, nil
}

func (t *Tx) Publish(_ context.Context, ev models.BookingEvent) error {
	t.pending = append(t.pending, ev)

	return nil
}

// Read side.

func (s *Storage) CreateUser(_ context.Context, u models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.data.users {
		if strings.EqualFold(other.Email, u.Email) {
			return models.User{}, storage.ErrUserExists
		}
	}

	s.data.seq.user++
	u.ID = s.data.seq.user
	s.data.users[u.ID] = u

	return u, nil
}

func (s *Storage) UserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.data.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}

	return models.User{}, storage.ErrUserNotFound
}

func (s *Storage) CreateVenue(_ context.Context, v models.Venue) (models.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.seq.venue++
	v.ID = s.data.seq.venue
	s.data.venues[v.ID] = v

	return v, nil
}

func (s *Storage) ListVenues(_ context.Context) ([]models.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Venue, 0, len(s.data.venues))
	for _, v := range s.data.venues {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *Storage) listing(e models.Event) models.EventListing {
	v := s.data.venues[e.VenueID]
	listing := models.EventListing{
		Event:         e,
		VenueName:     v.Name,
		VenueLocation: v.Location,
		Tickets:       []models.TicketType{},
	}
	for k, tt := range s.data.tickets {
		if k.eventID == e.ID {
			listing.Tickets = append(listing.Tickets, tt)
		}
	}
	sort.Slice(listing.Tickets, func(i, j int) bool {
		return listing.Tickets[i].Type < listing.Tickets[j].Type
	})

	return listing
}

func (s *Storage) ListEvents(_ context.Context) ([]models.EventListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.EventListing, 0, len(s.data.events))
	for _, e := range s.data.events {
		out = append(out, s.listing(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })

	return out, nil
}

func (s *Storage) EventListing(_ context.Context, eventID int64) (models.EventListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data.events[eventID]
	if !ok {
		return models.EventListing{}, storage.ErrEventNotFound
	}

	return s.listing(e), nil
}

func (s *Storage) view(b models.Booking) models.BookingView {
	e := s.data.events[b.EventID]

	return models.BookingView{
		Booking:       b,
		EventName:     e.Name,
		EventStart:    e.Start,
		EventEnd:      e.End,
		VenueName:     s.data.venues[e.VenueID].Name,
		CustomerEmail: s.data.users[b.CustomerID].Email,
	}
}

func (s *Storage) bookingViews(keep func(models.Booking) bool) []models.BookingView {
	out := []models.BookingView{}
	for _, b := range s.data.bookings {
		if keep(b) {
			out = append(out, s.view(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (s *Storage) CustomerBookings(_ context.Context, customerID int64) ([]models.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookingViews(func(b models.Booking) bool {
		return b.CustomerID == customerID
	}), nil
}

func (s *Storage) OrganizerBookings(_ context.Context, organizerID int64) ([]models.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookingViews(func(b models.Booking) bool {
		return s.data.events[b.EventID].OrganizerID == organizerID
	}), nil
}

func (s *Storage) AllBookings(_ context.Context) ([]models.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookingViews(func(models.Booking) bool { return true }), nil
}

func (s *Storage) CustomerBooking(_ context.Context, bookingID, customerID int64) (models.BookingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.data.bookings[bookingID]
	if !ok || b.CustomerID != customerID {
		return models.BookingView{}, storage.ErrBookingNotFound
	}

	return s.view(b), nil
}

func (s *Storage) receipt(p models.Payment) models.Receipt {
	b := s.data.bookings[p.BookingID]
	e := s.data.events[b.EventID]

	return models.Receipt{
		Payment:       p,
		CustomerID:    b.CustomerID,
		Quantity:      b.Quantity,
		BookingStatus: b.BookingStatus,
		EventName:     e.Name,
		EventStart:    e.Start,
		EventEnd:      e.End,
		VenueName:     s.data.venues[e.VenueID].Name,
	}
}

func (s *Storage) Receipt(_ context.Context, paymentID int64) (models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.data.payments[paymentID]
	if !ok {
		return models.Receipt{}, storage.ErrPaymentNotFound
	}

	return s.receipt(p), nil
}

func (s *Storage) CustomerReceipts(_ context.Context, customerID int64) ([]models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Receipt{}
	for _, p := range s.data.payments {
		if s.data.bookings[p.BookingID].CustomerID == customerID {
			out = append(out, s.receipt(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })

	return out, nil
}
