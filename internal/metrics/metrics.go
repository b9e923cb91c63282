package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketing_bookings_created_total",
			Help: "Bookings committed by the booking service",
		},
	)

	BookingsCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_bookings_cancelled_total",
			Help: "Bookings cancelled, by reason",
		},
		[]string{"reason"},
	)

	BookingRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_booking_rejections_total",
			Help: "Booking operations rejected, by reason",
		},
		[]string{"operation", "reason"},
	)

	PaymentsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketing_payments_recorded_total",
			Help: "Payments recorded against bookings",
		},
	)

	TicketsReserved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketing_inventory_reserved_units_total",
			Help: "Ticket units taken out of availability",
		},
	)

	TicketsReleased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketing_inventory_released_units_total",
			Help: "Ticket units returned to availability",
		},
	)

	InventoryRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketing_inventory_rejections_total",
			Help: "Reservations refused because availability was too low",
		},
	)

	TxDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketing_store_tx_duration_seconds",
			Help:    "Duration of store transactions",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"outcome"},
	)

	// Sales projections fed by booking events consumed from the broker.

	SalesTickets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_sales_tickets_total",
			Help: "Tickets per booking event type",
		},
		[]string{"type"},
	)

	SalesRevenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketing_sales_revenue_total",
			Help: "Revenue of paid bookings",
		},
	)

	SalesEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_sales_events_dropped_total",
			Help: "Booking events acked without being projected, by reason",
		},
		[]string{"reason"},
	)
)
