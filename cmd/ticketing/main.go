package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"ticketing/internal/config"
	"ticketing/internal/http-server/handlers/auth/login"
	"ticketing/internal/http-server/handlers/auth/register"
	"ticketing/internal/http-server/handlers/booking/bookingPDF"
	"ticketing/internal/http-server/handlers/booking/cancelBooking"
	"ticketing/internal/http-server/handlers/booking/createBooking"
	"ticketing/internal/http-server/handlers/booking/editBooking"
	"ticketing/internal/http-server/handlers/booking/listBookings"
	"ticketing/internal/http-server/handlers/event/createEvent"
	"ticketing/internal/http-server/handlers/event/deleteEvent"
	"ticketing/internal/http-server/handlers/event/editEvent"
	"ticketing/internal/http-server/handlers/event/getAllEvents"
	"ticketing/internal/http-server/handlers/event/getEventInfo"
	"ticketing/internal/http-server/handlers/payment/pay"
	"ticketing/internal/http-server/handlers/payment/receipt"
	"ticketing/internal/http-server/handlers/payment/receipts"
	"ticketing/internal/http-server/handlers/venue/createVenue"
	"ticketing/internal/http-server/handlers/venue/getAllVenues"
	"ticketing/internal/http-server/middleware/mwauth"
	"ticketing/internal/http-server/middleware/mwlogger"
	"ticketing/internal/lib/logger/handlers/slogpretty"
	"ticketing/internal/lib/logger/sl"
	"ticketing/internal/lib/pdf"
	"ticketing/internal/lib/tracing"
	"ticketing/internal/messaging"
	"ticketing/internal/models"
	"ticketing/internal/pricing"
	"ticketing/internal/services/auth"
	"ticketing/internal/services/booking"
	"ticketing/internal/services/event"
	"ticketing/internal/services/payment"
	"ticketing/internal/storage/memory"
	"ticketing/internal/storage/postgres"
	"ticketing/internal/sweeper"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const (
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

const sweepLockKey = "ticketing:sweeper:lock"

type store interface {
	booking.Store
	payment.Store
	event.Store
	auth.UserStore
	Close() error
}

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting ticketing", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	tp, err := tracing.Configure(cfg.Tracing)
	if err != nil {
		log.Error("failed to init tracing", sl.Err(err))
		os.Exit(1)
	}

	wmLogger := messaging.NewSlogAdapter(log.With(slog.String("component", "watermill")))

	storage, pipeline, err := setupStorage(ctx, cfg, log, wmLogger)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	engine, err := setupPricing(cfg.Pricing)
	if err != nil {
		log.Error("failed to init pricing", sl.Err(err))
		os.Exit(1)
	}

	authService := auth.New(log, storage, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	bookingService := booking.New(log, storage, engine)
	paymentService := payment.New(log, storage)
	eventService := event.New(log, storage)

	var sweeperOpts []sweeper.Option
	if cfg.Redis.Addr != "" {
		sweeperOpts = append(sweeperOpts, sweeper.WithLocker(
			sweeper.NewRedisLock(messaging.NewRedisClient(cfg.Redis), sweepLockKey, cfg.Booking.SweepInterval),
		))
	}
	expiry := sweeper.New(log, bookingService, cfg.Booking, sweeperOpts...)

	renderer := pdf.NewRenderer("Ticketing")

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	if cfg.Metrics.Enabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", register.New(log, authService))
		r.Post("/auth/login", login.New(log, authService))

		r.Get("/events/getAll", getAllEvents.New(log, eventService))
		r.Get("/events/{event_id}", getEventInfo.New(log, eventService))
		r.Get("/venues", getAllVenues.New(log, eventService))

		r.Group(func(r chi.Router) {
			r.Use(mwauth.VerifyToken(log, cfg.Auth.JWTSecret))

			customer := mwauth.RequireRoles(models.RoleCustomer)
			organizer := mwauth.RequireRoles(models.RoleOrganizer)
			owner := mwauth.RequireRoles(models.RoleOrganizer, models.RoleAdmin)
			admin := mwauth.RequireRoles(models.RoleAdmin)

			r.With(organizer).Post("/events/createEvent", createEvent.New(log, eventService))
			r.With(owner).Post("/events/editEvent/{event_id}", editEvent.New(log, eventService))
			r.With(owner).Delete("/events/deleteEvent/{event_id}", deleteEvent.New(log, eventService))

			r.With(admin).Post("/venues", createVenue.New(log, eventService))

			r.With(customer).Post("/bookings/create", createBooking.New(log, bookingService))
			r.With(customer).Post("/bookings/edit/{booking_id}", editBooking.New(log, bookingService))
			r.With(mwauth.RequireRoles(models.RoleCustomer, models.RoleAdmin)).
				Delete("/bookings/cancel/{booking_id}", cancelBooking.New(log, bookingService))
			r.With(customer).Get("/bookings/me/allBookings", listBookings.New(log, bookingService, listBookings.Mine))
			r.With(organizer).Get("/bookings/organizer/allBookings", listBookings.New(log, bookingService, listBookings.Organizer))
			r.With(admin).Get("/bookings/admin/allBookings", listBookings.New(log, bookingService, listBookings.All))
			r.With(customer).Get("/bookings/me/{booking_id}/pdf", bookingPDF.New(log, bookingService, renderer))

			r.With(customer).Post("/pay/{booking_id}", pay.New(log, paymentService))
			r.Get("/pay/receipt/{payment_id}", receipt.New(log, paymentService, renderer))
			r.With(customer).Get("/pay/receipts", receipts.New(log, paymentService))
			r.With(admin).Get("/pay/receipts/{customer_id}", receipts.New(log, paymentService))
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      otelhttp.NewHandler(router, "ticketing"),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info("application stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return expiry.Run(gctx)
	})

	if pipeline != nil {
		g.Go(func() error {
			return pipeline.Run(gctx)
		})
	}

	if err = g.Wait(); err != nil {
		log.Error("application stopped with error", sl.Err(err))
	}

	log.Info("application stopped")

	if err = storage.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = tracing.Shutdown(shutdownCtx, tp); err != nil {
		log.Error("failed to flush traces", sl.Err(err))
	}
}

// setupStorage opens the configured store. With postgres and messaging enabled
// it also builds the pipeline that ships outbox events to Redis Streams.
func setupStorage(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	wmLogger watermill.LoggerAdapter,
) (store, *messaging.Pipeline, error) {
	switch cfg.Database.Driver {
	case driverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil, nil
	case driverPostgres:
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Database.Driver)
	}

	pg, err := postgres.InitDB(&cfg.Database, storageOptions(cfg.Messaging, wmLogger)...)
	if err != nil {
		return nil, nil, err
	}

	if err = pg.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, err
	}

	if !cfg.Messaging.Enabled {
		return pg, nil, nil
	}

	pipeline, err := setupMessaging(cfg, pg, log, wmLogger)
	if err != nil {
		_ = pg.Close()
		return nil, nil, err
	}

	return pg, pipeline, nil
}

// storageOptions always records booking events in the outbox table. With
// messaging disabled nothing forwards them yet; the forwarder picks them up
// from its stored offset once it is enabled.
func storageOptions(cfg config.Messaging, wmLogger watermill.LoggerAdapter) []postgres.Option {
	return []postgres.Option{
		postgres.WithOutbox(cfg.OutboxTopic, cfg.EventsTopic, wmLogger),
	}
}

func setupMessaging(
	cfg *config.Config,
	pg *postgres.Storage,
	log *slog.Logger,
	wmLogger watermill.LoggerAdapter,
) (*messaging.Pipeline, error) {
	rdb := messaging.NewRedisClient(cfg.Redis)

	outboxSub, err := messaging.NewOutboxSubscriber(pg.DB, cfg.Messaging.OutboxTopic, wmLogger)
	if err != nil {
		return nil, err
	}

	redisPub, err := messaging.NewRedisPublisher(rdb, wmLogger)
	if err != nil {
		return nil, err
	}

	fwd, err := messaging.NewForwarder(outboxSub, redisPub, cfg.Messaging.OutboxTopic, wmLogger)
	if err != nil {
		return nil, err
	}

	redisSub, err := messaging.NewRedisSubscriber(rdb, cfg.Messaging.ConsumerGroup, wmLogger)
	if err != nil {
		return nil, err
	}

	router, err := messaging.NewRouter(wmLogger, redisSub, cfg.Messaging.EventsTopic, messaging.NewSalesProjector(log))
	if err != nil {
		return nil, err
	}

	return &messaging.Pipeline{Forwarder: fwd, Router: router}, nil
}

func setupPricing(cfg config.Pricing) (*pricing.Engine, error) {
	var opts []pricing.Option

	if len(cfg.AdvanceTiers) > 0 {
		tiers := make([]pricing.Tier, 0, len(cfg.AdvanceTiers))
		for _, t := range cfg.AdvanceTiers {
			tiers = append(tiers, pricing.Tier{
				DaysBefore: t.DaysBefore,
				Factor:     decimal.NewFromFloat(t.Factor),
			})
		}
		opts = append(opts, pricing.WithDateAdjuster(pricing.NewAdvanceTiers(tiers...)))
	}

	return pricing.New(pricing.Config{
		GroupThreshold: cfg.GroupThreshold,
		GroupFactor:    decimal.NewFromFloat(cfg.GroupFactor),
	}, opts...)
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
