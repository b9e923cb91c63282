package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ticketing/internal/config"
	"ticketing/internal/metrics"
	"ticketing/internal/storage"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
)

type Storage struct {
	DB *sqlx.DB

	txTimeout time.Duration
	outbox    *outbox
}

type Option func(*Storage)

// WithOutbox makes Tx.Publish write booking events into the outbox table
// of the transaction. eventsTopic is the topic the forwarder republishes to.
func WithOutbox(forwarderTopic, eventsTopic string, logger watermill.LoggerAdapter) Option {
	return func(s *Storage) {
		s.outbox = &outbox{
			forwarderTopic: forwarderTopic,
			eventsTopic:    eventsTopic,
			logger:         logger,
		}
	}
}

func InitDB(dbCfg *config.Database, opts ...Option) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if dbCfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dbCfg.MaxOpenConns)
	}

	return New(db, dbCfg.TxTimeout, opts...), nil
}

func New(db *sqlx.DB, txTimeout time.Duration, opts ...Option) *Storage {
	s := &Storage{DB: db, txTimeout: txTimeout}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

// InTx runs fn in a read committed transaction. Row locks and the
// conditional availability update carry the invariants, so a stronger
// isolation level is not needed.
func (s *Storage) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	const op = "storage.postgres.InTx"

	if s.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	start := time.Now()
	outcome := "rollback"
	defer func() {
		metrics.TxDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	tx, err := s.DB.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if err = fn(&Tx{tx: tx, outbox: s.outbox}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	outcome = "commit"

	return nil
}

func pgCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}
