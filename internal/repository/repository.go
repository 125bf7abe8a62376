package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrTokenNotPending    = errors.New("token is not pending")
	ErrNotFound           = errors.New("record not found")

	ErrConcurrentModification = errors.New("concurrent modification detected")
)

type Repository struct {
	db  *sqlx.DB
	now func() time.Time
}

func New(dsn string) (*Repository, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return NewWithDB(db), nil
}

// NewWithDB wraps an already opened connection. Queries are written with '?'
// placeholders and rebound for the driver, so any sqlx driver works.
func NewWithDB(db *sqlx.DB) *Repository {
	return &Repository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// SetClock overrides the timestamp source used for written rows
func (r *Repository) SetClock(now func() time.Time) {
	r.now = now
}

func (r *Repository) q(query string) string {
	return r.db.Rebind(query)
}

// inTx runs fn inside a transaction, rolling back on any error
func (r *Repository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func notFoundAs(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}
