// Package pg implements the storage interfaces on PostgreSQL.
//
// Public methods wrap the core logic in short-lived transactions; the core
// functions accept a Querier so the same logic runs against *sql.DB or
// *sql.Tx.
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	_ "github.com/lib/pq"
	"github.com/reachout-dev/reachout/internal/config"
	"github.com/reachout-dev/reachout/internal/logger"
)

const queryTimeout = 5 * time.Second

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

type Storage struct {
	db *sql.DB
}

func New(cfg config.Pg) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Host, "dbname", cfg.Dbname)
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	return &Storage{db}, nil
}

func Connect(cfg config.Pg) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) Ping() error {
	return s.db.Ping()
}

// withTx executes fn within a transaction. The deferred Rollback is a no-op
// once the transaction has been committed.
func (s *Storage) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}
