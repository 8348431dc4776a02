package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"

	"hivebot/errs"
)

// WithTx runs fn inside a transaction and commits or rolls back atomically.
// Every top-level operation (a command invocation, a pipeline run, a sweep
// pass) opens exactly one of these.
func WithTx(db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithSavepoint runs fn inside a savepoint so an inner failure can be undone
// without aborting the outer transaction. The name must be a fixed
// identifier, never user input.
func WithSavepoint(tx *sqlx.Tx, name string, fn func() error) error {
	if _, err := tx.Exec("SAVEPOINT " + name); err != nil {
		return fmt.Errorf("failed to create savepoint %s: %w", name, err)
	}

	if err := fn(); err != nil {
		tx.Exec("ROLLBACK TO SAVEPOINT " + name)
		tx.Exec("RELEASE SAVEPOINT " + name)
		return err
	}

	if _, err := tx.Exec("RELEASE SAVEPOINT " + name); err != nil {
		return fmt.Errorf("failed to release savepoint %s: %w", name, err)
	}
	return nil
}

const busyRetries = 4

// WithTxRetry is WithTx plus a bounded backoff retry on store-busy
// conditions. Business failures are never retried, only reported.
func WithTxRetry(db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	op := func() error {
		err := WithTx(db, fn)
		if err == nil {
			return nil
		}
		if isBusy(err) {
			return &errs.ContentionError{Underlying: err}
		}
		return backoff.Permanent(err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond

	return backoff.Retry(op, backoff.WithMaxRetries(bo, busyRetries))
}

func isBusy(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
	}
	return strings.Contains(err.Error(), "database is locked")
}
