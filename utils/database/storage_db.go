package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"hivebot/errs"
	"hivebot/model"
)

// ActiveStorage returns the active storage record for a user, or
// errs.ErrNotFound when the user is not in storage.
func ActiveStorage(e sqlx.Ext, targetID string) (*model.StorageRecord, error) {
	var r model.StorageRecord
	err := sqlx.Get(e, &r, "SELECT * FROM storage WHERE target_id = ?", targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get storage record for %s: %w", targetID, err)
	}
	return &r, nil
}

// InsertStorage creates a storage record. The UNIQUE constraint on target_id
// enforces at most one active record per user.
func InsertStorage(e sqlx.Ext, r *model.StorageRecord) error {
	query := `INSERT INTO storage (initiator_id, target_id, purpose, roles, release_at)
              VALUES (:initiator_id, :target_id, :purpose, :roles, :release_at)`
	res, err := sqlx.NamedExec(e, query, r)
	if err != nil {
		return fmt.Errorf("failed to insert storage record for %s: %w", r.TargetID, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		r.ID = id
	}
	return nil
}

// ListStorage returns every active storage record.
func ListStorage(e sqlx.Ext) ([]model.StorageRecord, error) {
	var records []model.StorageRecord
	if err := sqlx.Select(e, &records, "SELECT * FROM storage"); err != nil {
		return nil, fmt.Errorf("failed to list storage records: %w", err)
	}
	return records, nil
}

// DueStorage returns every record whose release time has passed.
func DueStorage(e sqlx.Ext, now time.Time) ([]model.StorageRecord, error) {
	var records []model.StorageRecord
	query := "SELECT * FROM storage WHERE release_at <= ?"
	if err := sqlx.Select(e, &records, query, now); err != nil {
		return nil, fmt.Errorf("failed to get due storage records: %w", err)
	}
	return records, nil
}

// DeleteStorage removes a storage record by ID. Missing rows are fine; a
// manual release racing the sweep resolves to whichever lands last.
func DeleteStorage(e sqlx.Ext, id int64) error {
	if _, err := e.Exec("DELETE FROM storage WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete storage record %d: %w", id, err)
	}
	return nil
}
