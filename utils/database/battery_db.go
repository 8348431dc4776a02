package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hivebot/errs"
	"hivebot/model"
)

// GetBatteryType fetches a battery type by ID.
func GetBatteryType(e sqlx.Ext, id int64) (*model.BatteryType, error) {
	var bt model.BatteryType
	err := sqlx.Get(e, &bt, "SELECT * FROM battery_types WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get battery type %d: %w", id, err)
	}
	return &bt, nil
}

// ListBatteryTypes returns all configured battery types.
func ListBatteryTypes(e sqlx.Ext) ([]model.BatteryType, error) {
	var types []model.BatteryType
	if err := sqlx.Select(e, &types, "SELECT * FROM battery_types ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to list battery types: %w", err)
	}
	return types, nil
}
