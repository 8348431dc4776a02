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

// GetDrone fetches the configuration record for a user.
func GetDrone(e sqlx.Ext, discordID string) (*model.DroneRecord, error) {
	var d model.DroneRecord
	err := sqlx.Get(e, &d, "SELECT * FROM drones WHERE discord_id = ?", discordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drone %s: %w", discordID, err)
	}
	return &d, nil
}

// GetDroneByDroneID fetches a record by its 4-digit persona ID.
func GetDroneByDroneID(e sqlx.Ext, droneID string) (*model.DroneRecord, error) {
	var d model.DroneRecord
	err := sqlx.Get(e, &d, "SELECT * FROM drones WHERE drone_id = ?", droneID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drone #%s: %w", droneID, err)
	}
	return &d, nil
}

// ListDrones returns every active configuration record.
func ListDrones(e sqlx.Ext) ([]model.DroneRecord, error) {
	var drones []model.DroneRecord
	if err := sqlx.Select(e, &drones, "SELECT * FROM drones"); err != nil {
		return nil, fmt.Errorf("failed to list drones: %w", err)
	}
	return drones, nil
}

// UsedDroneIDs returns the persona IDs currently assigned.
func UsedDroneIDs(e sqlx.Ext) ([]string, error) {
	var ids []string
	if err := sqlx.Select(e, &ids, "SELECT drone_id FROM drones"); err != nil {
		return nil, fmt.Errorf("failed to list used drone IDs: %w", err)
	}
	return ids, nil
}

// InsertDrone creates a new configuration record.
func InsertDrone(e sqlx.Ext, d *model.DroneRecord) error {
	query := `INSERT INTO drones (
        discord_id, drone_id, optimized, glitched, id_prepending,
        identity_enforced, third_person_enforced, battery_powered,
        battery_minutes, battery_type_id, can_self_configure,
        trusted_users, controlled_flags, free_storage, temporary_until, associate_name
    ) VALUES (
        :discord_id, :drone_id, :optimized, :glitched, :id_prepending,
        :identity_enforced, :third_person_enforced, :battery_powered,
        :battery_minutes, :battery_type_id, :can_self_configure,
        :trusted_users, :controlled_flags, :free_storage, :temporary_until, :associate_name
    )`
	if _, err := sqlx.NamedExec(e, query, d); err != nil {
		return fmt.Errorf("failed to insert drone %s: %w", d.DiscordID, err)
	}
	return nil
}

// DeleteDrone removes a configuration record on persona release.
func DeleteDrone(e sqlx.Ext, discordID string) error {
	if _, err := e.Exec("DELETE FROM drones WHERE discord_id = ?", discordID); err != nil {
		return fmt.Errorf("failed to delete drone %s: %w", discordID, err)
	}
	return nil
}

// UpdateDroneFlag persists one flag value. The flag maps to exactly one
// statement; no identifier is ever concatenated at runtime.
func UpdateDroneFlag(e sqlx.Ext, discordID string, f model.Flag, v bool) error {
	var query string
	switch f {
	case model.FlagOptimized:
		query = "UPDATE drones SET optimized = ? WHERE discord_id = ?"
	case model.FlagGlitched:
		query = "UPDATE drones SET glitched = ? WHERE discord_id = ?"
	case model.FlagIDPrepending:
		query = "UPDATE drones SET id_prepending = ? WHERE discord_id = ?"
	case model.FlagIdentityEnforced:
		query = "UPDATE drones SET identity_enforced = ? WHERE discord_id = ?"
	case model.FlagThirdPersonEnforced:
		query = "UPDATE drones SET third_person_enforced = ? WHERE discord_id = ?"
	case model.FlagBatteryPowered:
		query = "UPDATE drones SET battery_powered = ? WHERE discord_id = ?"
	default:
		return fmt.Errorf("unknown drone flag %q", f)
	}

	if _, err := e.Exec(query, v, discordID); err != nil {
		return fmt.Errorf("failed to update flag %s for drone %s: %w", f, discordID, err)
	}
	return nil
}

// UpdateDroneControl persists the self-configuration state together with the
// foreign-controlled flag set it is derived from.
func UpdateDroneControl(e sqlx.Ext, d *model.DroneRecord) error {
	query := "UPDATE drones SET can_self_configure = ?, controlled_flags = ? WHERE discord_id = ?"
	if _, err := e.Exec(query, d.CanSelfConfigure, d.ControlledFlags, d.DiscordID); err != nil {
		return fmt.Errorf("failed to update control state for drone %s: %w", d.DiscordID, err)
	}
	return nil
}

// UpdateDroneBattery persists the battery charge counter.
func UpdateDroneBattery(e sqlx.Ext, discordID string, minutes int) error {
	if _, err := e.Exec("UPDATE drones SET battery_minutes = ? WHERE discord_id = ?", minutes, discordID); err != nil {
		return fmt.Errorf("failed to update battery for drone %s: %w", discordID, err)
	}
	return nil
}

// UpdateDroneTrust persists the trusted-user set.
func UpdateDroneTrust(e sqlx.Ext, discordID, trusted string) error {
	if _, err := e.Exec("UPDATE drones SET trusted_users = ? WHERE discord_id = ?", trusted, discordID); err != nil {
		return fmt.Errorf("failed to update trust for drone %s: %w", discordID, err)
	}
	return nil
}

// UpdateDroneFreeStorage persists the free-storage consent bit.
func UpdateDroneFreeStorage(e sqlx.Ext, discordID string, free bool) error {
	if _, err := e.Exec("UPDATE drones SET free_storage = ? WHERE discord_id = ?", free, discordID); err != nil {
		return fmt.Errorf("failed to update free storage for drone %s: %w", discordID, err)
	}
	return nil
}

// TemporaryDrones returns records whose temporary assignment elapsed.
func TemporaryDrones(e sqlx.Ext, now time.Time) ([]model.DroneRecord, error) {
	var drones []model.DroneRecord
	query := "SELECT * FROM drones WHERE temporary_until IS NOT NULL AND temporary_until <= ?"
	if err := sqlx.Select(e, &drones, query, now); err != nil {
		return nil, fmt.Errorf("failed to list expired temporary drones: %w", err)
	}
	return drones, nil
}
