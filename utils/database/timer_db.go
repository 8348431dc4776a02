package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hivebot/model"
)

// ReplaceTimer creates the timer for (drone, flag), clearing any previous one
// first so at most one live timer exists per pair.
func ReplaceTimer(e sqlx.Ext, discordID string, f model.Flag, expiresAt time.Time) (*model.Timer, error) {
	if err := DeleteTimer(e, discordID, f); err != nil {
		return nil, err
	}

	t := &model.Timer{
		ID:        uuid.NewString(),
		DiscordID: discordID,
		Flag:      f,
		ExpiresAt: expiresAt,
	}
	query := "INSERT INTO timers (id, discord_id, flag, expires_at) VALUES (?, ?, ?, ?)"
	if _, err := e.Exec(query, t.ID, t.DiscordID, string(t.Flag), t.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to insert timer for drone %s flag %s: %w", discordID, f, err)
	}
	return t, nil
}

// DeleteTimer removes the timer for (drone, flag). Deleting a timer that no
// longer exists is not an error; a sweep racing a manual toggle treats the
// missing row as already handled.
func DeleteTimer(e sqlx.Ext, discordID string, f model.Flag) error {
	query := "DELETE FROM timers WHERE discord_id = ? AND flag = ?"
	if _, err := e.Exec(query, discordID, string(f)); err != nil {
		return fmt.Errorf("failed to delete timer for drone %s flag %s: %w", discordID, f, err)
	}
	return nil
}

// DeleteTimerByID removes one timer row by primary key, if it still exists.
func DeleteTimerByID(e sqlx.Ext, id string) error {
	if _, err := e.Exec("DELETE FROM timers WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete timer %s: %w", id, err)
	}
	return nil
}

// DueTimers returns every timer whose expiry has passed.
func DueTimers(e sqlx.Ext, now time.Time) ([]model.Timer, error) {
	var timers []model.Timer
	query := "SELECT * FROM timers WHERE expires_at <= ?"
	if err := sqlx.Select(e, &timers, query, now); err != nil {
		return nil, fmt.Errorf("failed to get due timers: %w", err)
	}
	return timers, nil
}

// TimersFor returns the live timers for one drone.
func TimersFor(e sqlx.Ext, discordID string) ([]model.Timer, error) {
	var timers []model.Timer
	query := "SELECT * FROM timers WHERE discord_id = ?"
	if err := sqlx.Select(e, &timers, query, discordID); err != nil {
		return nil, fmt.Errorf("failed to get timers for drone %s: %w", discordID, err)
	}
	return timers, nil
}
