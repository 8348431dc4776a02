package hive

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"hivebot/errs"
	"hivebot/utils/database"
)

// SetTrust adds or removes a user from a drone's trusted set. Only the drone
// itself and the privileged actor may change who is trusted.
func (h *Hive) SetTrust(actor Actor, targetID, userID string, trusted bool) error {
	if userID == targetID {
		return errs.Validationf("a drone does not need to trust itself")
	}

	return database.WithTxRetry(h.DB, func(tx *sqlx.Tx) error {
		d, err := database.GetDrone(tx, targetID)
		if err != nil {
			return err
		}
		if !actor.Privileged && actor.ID != d.DiscordID {
			return errs.ErrNotAuthorized
		}

		var changed bool
		if trusted {
			changed = d.AddTrust(userID)
		} else {
			changed = d.RemoveTrust(userID)
		}
		if !changed {
			if trusted {
				return errs.Validationf("that user is already trusted")
			}
			return errs.Validationf("that user is not in the trusted list")
		}

		return database.UpdateDroneTrust(tx, targetID, d.TrustedUsers)
	})
}

// SetFreeStorage flips whether anyone may place this drone into storage.
func (h *Hive) SetFreeStorage(actor Actor, targetID string, free bool) error {
	return database.WithTxRetry(h.DB, func(tx *sqlx.Tx) error {
		d, err := database.GetDrone(tx, targetID)
		if err != nil {
			return err
		}
		if !actor.Privileged && actor.ID != d.DiscordID {
			return errs.ErrNotAuthorized
		}
		return database.UpdateDroneFreeStorage(tx, targetID, free)
	})
}

// DroneSummary renders the configuration of one drone for status replies.
func (h *Hive) DroneSummary(targetID string) (string, error) {
	d, err := database.GetDrone(h.DB, targetID)
	if err != nil {
		return "", err
	}
	bt, err := database.GetBatteryType(h.DB, d.BatteryTypeID)
	if err != nil {
		return "", err
	}

	state := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}

	return fmt.Sprintf(
		"Drone #%s\nSpeech optimization: %s\nGlitch: %s\nID prepending: %s\nIdentity enforcement: %s\nThird-person enforcement: %s\nBattery power: %s\n%s",
		d.DroneID,
		state(d.Optimized), state(d.Glitched), state(d.IDPrepending),
		state(d.IdentityEnforced), state(d.ThirdPersonEnforced), state(d.BatteryPowered),
		BatteryReport(d, bt),
	), nil
}
