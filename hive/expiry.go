package hive

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hivebot/errs"
	"hivebot/model"
	"hivebot/utils/database"
)

// ExpireTimer reverts the flag a due timer guards and removes the timer row.
// A timer whose drone no longer exists is simply dropped. The sweep and a
// manual toggle may race; whichever commits first wins and the loser sees a
// missing row, which is fine.
func (h *Hive) ExpireTimer(t model.Timer) error {
	var d *model.DroneRecord
	err := database.WithTxRetry(h.DB, func(tx *sqlx.Tx) error {
		var err error
		d, err = database.GetDrone(tx, t.DiscordID)
		if errors.Is(err, errs.ErrNotFound) {
			d = nil
			return database.DeleteTimerByID(tx, t.ID)
		}
		if err != nil {
			return err
		}

		d.SetFlag(t.Flag, false)
		d.ClearControlled(t.Flag)

		if err := database.UpdateDroneFlag(tx, t.DiscordID, t.Flag, false); err != nil {
			return err
		}
		if err := database.UpdateDroneControl(tx, d); err != nil {
			return err
		}
		return database.DeleteTimerByID(tx, t.ID)
	})
	if err != nil {
		return err
	}
	if d == nil {
		return nil
	}

	h.applyFlagRole(d, t.Flag, false)
	if err := h.RefreshDisplay(d); err != nil {
		h.Log.Error().Err(err).Str("drone", d.DroneID).Msg("failed to refresh display name after expiry")
	}
	h.notify(h.Cfg.Hive.StatusChannelID,
		fmt.Sprintf("Drone #%s :: %s elapsed.", d.DroneID, flagNames[t.Flag]))

	return nil
}
