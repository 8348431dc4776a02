package hive

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"hivebot/errs"
	"hivebot/model"
	"hivebot/utils/database"
)

// DrainMinutes computes the remaining charge after draining pct percent of
// the battery type's capacity, floored at zero.
func DrainMinutes(current int, bt *model.BatteryType, pct int) int {
	drained := current - bt.CapacityMinutes*pct/100
	if drained < 0 {
		return 0
	}
	return drained
}

// DrainBatteryPercent manually drains a percentage of a drone's battery
// capacity.
func (h *Hive) DrainBatteryPercent(actor Actor, targetID string, pct int) (int, error) {
	if pct <= 0 || pct > 100 {
		return 0, errs.Validationf("drain percentage must be between 1 and 100")
	}

	var remaining int
	err := database.WithTxRetry(h.DB, func(tx *sqlx.Tx) error {
		d, err := database.GetDrone(tx, targetID)
		if err != nil {
			return err
		}
		if !authorized(actor, d) {
			return errs.ErrNotAuthorized
		}
		if !d.BatteryPowered {
			return errs.Validationf("drone #%s is not battery powered", d.DroneID)
		}

		bt, err := database.GetBatteryType(tx, d.BatteryTypeID)
		if err != nil {
			return err
		}

		remaining = DrainMinutes(d.BatteryMinutes, bt, pct)
		return database.UpdateDroneBattery(tx, targetID, remaining)
	})
	if err != nil {
		return 0, err
	}

	h.notify(h.Cfg.Hive.StatusChannelID,
		fmt.Sprintf("Battery drained by %d%% :: %d minutes remaining.", pct, remaining))
	return remaining, nil
}

// BatteryReport describes a drone's charge for the status surfaces.
func BatteryReport(d *model.DroneRecord, bt *model.BatteryType) string {
	if !d.BatteryPowered {
		return fmt.Sprintf("Drone #%s :: external power.", d.DroneID)
	}
	pct := 0
	if bt.CapacityMinutes > 0 {
		pct = d.BatteryMinutes * 100 / bt.CapacityMinutes
	}
	return fmt.Sprintf("Drone #%s :: battery at %d%% (%d of %d minutes).",
		d.DroneID, pct, d.BatteryMinutes, bt.CapacityMinutes)
}
