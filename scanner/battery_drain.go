package scanner

import (
	"errors"
	"time"

	"hivebot/errs"
	"hivebot/model"
	"hivebot/utils/database"
)

// ProcessBatteryTick advances every battery-powered drone by one minute.
// Drones held in storage recharge; drones recently active on the guild drain.
// Idle drones keep their charge.
func (s *Sweeper) ProcessBatteryTick(now time.Time) {
	drones, err := database.ListDrones(s.DB)
	if err != nil {
		s.Log.Error().Err(err).Msg("failed to load drones for battery tick")
		return
	}

	for i := range drones {
		d := &drones[i]
		if !d.BatteryPowered {
			continue
		}
		if err := s.tickBattery(d, now); err != nil {
			s.Log.Error().Err(err).Str("drone", d.DroneID).Msg("failed to tick battery")
		}
	}
}

func (s *Sweeper) tickBattery(d *model.DroneRecord, now time.Time) error {
	bt, err := database.GetBatteryType(s.DB, d.BatteryTypeID)
	if err != nil {
		return err
	}

	minutes := d.BatteryMinutes

	_, storageErr := database.ActiveStorage(s.DB, d.DiscordID)
	switch {
	case storageErr == nil:
		minutes += rechargePerMinute(bt)
		if minutes > bt.CapacityMinutes {
			minutes = bt.CapacityMinutes
		}
	case !errors.Is(storageErr, errs.ErrNotFound):
		return storageErr
	case s.State.ActiveSince(d.DiscordID, now):
		minutes--
		if minutes < 0 {
			minutes = 0
		}
	}

	if minutes == d.BatteryMinutes {
		return nil
	}
	d.BatteryMinutes = minutes
	return database.UpdateDroneBattery(s.DB, d.DiscordID, minutes)
}

// rechargePerMinute converts a type's full-recharge window into a per-tick
// gain. A window longer than the capacity still gains one minute per tick.
func rechargePerMinute(bt *model.BatteryType) int {
	if bt.RechargeMinutes <= 0 {
		return bt.CapacityMinutes
	}
	gain := bt.CapacityMinutes / bt.RechargeMinutes
	if gain < 1 {
		gain = 1
	}
	return gain
}
