package hive

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"

	"hivebot/errs"
	"hivebot/model"
	"hivebot/utils/database"
)

var droneIDPattern = regexp.MustCompile(`\b(\d{4})\b`)

// RollDroneID picks the persona ID for a new drone. A 4-digit ID already
// present in the display name is honored when free; otherwise a random free
// ID is rolled. Reserved IDs are never assigned by the random path.
func RollDroneID(displayName string, used map[string]bool, reserved []string, rng *rand.Rand) string {
	reservedSet := make(map[string]bool, len(reserved)+1)
	reservedSet["0000"] = true
	for _, id := range reserved {
		reservedSet[id] = true
	}

	if m := droneIDPattern.FindStringSubmatch(displayName); m != nil {
		if id := m[1]; !used[id] && !reservedSet[id] {
			return id
		}
	}

	for {
		id := fmt.Sprintf("%04d", rng.Intn(10000))
		if !used[id] && !reservedSet[id] {
			return id
		}
	}
}

// AssignDrone creates the configuration record for a user, grants the drone
// role, and applies the hive nickname. temporaryMinutes > 0 schedules an
// automatic release of the whole assignment.
func (h *Hive) AssignDrone(userID, displayName string, temporaryMinutes int) (*model.DroneRecord, error) {
	if temporaryMinutes < 0 {
		return nil, errs.Validationf("temporary duration must not be negative")
	}

	var d *model.DroneRecord
	err := database.WithTxRetry(h.DB, func(tx *sqlx.Tx) error {
		if _, err := database.GetDrone(tx, userID); err == nil {
			return errs.Validationf("this user is already an active drone")
		} else if !errors.Is(err, errs.ErrNotFound) {
			return err
		}

		ids, err := database.UsedDroneIDs(tx)
		if err != nil {
			return err
		}
		used := make(map[string]bool, len(ids))
		for _, id := range ids {
			used[id] = true
		}

		rng := rand.New(rand.NewSource(h.Now().UnixNano()))
		d = &model.DroneRecord{
			DiscordID:        userID,
			DroneID:          RollDroneID(displayName, used, h.Cfg.Hive.ReservedDroneIDs, rng),
			BatteryTypeID:    2,
			BatteryMinutes:   480,
			CanSelfConfigure: true,
			AssociateName:    displayName,
		}
		if temporaryMinutes > 0 {
			until := h.Now().Add(time.Duration(temporaryMinutes) * time.Minute)
			d.TemporaryUntil = &until
		}

		bt, err := database.GetBatteryType(tx, d.BatteryTypeID)
		if err != nil {
			return err
		}
		d.BatteryMinutes = bt.CapacityMinutes

		return database.InsertDrone(tx, d)
	})
	if err != nil {
		return nil, err
	}

	if err := h.Session.GuildMemberRoleAdd(h.Cfg.GuildID, userID, h.Cfg.Hive.DroneRoleID); err != nil {
		h.Log.Error().Err(err).Str("drone", d.DroneID).Msg("failed to grant drone role")
	}
	if err := h.RefreshDisplay(d); err != nil {
		h.Log.Error().Err(err).Str("drone", d.DroneID).Msg("failed to apply drone nickname")
	}

	return d, nil
}

// UnassignDrone releases a persona: the record and its timers are removed,
// flag roles and the drone role revert, and the stored associate name comes
// back. Used for voluntary unassignment, emergency release, and
// temporary-assignment expiry.
func (h *Hive) UnassignDrone(actor Actor, userID string) error {
	var d *model.DroneRecord
	err := database.WithTxRetry(h.DB, func(tx *sqlx.Tx) error {
		var err error
		d, err = database.GetDrone(tx, userID)
		if err != nil {
			return err
		}
		if !actor.Privileged && actor.ID != d.DiscordID {
			return errs.ErrNotAuthorized
		}

		timers, err := database.TimersFor(tx, userID)
		if err != nil {
			return err
		}
		for _, t := range timers {
			if err := database.DeleteTimerByID(tx, t.ID); err != nil {
				return err
			}
		}

		return database.DeleteDrone(tx, userID)
	})
	if err != nil {
		return err
	}

	for _, f := range model.AllFlags {
		if !d.FlagValue(f) {
			continue
		}
		if roleID, ok := h.Cfg.Hive.FlagRoleID(f); ok {
			if err := h.Session.GuildMemberRoleRemove(h.Cfg.GuildID, userID, roleID); err != nil {
				h.Log.Error().Err(err).Str("flag", string(f)).Msg("failed to remove flag role on release")
			}
		}
	}
	if err := h.Session.GuildMemberRoleRemove(h.Cfg.GuildID, userID, h.Cfg.Hive.DroneRoleID); err != nil {
		h.Log.Error().Err(err).Str("drone", d.DroneID).Msg("failed to remove drone role on release")
	}
	if err := h.Session.GuildMemberNickname(h.Cfg.GuildID, userID, d.AssociateName); err != nil {
		h.Log.Error().Err(err).Str("drone", d.DroneID).Msg("failed to restore associate name")
	}

	return nil
}
