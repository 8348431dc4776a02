package hive

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"hivebot/errs"
	"hivebot/model"
	"hivebot/utils/database"
)

// MaxToggleMinutes bounds a timed toggle to one week.
const MaxToggleMinutes = 7 * 24 * 60

var flagNames = map[model.Flag]string{
	model.FlagOptimized:           "speech optimization",
	model.FlagGlitched:            "glitch",
	model.FlagIDPrepending:        "ID prepending",
	model.FlagIdentityEnforced:    "identity enforcement",
	model.FlagThirdPersonEnforced: "third-person enforcement",
	model.FlagBatteryPowered:      "battery power",
}

// ToggleResult describes the state after a toggle.
type ToggleResult struct {
	Drone   *model.DroneRecord
	Flag    model.Flag
	Enabled bool
	Minutes int
	Notice  string
}

// ToggleFlag flips one behaviour flag for a drone, optionally for a limited
// number of minutes.
//
// Authorization: the privileged actor, a trusted user, or the drone itself
// while it may still self-configure. Toggling off clears any timer for the
// pair and re-enables self-configuration once no flag remains under foreign
// control. Toggling on by another actor asserts foreign control; minutes > 0
// replaces the (drone, flag) timer. Persistence is all-or-nothing per drone;
// role and nickname updates follow the commit and never roll it back.
func (h *Hive) ToggleFlag(actor Actor, targetID string, f model.Flag, minutes int) (*ToggleResult, error) {
	if minutes < 0 || minutes > MaxToggleMinutes {
		return nil, errs.Validationf("duration must be between 0 and %d minutes", MaxToggleMinutes)
	}

	var res *ToggleResult
	err := database.WithTxRetry(h.DB, func(tx *sqlx.Tx) error {
		d, err := database.GetDrone(tx, targetID)
		if err != nil {
			return err
		}
		if !authorized(actor, d) {
			return errs.ErrNotAuthorized
		}

		name := flagNames[f]
		res = &ToggleResult{Drone: d, Flag: f, Minutes: minutes}

		if d.FlagValue(f) {
			d.SetFlag(f, false)
			d.ClearControlled(f)
			if err := database.DeleteTimer(tx, targetID, f); err != nil {
				return err
			}
			res.Enabled = false
			res.Notice = fmt.Sprintf("Drone #%s :: %s disabled.", d.DroneID, name)
		} else {
			d.SetFlag(f, true)
			if actor.ID != d.DiscordID {
				d.MarkControlled(f)
			}
			if minutes > 0 {
				expiry := h.Now().Add(time.Duration(minutes) * time.Minute)
				if _, err := database.ReplaceTimer(tx, targetID, f, expiry); err != nil {
					return err
				}
				res.Notice = fmt.Sprintf("Drone #%s :: %s enabled for %d minutes.", d.DroneID, name, minutes)
			} else {
				res.Notice = fmt.Sprintf("Drone #%s :: %s enabled.", d.DroneID, name)
			}
			res.Enabled = true
		}

		if err := database.UpdateDroneFlag(tx, targetID, f, res.Enabled); err != nil {
			return err
		}
		return database.UpdateDroneControl(tx, d)
	})
	if err != nil {
		return nil, err
	}

	h.applyFlagRole(res.Drone, f, res.Enabled)
	if err := h.RefreshDisplay(res.Drone); err != nil {
		h.Log.Error().Err(err).Str("drone", res.Drone.DroneID).Msg("failed to refresh display name")
	}
	h.notify(h.Cfg.Hive.StatusChannelID, res.Notice)

	return res, nil
}

// applyFlagRole grants or revokes the role configured for a flag. Platform
// failures are logged; the committed record stands.
func (h *Hive) applyFlagRole(d *model.DroneRecord, f model.Flag, enabled bool) {
	roleID, ok := h.Cfg.Hive.FlagRoleID(f)
	if !ok {
		return
	}

	var err error
	if enabled {
		err = h.Session.GuildMemberRoleAdd(h.Cfg.GuildID, d.DiscordID, roleID)
	} else {
		err = h.Session.GuildMemberRoleRemove(h.Cfg.GuildID, d.DiscordID, roleID)
	}
	if err != nil {
		h.Log.Error().Err(err).
			Str("drone", d.DroneID).
			Str("flag", string(f)).
			Bool("enabled", enabled).
			Msg("failed to update flag role")
	}
}
