package hive

import (
	"fmt"

	"hivebot/errs"
	"hivebot/model"
)

// DisplayName computes the nickname shown for a drone. The hexagon fills in
// whenever any behaviour flag is enforced.
func DisplayName(d *model.DroneRecord) string {
	if d.AnyFlagSet() {
		return fmt.Sprintf("⬢-Drone #%s", d.DroneID)
	}
	return fmt.Sprintf("⬡-Drone #%s", d.DroneID)
}

// RefreshDisplay recomputes the drone's nickname and writes it only when it
// differs from the current one.
func (h *Hive) RefreshDisplay(d *model.DroneRecord) error {
	want := DisplayName(d)

	member, err := h.Session.GuildMember(h.Cfg.GuildID, d.DiscordID)
	if err != nil {
		return errs.Platform("GuildMember", err)
	}
	if member.Nick == want {
		return nil
	}

	if err := h.Session.GuildMemberNickname(h.Cfg.GuildID, d.DiscordID, want); err != nil {
		return errs.Platform("GuildMemberNickname", err)
	}
	return nil
}
