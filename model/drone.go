package model

import (
	"strings"
	"time"
)

// Flag identifies one independently toggleable drone behaviour. The set is
// fixed; every persistence write goes through a switch over these values so
// no column name is ever built at runtime.
type Flag string

const (
	FlagOptimized           Flag = "optimized"
	FlagGlitched            Flag = "glitched"
	FlagIDPrepending        Flag = "id_prepending"
	FlagIdentityEnforced    Flag = "identity_enforced"
	FlagThirdPersonEnforced Flag = "third_person_enforced"
	FlagBatteryPowered      Flag = "battery_powered"
)

// AllFlags lists every toggleable flag in display order.
var AllFlags = []Flag{
	FlagOptimized,
	FlagGlitched,
	FlagIDPrepending,
	FlagIdentityEnforced,
	FlagThirdPersonEnforced,
	FlagBatteryPowered,
}

// ParseFlag maps a command option value to a Flag.
func ParseFlag(s string) (Flag, bool) {
	for _, f := range AllFlags {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// DroneRecord is the persisted configuration for one user with an active
// drone persona. Table: drones.
type DroneRecord struct {
	DiscordID           string     `db:"discord_id"`
	DroneID             string     `db:"drone_id"` // assigned 4-digit persona ID
	Optimized           bool       `db:"optimized"`
	Glitched            bool       `db:"glitched"`
	IDPrepending        bool       `db:"id_prepending"`
	IdentityEnforced    bool       `db:"identity_enforced"`
	ThirdPersonEnforced bool       `db:"third_person_enforced"`
	BatteryPowered      bool       `db:"battery_powered"`
	BatteryMinutes      int        `db:"battery_minutes"`
	BatteryTypeID       int64      `db:"battery_type_id"`
	CanSelfConfigure    bool       `db:"can_self_configure"`
	TrustedUsers        string     `db:"trusted_users"`    // "|"-separated discord IDs
	ControlledFlags     string     `db:"controlled_flags"` // "|"-separated Flag values under foreign control
	FreeStorage         bool       `db:"free_storage"`
	TemporaryUntil      *time.Time `db:"temporary_until"`
	AssociateName       string     `db:"associate_name"` // display name held before assignment
}

// FlagValue reports the current value of the given flag.
func (d *DroneRecord) FlagValue(f Flag) bool {
	switch f {
	case FlagOptimized:
		return d.Optimized
	case FlagGlitched:
		return d.Glitched
	case FlagIDPrepending:
		return d.IDPrepending
	case FlagIdentityEnforced:
		return d.IdentityEnforced
	case FlagThirdPersonEnforced:
		return d.ThirdPersonEnforced
	case FlagBatteryPowered:
		return d.BatteryPowered
	}
	return false
}

// SetFlag sets the in-memory value of the given flag.
func (d *DroneRecord) SetFlag(f Flag, v bool) {
	switch f {
	case FlagOptimized:
		d.Optimized = v
	case FlagGlitched:
		d.Glitched = v
	case FlagIDPrepending:
		d.IDPrepending = v
	case FlagIdentityEnforced:
		d.IdentityEnforced = v
	case FlagThirdPersonEnforced:
		d.ThirdPersonEnforced = v
	case FlagBatteryPowered:
		d.BatteryPowered = v
	}
}

// AnyFlagSet reports whether at least one behaviour flag is enabled. The
// displayed persona marker is derived from this.
func (d *DroneRecord) AnyFlagSet() bool {
	for _, f := range AllFlags {
		if d.FlagValue(f) {
			return true
		}
	}
	return false
}

// TrustedList returns the trusted user IDs as a slice.
func (d *DroneRecord) TrustedList() []string {
	return splitList(d.TrustedUsers)
}

// Trusts reports whether the given user may mutate this record.
func (d *DroneRecord) Trusts(userID string) bool {
	for _, id := range d.TrustedList() {
		if id == userID {
			return true
		}
	}
	return false
}

// AddTrust adds a user to the trusted set. Reports whether the set changed.
func (d *DroneRecord) AddTrust(userID string) bool {
	if d.Trusts(userID) {
		return false
	}
	d.TrustedUsers = joinList(append(d.TrustedList(), userID))
	return true
}

// RemoveTrust removes a user from the trusted set. Reports whether the set changed.
func (d *DroneRecord) RemoveTrust(userID string) bool {
	list := d.TrustedList()
	out := list[:0]
	for _, id := range list {
		if id != userID {
			out = append(out, id)
		}
	}
	if len(out) == len(list) {
		return false
	}
	d.TrustedUsers = joinList(out)
	return true
}

// ControlledList returns the flags currently under foreign control.
func (d *DroneRecord) ControlledList() []Flag {
	parts := splitList(d.ControlledFlags)
	flags := make([]Flag, 0, len(parts))
	for _, p := range parts {
		flags = append(flags, Flag(p))
	}
	return flags
}

// MarkControlled records that a flag was asserted by another actor and
// recomputes CanSelfConfigure.
func (d *DroneRecord) MarkControlled(f Flag) {
	for _, c := range d.ControlledList() {
		if c == f {
			return
		}
	}
	parts := splitList(d.ControlledFlags)
	d.ControlledFlags = joinList(append(parts, string(f)))
	d.CanSelfConfigure = false
}

// ClearControlled drops a flag from the foreign-control set. Self-configuration
// is restored once no flag remains foreign-controlled.
func (d *DroneRecord) ClearControlled(f Flag) {
	parts := splitList(d.ControlledFlags)
	out := parts[:0]
	for _, p := range parts {
		if p != string(f) {
			out = append(out, p)
		}
	}
	d.ControlledFlags = joinList(out)
	if len(out) == 0 {
		d.CanSelfConfigure = true
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

func joinList(parts []string) string {
	return strings.Join(parts, "|")
}
