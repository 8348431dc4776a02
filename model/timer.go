package model

import "time"

// Timer schedules the reversion of exactly one flag for one drone.
// At most one live timer exists per (drone, flag) pair; creating a new timed
// toggle for an already-timed flag replaces the old row.
type Timer struct {
	ID        string    `db:"id"` // uuid
	DiscordID string    `db:"discord_id"`
	Flag      Flag      `db:"flag"`
	ExpiresAt time.Time `db:"expires_at"`
}
