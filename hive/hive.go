// Package hive implements the drone persona operations: assignment, flag
// toggles, battery management, storage, and trust. All persistence goes
// through one transaction per operation; platform calls happen after commit
// and never roll persistence back.
package hive

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"hivebot/model"
)

// Session is the slice of the Discord API the hive operations need. The
// concrete *discordgo.Session satisfies it.
type Session interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberNickname(guildID, userID, nickname string, options ...discordgo.RequestOption) error
	GuildMemberEdit(guildID, userID string, data *discordgo.GuildMemberParams, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// Notifier posts operation notices through the proxy identity.
type Notifier interface {
	Notify(channelID, content string)
}

// Actor identifies who invoked an operation. Privileged is true for the Hive
// Mxtress and moderation roles; it is decided at the command boundary.
type Actor struct {
	ID         string
	Privileged bool
}

// Hive bundles the dependencies of the drone operations.
type Hive struct {
	DB       *sqlx.DB
	Session  Session
	Notifier Notifier
	Cfg      *model.Config
	Log      zerolog.Logger

	// Now is the clock used for timers and storage deadlines. Tests inject a
	// fixed instant.
	Now func() time.Time
}

// New builds a Hive with the real clock.
func New(db *sqlx.DB, s Session, n Notifier, cfg *model.Config, log zerolog.Logger) *Hive {
	return &Hive{
		DB:       db,
		Session:  s,
		Notifier: n,
		Cfg:      cfg,
		Log:      log.With().Str("component", "hive").Logger(),
		Now:      time.Now,
	}
}

func (h *Hive) notify(channelID, content string) {
	if h.Notifier == nil || channelID == "" {
		return
	}
	h.Notifier.Notify(channelID, content)
}

// authorized implements the shared mutation check: the privileged actor, a
// trusted user, or the drone itself while self-configuration is allowed.
func authorized(actor Actor, d *model.DroneRecord) bool {
	if actor.Privileged {
		return true
	}
	if d.Trusts(actor.ID) {
		return true
	}
	return actor.ID == d.DiscordID && d.CanSelfConfigure
}
