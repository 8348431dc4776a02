package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"hivebot/errs"
	"hivebot/hive"
	"hivebot/model"
	"hivebot/state"
	"hivebot/utils/database"
)

// ChannelSession is the message-level Discord surface the listeners use.
type ChannelSession interface {
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Deps bundles what the listeners need. Every listener re-reads persisted
// state on its own; none assumes another listener has already run.
type Deps struct {
	DB      *sqlx.DB
	Cfg     *model.Config
	Session ChannelSession
	State   *state.Runtime
	Hive    *hive.Hive
	Now     func() time.Time
}

// drone returns the author's configuration record, or nil when the author
// has no active persona.
func (d *Deps) drone(userID string) (*model.DroneRecord, error) {
	rec, err := database.GetDrone(d.DB, userID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// GuildListeners returns the fixed listener order for guild messages.
func GuildListeners(deps *Deps) []Listener {
	return []Listener{
		&storageGate{deps},
		&batteryGate{deps},
		&statusCode{deps},
		&idPrepend{deps},
		&identityEnforce{deps},
	}
}

// BotListeners returns the listener list for bot-authored messages. Normally
// empty; bot output passes through untouched.
func BotListeners(_ *Deps) []Listener {
	return nil
}

// storageGate removes messages from drones currently held in storage.
type storageGate struct {
	deps *Deps
}

func (l *storageGate) Name() string { return "storage_gate" }

func (l *storageGate) Handle(m *discordgo.Message, _ *model.MessageCopy) (bool, error) {
	_, err := database.ActiveStorage(l.deps.DB, m.Author.ID)
	if errors.Is(err, errs.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := l.deps.Session.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		return false, errs.Platform("ChannelMessageDelete", err)
	}
	return true, nil
}

// batteryGate records drone activity for the drain sweep and silences drones
// whose battery is empty.
type batteryGate struct {
	deps *Deps
}

func (l *batteryGate) Name() string { return "battery_gate" }

func (l *batteryGate) Handle(m *discordgo.Message, _ *model.MessageCopy) (bool, error) {
	d, err := l.deps.drone(m.Author.ID)
	if err != nil {
		return false, err
	}
	if d == nil || !d.BatteryPowered {
		return false, nil
	}

	l.deps.State.MarkActive(m.Author.ID, l.deps.Now())

	if d.BatteryMinutes > 0 {
		return false, nil
	}
	if err := l.deps.Session.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		return false, errs.Platform("ChannelMessageDelete", err)
	}
	return true, nil
}

var statusCodePattern = regexp.MustCompile(`^(\d{4}) :: (\d{3})$`)

// statusCode enforces the speech-code format for optimized drones and for
// enforced channels, expanding known codes to their canonical phrases.
type statusCode struct {
	deps *Deps
}

func (l *statusCode) Name() string { return "status_code" }

func (l *statusCode) Handle(m *discordgo.Message, copy *model.MessageCopy) (bool, error) {
	d, err := l.deps.drone(m.Author.ID)
	if err != nil {
		return false, err
	}

	enforced := l.deps.Cfg.Hive.EnforcedChannel(m.ChannelID)
	if d == nil {
		return false, nil
	}
	if !d.Optimized && !enforced {
		return false, nil
	}

	match := statusCodePattern.FindStringSubmatch(copy.Content)
	if match == nil || match[1] != d.DroneID {
		if err := l.deps.Session.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
			return false, errs.Platform("ChannelMessageDelete", err)
		}
		return true, nil
	}

	if phrase, ok := speechCodes[match[2]]; ok {
		copy.Content = fmt.Sprintf("%s :: Code %s :: %s", d.DroneID, match[2], phrase)
	}
	return false, nil
}

// idPrepend prefixes messages with the drone's persona ID when the flag is on.
type idPrepend struct {
	deps *Deps
}

func (l *idPrepend) Name() string { return "id_prepend" }

func (l *idPrepend) Handle(m *discordgo.Message, copy *model.MessageCopy) (bool, error) {
	d, err := l.deps.drone(m.Author.ID)
	if err != nil {
		return false, err
	}
	if d == nil || !d.IDPrepending {
		return false, nil
	}

	prefix := d.DroneID + " :: "
	if !strings.HasPrefix(copy.Content, prefix) {
		copy.Content = prefix + copy.Content
	}
	return false, nil
}

// identityEnforce masks the author behind the uniform hive identity.
type identityEnforce struct {
	deps *Deps
}

func (l *identityEnforce) Name() string { return "identity_enforce" }

func (l *identityEnforce) Handle(m *discordgo.Message, copy *model.MessageCopy) (bool, error) {
	d, err := l.deps.drone(m.Author.ID)
	if err != nil {
		return false, err
	}
	if d == nil || !d.IdentityEnforced {
		return false, nil
	}

	copy.DisplayName = hive.DisplayName(d)
	if l.deps.Cfg.Hive.EnforcedAvatarURL != "" {
		copy.AvatarURL = l.deps.Cfg.Hive.EnforcedAvatarURL
	}
	copy.IdentityEnforced = true
	return false, nil
}
