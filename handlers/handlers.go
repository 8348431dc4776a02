// Package handlers wires the gateway events to the pipeline and the slash
// commands to the hive operations.
package handlers

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"hivebot/bot"
	"hivebot/pipeline"
	"hivebot/utils"
)

// Register attaches all event handlers to the bot's session.
func Register(b *bot.Bot) {
	deps := &pipeline.Deps{
		DB:      b.DB,
		Cfg:     b.GetConfig(),
		Session: b.Session,
		State:   b.State,
		Hive:    b.Hive,
		Now:     time.Now,
	}

	mh := &messageHandler{
		bot:      b,
		guild:    pipeline.New(b.Log, pipeline.GuildListeners(deps)...),
		dm:       pipeline.New(b.Log, pipeline.DMListeners(deps)...),
		botOwned: pipeline.New(b.Log, pipeline.BotListeners(deps)...),
	}

	b.CommandHandlers = commandHandlers(b)
	addHandlers(b, mh)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	wrap := func(h func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot)) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			h(s, i, b)
		}
	}

	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"assign":            wrap(handleAssign),
		"unassign":          wrap(handleUnassign),
		"toggle":            wrap(handleToggle),
		"trust":             wrap(handleTrust),
		"free-storage":      wrap(handleFreeStorage),
		"storage":           wrap(handleStorage),
		"release":           wrap(handleRelease),
		"emergency-release": wrap(handleEmergencyRelease),
		"drain":             wrap(handleDrain),
		"hive-status":       wrap(handleHiveStatus),
	}
}

func addHandlers(b *bot.Bot, mh *messageHandler) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.Log.Info().
			Str("user", r.User.Username).
			Msg("logged in")
	})

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	})

	b.Session.AddHandler(mh.onMessageCreate)
}

// interactionActor resolves the invoking user into an Actor plus their
// permission level.
func interactionActor(i *discordgo.InteractionCreate, b *bot.Bot) (string, string) {
	if i.Member == nil || i.Member.User == nil {
		if i.User != nil {
			return i.User.ID, utils.CheckPermission(nil, i.User.ID, b.GetConfig())
		}
		return "", utils.MemberPermission
	}
	userID := i.Member.User.ID
	return userID, utils.CheckPermission(i.Member.Roles, userID, b.GetConfig())
}
