package handlers

import (
	"github.com/bwmarrin/discordgo"

	"hivebot/bot"
	"hivebot/model"
	"hivebot/pipeline"
)

// messageHandler routes each inbound message to the listener chain matching
// its origin and hands mutated copies to the emitter.
type messageHandler struct {
	bot      *bot.Bot
	guild    *pipeline.Pipeline
	dm       *pipeline.Pipeline
	botOwned *pipeline.Pipeline
}

func (h *messageHandler) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || (s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}

	if m.Author.Bot {
		h.botOwned.Run(m.Message, model.NewMessageCopy(m.Message, m.Author.Username, m.Author.AvatarURL("")))
		return
	}

	if m.GuildID == "" {
		h.dm.Run(m.Message, model.NewMessageCopy(m.Message, m.Author.Username, m.Author.AvatarURL("")))
		return
	}

	origName := m.Author.Username
	if m.Member != nil && m.Member.Nick != "" {
		origName = m.Member.Nick
	}
	origAvatar := m.Author.AvatarURL("")

	copy := model.NewMessageCopy(m.Message, origName, origAvatar)
	if h.guild.Run(m.Message, copy) {
		return
	}

	if err := h.bot.Emitter.Emit(m.Message, copy, origName, origAvatar); err != nil {
		h.bot.Log.Error().Err(err).Str("message", m.ID).Msg("failed to emit message")
	}
}
