package model

import "github.com/bwmarrin/discordgo"

// MessageCopy is the mutable working copy of one inbound message. Listeners
// mutate it in place; the emission step compares it against the original and
// re-posts through the proxy identity when anything differs.
type MessageCopy struct {
	Content     string
	DisplayName string
	AvatarURL   string
	Attachments []*discordgo.MessageAttachment

	// Set by enforcement listeners to force a proxy re-post even when the
	// content itself is unchanged.
	IdentityEnforced    bool
	ThirdPersonEnforced bool
}

// NewMessageCopy builds the working copy from a raw inbound message.
func NewMessageCopy(m *discordgo.Message, displayName, avatarURL string) *MessageCopy {
	return &MessageCopy{
		Content:     m.Content,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Attachments: m.Attachments,
	}
}
