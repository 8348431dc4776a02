package pipeline

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"hivebot/errs"
	"hivebot/model"
)

const proxyName = "Hive Proxy"

// EmitSession is the webhook-level Discord surface the emitter uses.
type EmitSession interface {
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelWebhooks(channelID string, options ...discordgo.RequestOption) ([]*discordgo.Webhook, error)
	WebhookCreate(channelID, name, avatar string, options ...discordgo.RequestOption) (*discordgo.Webhook, error)
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
}

// Emitter re-posts altered messages through a per-channel proxy identity.
type Emitter struct {
	session EmitSession
	log     zerolog.Logger

	mu       sync.Mutex
	webhooks map[string]*discordgo.Webhook // per channel
}

// NewEmitter builds an emitter over the given session.
func NewEmitter(s EmitSession, log zerolog.Logger) *Emitter {
	return &Emitter{
		session:  s,
		log:      log.With().Str("component", "emitter").Logger(),
		webhooks: make(map[string]*discordgo.Webhook),
	}
}

// changed reports whether the working copy differs from the original across
// content, display name, avatar, and attachments, or carries an enforcement
// override.
func changed(m *discordgo.Message, copy *model.MessageCopy, origName, origAvatar string) bool {
	if copy.IdentityEnforced || copy.ThirdPersonEnforced {
		return true
	}
	if copy.Content != m.Content || copy.DisplayName != origName || copy.AvatarURL != origAvatar {
		return true
	}
	if len(copy.Attachments) != len(m.Attachments) {
		return true
	}
	for i, a := range copy.Attachments {
		if a.ID != m.Attachments[i].ID {
			return true
		}
	}
	return false
}

// Emit compares the working copy against the original message and, when they
// differ, deletes the original and re-posts the copy under the proxy
// identity. Identical copies are a cheap no-op. Reactions on the original are
// reapplied to the new message best-effort.
func (e *Emitter) Emit(m *discordgo.Message, copy *model.MessageCopy, origName, origAvatar string) error {
	if !changed(m, copy, origName, origAvatar) {
		return nil
	}

	if err := e.session.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		return errs.Platform("ChannelMessageDelete", err)
	}

	// A fully erased message is not re-posted; deleting it is the whole act.
	if copy.Content == "" && len(copy.Attachments) == 0 {
		return nil
	}

	content := copy.Content
	if len(copy.Attachments) > 0 {
		var urls []string
		for _, a := range copy.Attachments {
			urls = append(urls, a.URL)
		}
		content = strings.TrimSpace(content + "\n" + strings.Join(urls, "\n"))
	}

	posted, err := e.execute(m.ChannelID, &discordgo.WebhookParams{
		Content:   content,
		Username:  copy.DisplayName,
		AvatarURL: copy.AvatarURL,
	})
	if err != nil {
		return err
	}

	for _, r := range m.Reactions {
		if err := e.session.MessageReactionAdd(m.ChannelID, posted.ID, r.Emoji.APIName()); err != nil {
			e.log.Warn().Err(err).Str("emoji", r.Emoji.APIName()).Msg("failed to replicate reaction")
		}
	}
	return nil
}

// Notify posts an operation notice to a channel under the hive identity.
func (e *Emitter) Notify(channelID, content string) {
	if _, err := e.execute(channelID, &discordgo.WebhookParams{
		Content:  content,
		Username: "Hive Mxtress",
	}); err != nil {
		e.log.Error().Err(err).Str("channel", channelID).Msg("failed to post notice")
	}
}

func (e *Emitter) execute(channelID string, params *discordgo.WebhookParams) (*discordgo.Message, error) {
	hook, err := e.webhook(channelID)
	if err != nil {
		return nil, err
	}

	posted, err := e.session.WebhookExecute(hook.ID, hook.Token, true, params)
	if err != nil {
		return nil, errs.Platform("WebhookExecute", err)
	}
	return posted, nil
}

// webhook returns the proxy webhook for a channel, creating it on first use.
func (e *Emitter) webhook(channelID string) (*discordgo.Webhook, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if hook, ok := e.webhooks[channelID]; ok {
		return hook, nil
	}

	hooks, err := e.session.ChannelWebhooks(channelID)
	if err != nil {
		return nil, errs.Platform("ChannelWebhooks", err)
	}
	for _, hook := range hooks {
		if hook.Name == proxyName {
			e.webhooks[channelID] = hook
			return hook, nil
		}
	}

	hook, err := e.session.WebhookCreate(channelID, proxyName, "")
	if err != nil {
		return nil, errs.Platform("WebhookCreate", fmt.Errorf("channel %s: %w", channelID, err))
	}
	e.webhooks[channelID] = hook
	return hook, nil
}
