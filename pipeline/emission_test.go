package pipeline

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmitSession struct {
	hooks map[string][]*discordgo.Webhook

	Deletes      []string
	LookupCount  int
	Creates      []string
	Executions   []*discordgo.WebhookParams
	ReactionAdds []string
}

func newFakeEmitSession() *fakeEmitSession {
	return &fakeEmitSession{hooks: make(map[string][]*discordgo.Webhook)}
}

func (f *fakeEmitSession) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	f.Deletes = append(f.Deletes, messageID)
	return nil
}

func (f *fakeEmitSession) ChannelWebhooks(channelID string, options ...discordgo.RequestOption) ([]*discordgo.Webhook, error) {
	f.LookupCount++
	return f.hooks[channelID], nil
}

func (f *fakeEmitSession) WebhookCreate(channelID, name, avatar string, options ...discordgo.RequestOption) (*discordgo.Webhook, error) {
	f.Creates = append(f.Creates, channelID)
	hook := &discordgo.Webhook{ID: "hook-" + channelID, Token: "token", Name: name}
	f.hooks[channelID] = append(f.hooks[channelID], hook)
	return hook, nil
}

func (f *fakeEmitSession) WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.Executions = append(f.Executions, data)
	return &discordgo.Message{ID: "posted"}, nil
}

func (f *fakeEmitSession) MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error {
	f.ReactionAdds = append(f.ReactionAdds, emojiID)
	return nil
}

func TestEmitUnchangedIsNoOp(t *testing.T) {
	fs := newFakeEmitSession()
	e := NewEmitter(fs, zerolog.Nop())

	m, copy := testMessage("hello")
	require.NoError(t, e.Emit(m, copy, "Associate", "avatar-url"))

	assert.Empty(t, fs.Deletes)
	assert.Empty(t, fs.Executions)
}

func TestEmitRepostsChangedContent(t *testing.T) {
	fs := newFakeEmitSession()
	e := NewEmitter(fs, zerolog.Nop())

	m, copy := testMessage("hello")
	m.Reactions = []*discordgo.MessageReactions{
		{Emoji: &discordgo.Emoji{Name: "🐝"}},
	}
	copy.Content = "1234 :: hello"

	require.NoError(t, e.Emit(m, copy, "Associate", "avatar-url"))

	assert.Equal(t, []string{"msg1"}, fs.Deletes)
	require.Len(t, fs.Executions, 1)
	assert.Equal(t, "1234 :: hello", fs.Executions[0].Content)
	assert.Equal(t, "Associate", fs.Executions[0].Username)
	assert.Equal(t, []string{"🐝"}, fs.ReactionAdds)
}

func TestEmitIdentityOverrideForcesRepost(t *testing.T) {
	fs := newFakeEmitSession()
	e := NewEmitter(fs, zerolog.Nop())

	m, copy := testMessage("hello")
	copy.DisplayName = "⬢-Drone #1234"
	copy.IdentityEnforced = true

	require.NoError(t, e.Emit(m, copy, "Associate", "avatar-url"))

	require.Len(t, fs.Executions, 1)
	assert.Equal(t, "⬢-Drone #1234", fs.Executions[0].Username)
}

func TestEmitErasedMessageIsDeletedOnly(t *testing.T) {
	fs := newFakeEmitSession()
	e := NewEmitter(fs, zerolog.Nop())

	m, copy := testMessage("forbidden")
	copy.Content = ""

	require.NoError(t, e.Emit(m, copy, "Associate", "avatar-url"))

	assert.Equal(t, []string{"msg1"}, fs.Deletes)
	assert.Empty(t, fs.Executions)
}

func TestEmitCachesWebhookPerChannel(t *testing.T) {
	fs := newFakeEmitSession()
	e := NewEmitter(fs, zerolog.Nop())

	for i := 0; i < 3; i++ {
		m, copy := testMessage("hello")
		copy.Content = "changed"
		require.NoError(t, e.Emit(m, copy, "Associate", "avatar-url"))
	}

	assert.Equal(t, 1, fs.LookupCount)
	assert.Equal(t, []string{"chan1"}, fs.Creates)
}

func TestEmitReusesExistingProxyWebhook(t *testing.T) {
	fs := newFakeEmitSession()
	fs.hooks["chan1"] = []*discordgo.Webhook{
		{ID: "existing", Token: "token", Name: proxyName},
	}
	e := NewEmitter(fs, zerolog.Nop())

	m, copy := testMessage("hello")
	copy.Content = "changed"
	require.NoError(t, e.Emit(m, copy, "Associate", "avatar-url"))

	assert.Empty(t, fs.Creates)
	require.Len(t, fs.Executions, 1)
}

func TestEmitAppendsAttachmentURLs(t *testing.T) {
	fs := newFakeEmitSession()
	e := NewEmitter(fs, zerolog.Nop())

	m, copy := testMessage("look")
	copy.Content = "1234 :: look"
	copy.Attachments = []*discordgo.MessageAttachment{
		{ID: "a1", URL: "https://cdn.example/a1.png"},
	}

	require.NoError(t, e.Emit(m, copy, "Associate", "avatar-url"))

	require.Len(t, fs.Executions, 1)
	assert.Equal(t, "1234 :: look\nhttps://cdn.example/a1.png", fs.Executions[0].Content)
}

func TestNotifyPostsUnderHiveIdentity(t *testing.T) {
	fs := newFakeEmitSession()
	e := NewEmitter(fs, zerolog.Nop())

	e.Notify("chan-status", "Drone #1234 :: speech optimization enabled.")

	require.Len(t, fs.Executions, 1)
	assert.Equal(t, "Hive Mxtress", fs.Executions[0].Username)
}
