package pipeline

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"hivebot/model"
)

type stubListener struct {
	name    string
	handled bool
	err     error
	calls   int
	mutate  func(copy *model.MessageCopy)
}

func (l *stubListener) Name() string { return l.name }

func (l *stubListener) Handle(m *discordgo.Message, copy *model.MessageCopy) (bool, error) {
	l.calls++
	if l.mutate != nil {
		l.mutate(copy)
	}
	return l.handled, l.err
}

func testMessage(content string) (*discordgo.Message, *model.MessageCopy) {
	m := &discordgo.Message{
		ID:        "msg1",
		ChannelID: "chan1",
		Content:   content,
		Author:    &discordgo.User{ID: "user1"},
	}
	return m, model.NewMessageCopy(m, "Associate", "avatar-url")
}

func TestPipelineRunsListenersInOrder(t *testing.T) {
	first := &stubListener{name: "first", mutate: func(c *model.MessageCopy) { c.Content += " one" }}
	second := &stubListener{name: "second", mutate: func(c *model.MessageCopy) { c.Content += " two" }}
	p := New(zerolog.Nop(), first, second)

	m, copy := testMessage("base")
	handled := p.Run(m, copy)

	assert.False(t, handled)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, "base one two", copy.Content)
}

func TestPipelineShortCircuits(t *testing.T) {
	first := &stubListener{name: "first", handled: true}
	second := &stubListener{name: "second"}
	p := New(zerolog.Nop(), first, second)

	m, copy := testMessage("base")
	handled := p.Run(m, copy)

	assert.True(t, handled)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
}

func TestPipelineStopsOnListenerError(t *testing.T) {
	first := &stubListener{name: "first", err: errors.New("boom")}
	second := &stubListener{name: "second"}
	p := New(zerolog.Nop(), first, second)

	m, copy := testMessage("base")
	handled := p.Run(m, copy)

	// A faulted pipeline reports handled so the caller leaves the message alone.
	assert.True(t, handled)
	assert.Zero(t, second.calls)
}
