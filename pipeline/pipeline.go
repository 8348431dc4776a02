// Package pipeline runs the ordered listener chain over each inbound message
// and re-emits altered messages through the proxy identity.
package pipeline

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"hivebot/model"
)

// Listener is one stage of the message pipeline. Handle returns true when the
// message is fully handled and the pipeline must stop; returning false
// continues, possibly after mutating the working copy. Expected business
// rejections act on the message (delete, replace content) and return true;
// only unexpected faults surface as errors.
type Listener interface {
	Name() string
	Handle(m *discordgo.Message, copy *model.MessageCopy) (bool, error)
}

// Pipeline is an explicit ordered list of listeners.
type Pipeline struct {
	listeners []Listener
	log       zerolog.Logger
}

// New builds a pipeline running the given listeners in order.
func New(log zerolog.Logger, listeners ...Listener) *Pipeline {
	return &Pipeline{
		listeners: listeners,
		log:       log.With().Str("component", "pipeline").Logger(),
	}
}

// Run feeds the message through every listener in order. It reports true when
// a listener fully handled the message (or faulted), in which case the caller
// must skip emission: the message was either acted on by the listener or is
// deliberately left untouched.
func (p *Pipeline) Run(m *discordgo.Message, copy *model.MessageCopy) bool {
	for _, l := range p.listeners {
		handled, err := l.Handle(m, copy)
		if err != nil {
			p.log.Error().Err(err).
				Str("listener", l.Name()).
				Str("message", m.ID).
				Msg("listener failed; leaving message untouched")
			return true
		}
		if handled {
			return true
		}
	}
	return false
}
