package pipeline

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"hivebot/errs"
	"hivebot/hive"
	"hivebot/model"
	"hivebot/state"
	"hivebot/utils/database"
)

// DMListeners returns the fixed listener order for direct messages.
func DMListeners(deps *Deps) []Listener {
	return []Listener{
		&consentResponse{deps},
		&storageRequest{deps},
		&droneReport{deps},
	}
}

func (d *Deps) reply(channelID, content string) {
	if _, err := d.Session.ChannelMessageSend(channelID, content); err != nil {
		d.Hive.Log.Error().Err(err).Str("channel", channelID).Msg("failed to send DM reply")
	}
}

// consentResponse resolves a pending storage consent when the target answers
// "accept" or "reject" in DM.
type consentResponse struct {
	deps *Deps
}

func (l *consentResponse) Name() string { return "consent_response" }

func (l *consentResponse) Handle(m *discordgo.Message, _ *model.MessageCopy) (bool, error) {
	answer := strings.ToLower(strings.TrimSpace(m.Content))
	if answer != "accept" && answer != "reject" {
		return false, nil
	}

	consent, ok := l.deps.State.TakeConsent(m.Author.ID, l.deps.Now())
	if !ok {
		l.deps.reply(m.ChannelID, "There is no pending storage request for you.")
		return true, nil
	}

	if answer == "reject" {
		l.deps.reply(m.ChannelID, "Storage request rejected.")
		return true, nil
	}

	// The target accepted, so the store runs under the target's own identity.
	_, err := l.deps.Hive.Store(hive.Actor{ID: consent.TargetID}, consent.TargetID, consent.Hours, consent.Purpose)
	if err != nil {
		if msg := errs.UserMessage(err); msg != "" {
			l.deps.reply(m.ChannelID, msg)
			return true, nil
		}
		return false, err
	}

	l.deps.reply(m.ChannelID, fmt.Sprintf("Storage accepted for %d hours.", consent.Hours))
	return true, nil
}

// storageRequest parses the slash-delimited storage format in DM. A drone
// requesting its own storage is stored immediately; a request for another
// drone is parked until the target consents.
type storageRequest struct {
	deps *Deps
}

func (l *storageRequest) Name() string { return "storage_request" }

func (l *storageRequest) Handle(m *discordgo.Message, _ *model.MessageCopy) (bool, error) {
	if !strings.Contains(m.Content, "/") {
		return false, nil
	}

	droneID, hours, purpose, err := hive.ParseStorageRequest(m.Content)
	if err != nil {
		l.deps.reply(m.ChannelID, errs.UserMessage(err))
		return true, nil
	}

	target, err := database.GetDroneByDroneID(l.deps.DB, droneID)
	if err != nil {
		if msg := errs.UserMessage(err); msg != "" {
			l.deps.reply(m.ChannelID, msg)
			return true, nil
		}
		return false, err
	}

	if target.DiscordID == m.Author.ID || target.FreeStorage || target.Trusts(m.Author.ID) {
		_, err := l.deps.Hive.Store(hive.Actor{ID: m.Author.ID}, target.DiscordID, hours, purpose)
		if err != nil {
			if msg := errs.UserMessage(err); msg != "" {
				l.deps.reply(m.ChannelID, msg)
				return true, nil
			}
			return false, err
		}
		l.deps.reply(m.ChannelID, fmt.Sprintf("Drone #%s stored for %d hours.", droneID, hours))
		return true, nil
	}

	l.deps.State.PutConsent(state.PendingConsent{
		InitiatorID: m.Author.ID,
		TargetID:    target.DiscordID,
		Hours:       hours,
		Purpose:     purpose,
		RequestedAt: l.deps.Now(),
	})

	if ch, err := l.deps.Session.UserChannelCreate(target.DiscordID); err == nil {
		l.deps.reply(ch.ID, fmt.Sprintf(
			"A storage request was filed for you: %d hours :: %s\nReply `accept` or `reject`.", hours, purpose))
	}
	l.deps.reply(m.ChannelID, fmt.Sprintf("Consent requested from drone #%s.", droneID))
	return true, nil
}

// droneReport answers "report" in DM with the drone's own configuration.
type droneReport struct {
	deps *Deps
}

func (l *droneReport) Name() string { return "drone_report" }

func (l *droneReport) Handle(m *discordgo.Message, _ *model.MessageCopy) (bool, error) {
	if strings.ToLower(strings.TrimSpace(m.Content)) != "report" {
		return false, nil
	}

	summary, err := l.deps.Hive.DroneSummary(m.Author.ID)
	if err != nil {
		if msg := errs.UserMessage(err); msg != "" {
			l.deps.reply(m.ChannelID, msg)
			return true, nil
		}
		return false, err
	}

	l.deps.reply(m.ChannelID, summary)
	return true, nil
}
