package handlers

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"hivebot/bot"
	"hivebot/errs"
	"hivebot/hive"
	"hivebot/model"
	"hivebot/utils"
)

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// targetID resolves the optional user option, defaulting to the invoker.
func targetID(s *discordgo.Session, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name, selfID string) string {
	if opt, ok := opts[name]; ok {
		return opt.UserValue(s).ID
	}
	return selfID
}

func replyError(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, err error) {
	if msg := errs.UserMessage(err); msg != "" {
		utils.SendErrorResponse(s, i, msg)
		return
	}
	b.Log.Error().Err(err).
		Str("command", i.ApplicationCommandData().Name).
		Msg("command failed")
	utils.SendErrorResponse(s, i, "Something went wrong. The incident was logged.")
}

func handleAssign(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID, level := interactionActor(i, b)
	opts := optionMap(i)

	target := opts["user"].UserValue(s)
	if !utils.Privileged(level) && target.ID != userID {
		utils.SendErrorResponse(s, i, "Only the Hive Mxtress and moderation may assign other members.")
		return
	}

	minutes := 0
	if opt, ok := opts["temporary-minutes"]; ok {
		minutes = int(opt.IntValue())
	}

	displayName := target.Username
	if member, err := s.GuildMember(b.GetConfig().GuildID, target.ID); err == nil && member.Nick != "" {
		displayName = member.Nick
	}

	d, err := b.Hive.AssignDrone(target.ID, displayName, minutes)
	if err != nil {
		replyError(s, i, b, err)
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("%s reporting for duty.", hive.DisplayName(d)))
}

func handleUnassign(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID, level := interactionActor(i, b)
	opts := optionMap(i)
	target := targetID(s, opts, "user", userID)

	actor := hive.Actor{ID: userID, Privileged: utils.Privileged(level)}
	if err := b.Hive.UnassignDrone(actor, target); err != nil {
		replyError(s, i, b, err)
		return
	}
	utils.SendPublicResponse(s, i, "Persona released. The associate returns.")
}

func handleToggle(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID, level := interactionActor(i, b)
	opts := optionMap(i)

	f, ok := model.ParseFlag(opts["flag"].StringValue())
	if !ok {
		utils.SendErrorResponse(s, i, "Unknown flag.")
		return
	}

	minutes := 0
	if opt, ok := opts["minutes"]; ok {
		minutes = int(opt.IntValue())
	}
	target := targetID(s, opts, "user", userID)

	actor := hive.Actor{ID: userID, Privileged: utils.Privileged(level)}
	res, err := b.Hive.ToggleFlag(actor, target, f, minutes)
	if err != nil {
		replyError(s, i, b, err)
		return
	}
	utils.SendPublicResponse(s, i, res.Notice)
}

func handleTrust(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID, level := interactionActor(i, b)
	opts := optionMap(i)

	action := opts["action"].StringValue()
	trustee := opts["user"].UserValue(s)
	target := targetID(s, opts, "drone", userID)

	actor := hive.Actor{ID: userID, Privileged: utils.Privileged(level)}
	if err := b.Hive.SetTrust(actor, target, trustee.ID, action == "add"); err != nil {
		replyError(s, i, b, err)
		return
	}

	if action == "add" {
		utils.SendSimpleResponse(s, i, fmt.Sprintf("%s is now trusted.", trustee.Username))
	} else {
		utils.SendSimpleResponse(s, i, fmt.Sprintf("%s is no longer trusted.", trustee.Username))
	}
}

func handleFreeStorage(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID, level := interactionActor(i, b)
	opts := optionMap(i)

	enabled := opts["enabled"].BoolValue()
	target := targetID(s, opts, "user", userID)

	actor := hive.Actor{ID: userID, Privileged: utils.Privileged(level)}
	if err := b.Hive.SetFreeStorage(actor, target, enabled); err != nil {
		replyError(s, i, b, err)
		return
	}

	if enabled {
		utils.SendSimpleResponse(s, i, "Free storage enabled; anyone may store this drone.")
	} else {
		utils.SendSimpleResponse(s, i, "Free storage disabled.")
	}
}

func handleStorage(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID, level := interactionActor(i, b)
	opts := optionMap(i)

	target := opts["user"].UserValue(s)
	hours := int(opts["hours"].IntValue())
	purpose := opts["purpose"].StringValue()

	actor := hive.Actor{ID: userID, Privileged: utils.Privileged(level)}
	if _, err := b.Hive.Store(actor, target.ID, hours, purpose); err != nil {
		replyError(s, i, b, err)
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("Drone stored for %d hours :: %s", hours, purpose))
}

func handleRelease(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID, level := interactionActor(i, b)
	opts := optionMap(i)
	target := opts["user"].UserValue(s)

	actor := hive.Actor{ID: userID, Privileged: utils.Privileged(level)}
	if err := b.Hive.Release(actor, target.ID); err != nil {
		replyError(s, i, b, err)
		return
	}
	utils.SendPublicResponse(s, i, "Drone released from storage.")
}

func handleEmergencyRelease(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID, level := interactionActor(i, b)
	if !utils.Privileged(level) {
		utils.SendErrorResponse(s, i, "Only the Hive Mxtress and moderation may emergency-release.")
		return
	}

	opts := optionMap(i)
	target := opts["user"].UserValue(s)

	actor := hive.Actor{ID: userID, Privileged: true}
	if err := b.Hive.UnassignDrone(actor, target.ID); err != nil {
		replyError(s, i, b, err)
		return
	}
	utils.SendPublicResponse(s, i, "Emergency release complete. All enforcement lifted.")
}

func handleDrain(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	userID, level := interactionActor(i, b)
	opts := optionMap(i)

	target := opts["user"].UserValue(s)
	percent := int(opts["percent"].IntValue())

	actor := hive.Actor{ID: userID, Privileged: utils.Privileged(level)}
	remaining, err := b.Hive.DrainBatteryPercent(actor, target.ID, percent)
	if err != nil {
		replyError(s, i, b, err)
		return
	}
	utils.SendPublicResponse(s, i,
		fmt.Sprintf("Battery drained by %d%% :: %d minutes remaining.", percent, remaining))
}
