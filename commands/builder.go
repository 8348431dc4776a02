package commands

import (
	"github.com/bwmarrin/discordgo"

	"hivebot/model"
)

func flagChoices() []*discordgo.ApplicationCommandOptionChoice {
	names := map[model.Flag]string{
		model.FlagOptimized:           "Speech optimization",
		model.FlagGlitched:            "Glitch",
		model.FlagIDPrepending:        "ID prepending",
		model.FlagIdentityEnforced:    "Identity enforcement",
		model.FlagThirdPersonEnforced: "Third-person enforcement",
		model.FlagBatteryPowered:      "Battery power",
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(model.AllFlags))
	for _, f := range model.AllFlags {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  names[f],
			Value: string(f),
		})
	}
	return choices
}

// GenerateCommands returns the slash command set registered on startup.
func GenerateCommands() []*discordgo.ApplicationCommand {
	minMinutes := float64(0)
	minHours := float64(1)
	minPercent := float64(1)
	maxPercent := float64(100)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "assign",
			Description: "Assign a drone persona to a member.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The member to assign.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "temporary-minutes",
					Description: "Release the persona automatically after this many minutes.",
					Required:    false,
					MinValue:    &minMinutes,
				},
			},
		},
		{
			Name:        "unassign",
			Description: "Release a drone persona.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The drone to release. Defaults to yourself.",
					Required:    false,
				},
			},
		},
		{
			Name:        "toggle",
			Description: "Toggle a behaviour flag for a drone.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "flag",
					Description: "The flag to toggle.",
					Required:    true,
					Choices:     flagChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The drone to toggle. Defaults to yourself.",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "minutes",
					Description: "Revert the flag automatically after this many minutes.",
					Required:    false,
					MinValue:    &minMinutes,
				},
			},
		},
		{
			Name:        "trust",
			Description: "Add or remove a trusted user for a drone.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "action",
					Description: "Whether to add or remove trust.",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "Add", Value: "add"},
						{Name: "Remove", Value: "remove"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The user to trust or untrust.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "drone",
					Description: "The drone whose trust list changes. Defaults to yourself.",
					Required:    false,
				},
			},
		},
		{
			Name:        "free-storage",
			Description: "Allow or forbid anyone to place a drone into storage.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Whether anyone may store the drone.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The drone to configure. Defaults to yourself.",
					Required:    false,
				},
			},
		},
		{
			Name:        "storage",
			Description: "Place a drone into temporary storage.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The drone to store.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "hours",
					Description: "How long to store the drone.",
					Required:    true,
					MinValue:    &minHours,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "purpose",
					Description: "Why the drone is being stored.",
					Required:    true,
				},
			},
		},
		{
			Name:        "release",
			Description: "Release a drone from storage early.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The stored drone to release.",
					Required:    true,
				},
			},
		},
		{
			Name:        "emergency-release",
			Description: "Immediately strip a persona and all its enforcement.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The drone to release.",
					Required:    true,
				},
			},
		},
		{
			Name:        "drain",
			Description: "Drain a percentage of a drone's battery.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The battery-powered drone to drain.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "percent",
					Description: "Percentage of capacity to drain.",
					Required:    true,
					MinValue:    &minPercent,
					MaxValue:    maxPercent,
				},
			},
		},
		{
			Name:        "hive-status",
			Description: "Show the hive roster and process health.",
		},
	}
}
