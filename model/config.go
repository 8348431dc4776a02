package model

// Config is the process-wide configuration, assembled from environment
// variables and the hive config file.
type Config struct {
	BotToken      string
	AppID         string
	GuildID       string
	HiveMxtressID string
	DBPath        string
	LogLevel      string

	Hive HiveConfig
}

// HiveConfig is the guild-specific configuration loaded from
// data/hive_config.json.
type HiveConfig struct {
	// Role granted to every assigned drone.
	DroneRoleID string `mapstructure:"drone_role_id"`
	// Role granted while a drone is held in storage.
	StoredRoleID string `mapstructure:"stored_role_id"`
	// Roles allowed to run moderation-level commands.
	ModerationRoleIDs []string `mapstructure:"moderation_role_ids"`
	// Role IDs granted per enforced flag, keyed by Flag value.
	FlagRoleIDs map[string]string `mapstructure:"flag_role_ids"`
	// Drone IDs never handed out by the random roll.
	ReservedDroneIDs []string `mapstructure:"reserved_drone_ids"`
	// Channels where drones must use the speech-code format.
	EnforcedChannelIDs []string `mapstructure:"enforced_channel_ids"`
	// Channel receiving storage requests and release notices.
	StorageChannelID string `mapstructure:"storage_channel_id"`
	// Channel for the rotating hive status report.
	StatusChannelID string `mapstructure:"status_channel_id"`
	// Avatar applied to identity-enforced drones and proxy notices.
	EnforcedAvatarURL string `mapstructure:"enforced_avatar_url"`
	// Longest storage hold a request may ask for.
	MaxStorageHours int `mapstructure:"max_storage_hours"`
}

// FlagRoleID returns the role granted for the given flag, if configured.
func (h *HiveConfig) FlagRoleID(f Flag) (string, bool) {
	id, ok := h.FlagRoleIDs[string(f)]
	return id, ok && id != ""
}

// EnforcedChannel reports whether the channel mandates the speech-code format.
func (h *HiveConfig) EnforcedChannel(channelID string) bool {
	for _, id := range h.EnforcedChannelIDs {
		if id == channelID {
			return true
		}
	}
	return false
}
