package utils

import "hivebot/model"

// Permission levels
const (
	MxtressPermission    = "mxtress"
	ModerationPermission = "moderation"
	MemberPermission     = "member"
)

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// CheckPermission resolves the highest permission level for a user given their
// role IDs and the guild configuration.
func CheckPermission(userRoleIDs []string, userID string, cfg *model.Config) string {
	if userID != "" && userID == cfg.HiveMxtressID {
		return MxtressPermission
	}

	for _, roleID := range userRoleIDs {
		if contains(cfg.Hive.ModerationRoleIDs, roleID) {
			return ModerationPermission
		}
	}

	return MemberPermission
}

// Privileged reports whether a permission level may act on any drone.
func Privileged(level string) bool {
	return level == MxtressPermission || level == ModerationPermission
}
