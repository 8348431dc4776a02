package scanner

import (
	"fmt"

	"hivebot/utils/database"
)

// UpdatePresence refreshes the bot's presence line with the live drone count.
func (s *Sweeper) UpdatePresence() {
	if s.Presence == nil {
		return
	}

	drones, err := database.ListDrones(s.DB)
	if err != nil {
		s.Log.Error().Err(err).Msg("failed to count drones for presence")
		return
	}

	status := fmt.Sprintf("the Hive :: %d drones", len(drones))
	if len(drones) == 1 {
		status = "the Hive :: 1 drone"
	}
	if err := s.Presence.UpdateGameStatus(0, status); err != nil {
		s.Log.Error().Err(err).Msg("failed to update presence")
	}
}
