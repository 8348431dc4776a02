package scanner

import (
	"time"

	"hivebot/hive"
	"hivebot/utils/database"
)

// ProcessTemporaryAssignments releases every persona whose temporary
// assignment window has elapsed.
func (s *Sweeper) ProcessTemporaryAssignments(now time.Time) {
	drones, err := database.TemporaryDrones(s.DB, now)
	if err != nil {
		s.Log.Error().Err(err).Msg("failed to load expired temporary assignments")
		return
	}

	for _, d := range drones {
		if err := s.Hive.UnassignDrone(hive.Actor{Privileged: true}, d.DiscordID); err != nil {
			s.Log.Error().Err(err).
				Str("drone", d.DroneID).
				Msg("failed to release temporary assignment")
		}
	}
}
