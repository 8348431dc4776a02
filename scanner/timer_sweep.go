package scanner

import (
	"time"

	"hivebot/utils/database"
)

// ProcessDueTimers reverts every flag whose timer has elapsed. Failures are
// logged per timer; the row stays and the next tick retries it.
func (s *Sweeper) ProcessDueTimers(now time.Time) {
	timers, err := database.DueTimers(s.DB, now)
	if err != nil {
		s.Log.Error().Err(err).Msg("failed to load due timers")
		return
	}

	for _, t := range timers {
		if err := s.Hive.ExpireTimer(t); err != nil {
			s.Log.Error().Err(err).
				Str("timer", t.ID).
				Str("flag", string(t.Flag)).
				Msg("failed to expire timer")
		}
	}
}
