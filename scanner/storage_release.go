package scanner

import (
	"time"

	"hivebot/utils/database"
)

// ProcessDueStorage releases every storage hold whose deadline has passed.
// A release that fails on the platform side keeps its record; the next tick
// retries the role restore.
func (s *Sweeper) ProcessDueStorage(now time.Time) {
	records, err := database.DueStorage(s.DB, now)
	if err != nil {
		s.Log.Error().Err(err).Msg("failed to load due storage records")
		return
	}

	for i := range records {
		r := &records[i]
		if err := s.Hive.ReleaseFromStorage(r); err != nil {
			s.Log.Error().Err(err).
				Int64("storage", r.ID).
				Str("target", r.TargetID).
				Msg("failed to release storage")
		}
	}
}
