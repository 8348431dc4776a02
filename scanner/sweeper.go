// Package scanner runs the background sweeps: timer expiry, storage release,
// temporary-assignment expiry, battery drain, and runtime-state pruning. Each
// sweep reloads its working set from the database on every tick and tolerates
// rows that a concurrent command already handled.
package scanner

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"hivebot/hive"
	"hivebot/state"
)

// PresenceSession updates the bot's own presence line.
type PresenceSession interface {
	UpdateGameStatus(idle int, name string) error
}

// Sweeper owns the periodic maintenance loops.
type Sweeper struct {
	Hive     *hive.Hive
	DB       *sqlx.DB
	State    *state.Runtime
	Presence PresenceSession
	Log      zerolog.Logger

	Now func() time.Time
}

// New builds a sweeper with the real clock.
func New(h *hive.Hive, st *state.Runtime, p PresenceSession, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		Hive:     h,
		DB:       h.DB,
		State:    st,
		Presence: p,
		Log:      log.With().Str("component", "scanner").Logger(),
		Now:      time.Now,
	}
}

// Run drives all sweeps until done closes. Expiry checks and the battery tick
// run every minute, presence refreshes every ten, and the in-process state is
// pruned hourly.
func (s *Sweeper) Run(done <-chan struct{}) {
	minuteTicker := time.NewTicker(1 * time.Minute)
	presenceTicker := time.NewTicker(10 * time.Minute)
	pruneTicker := time.NewTicker(1 * time.Hour)
	defer minuteTicker.Stop()
	defer presenceTicker.Stop()
	defer pruneTicker.Stop()

	s.UpdatePresence()

	for {
		select {
		case <-minuteTicker.C:
			now := s.Now()
			s.ProcessDueTimers(now)
			s.ProcessDueStorage(now)
			s.ProcessTemporaryAssignments(now)
			s.ProcessBatteryTick(now)
		case <-presenceTicker.C:
			s.UpdatePresence()
		case <-pruneTicker.C:
			s.State.Prune(s.Now())
		case <-done:
			return
		}
	}
}
