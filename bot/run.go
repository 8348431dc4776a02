package bot

import (
	"os"
	"os/signal"
	"syscall"
)

// Run opens the gateway connection, registers commands, starts the background
// sweeps, and blocks until the process receives a termination signal.
func (b *Bot) Run() error {
	if err := b.Session.Open(); err != nil {
		return err
	}

	b.RefreshCommands()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.Sweeper.Run(b.done)
	}()

	b.Log.Info().Msg("bot is now running, press CTRL-C to exit")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	return nil
}
