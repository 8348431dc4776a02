package main

import (
	"os"
	"path/filepath"

	"hivebot/bot"
	"hivebot/config"
	"hivebot/handlers"
	"hivebot/logger"
	"hivebot/utils/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New("hivebot", cfg.LogLevel)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), os.ModePerm); err != nil {
		log.Fatal().Err(err).Msg("failed to create data directory")
	}

	db, err := database.Init(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	b, err := bot.New(cfg, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}
	defer b.Close()

	handlers.Register(b)

	if err := b.Run(); err != nil {
		log.Fatal().Err(err).Msg("failed to run bot")
	}
}
