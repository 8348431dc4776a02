// Package config assembles the process configuration from environment
// variables and the hive config file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"hivebot/model"
)

// Load reads the environment and data/hive_config.json into a Config.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		return nil, fmt.Errorf("APP_ID environment variable not set")
	}

	guildID := os.Getenv("GUILD_ID")
	if guildID == "" {
		return nil, fmt.Errorf("GUILD_ID environment variable not set")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/hive.db"
	}

	cfg := &model.Config{
		BotToken:      token,
		AppID:         appID,
		GuildID:       guildID,
		HiveMxtressID: os.Getenv("HIVE_MXTRESS_ID"),
		DBPath:        dbPath,
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}

	if err := loadHiveConfig(&cfg.Hive); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadHiveConfig(hc *model.HiveConfig) error {
	v := viper.New()
	v.SetConfigName("hive_config")
	v.SetConfigType("json")
	v.AddConfigPath("data")

	v.SetDefault("max_storage_hours", 24)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read hive config: %w", err)
	}
	if err := v.Unmarshal(hc); err != nil {
		return fmt.Errorf("failed to parse hive config: %w", err)
	}
	return nil
}
