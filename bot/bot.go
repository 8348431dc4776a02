package bot

import (
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"hivebot/commands"
	"hivebot/config"
	"hivebot/hive"
	"hivebot/model"
	"hivebot/pipeline"
	"hivebot/scanner"
	"hivebot/state"
)

type Bot struct {
	Session            *discordgo.Session
	DB                 *sqlx.DB
	Log                zerolog.Logger
	State              *state.Runtime
	Hive               *hive.Hive
	Emitter            *pipeline.Emitter
	Sweeper            *scanner.Sweeper
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	RegisteredCommands []*discordgo.ApplicationCommand

	config atomic.Value // *model.Config
	done   chan struct{}
	wg     sync.WaitGroup
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func New(cfg *model.Config, db *sqlx.DB, log zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent
	dg.StateEnabled = true

	b := &Bot{
		Session: dg,
		DB:      db,
		Log:     log,
		State:   state.NewRuntime(),
		done:    make(chan struct{}),
	}
	b.config.Store(cfg)

	b.Emitter = pipeline.NewEmitter(dg, log)
	b.Hive = hive.New(db, dg, b.Emitter, cfg, log)
	b.Sweeper = scanner.New(b.Hive, b.State, dg, log)

	return b, nil
}

func (b *Bot) Close() {
	b.Log.Info().Msg("shutting down")
	close(b.done)
	b.wg.Wait()
	if err := b.Session.Close(); err != nil {
		b.Log.Error().Err(err).Msg("failed to close session")
	}
}

// RefreshCommands overwrites the guild's slash command set with the current
// definitions.
func (b *Bot) RefreshCommands() {
	cfg := b.GetConfig()
	cmds := commands.GenerateCommands()

	registered, err := b.Session.ApplicationCommandBulkOverwrite(cfg.AppID, cfg.GuildID, cmds)
	if err != nil {
		b.Log.Error().Err(err).Str("guild", cfg.GuildID).Msg("failed to register commands")
		return
	}
	b.RegisteredCommands = registered
	b.Log.Info().Int("count", len(registered)).Msg("registered commands")
}

// ReloadConfig re-reads the environment and hive config file and swaps the
// active configuration.
func (b *Bot) ReloadConfig() error {
	newCfg, err := config.Load()
	if err != nil {
		b.Log.Error().Err(err).Msg("failed to reload config")
		return err
	}

	b.config.Store(newCfg)
	b.Hive.Cfg = newCfg
	b.Log.Info().Msg("configuration reloaded")

	b.RefreshCommands()
	return nil
}
