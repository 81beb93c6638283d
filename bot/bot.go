package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"macro-bot/config"
	"macro-bot/database"
	"macro-bot/macro"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Command defines the interface for a bot command.
type Command interface {
	Definition() *discordgo.ApplicationCommand
}

// Bot encapsulates the bot's state: the Discord session, the macro
// store, and the shared trigger index.
type Bot struct {
	Session  *discordgo.Session
	Store    *database.MacroDB
	Index    *macro.Index
	Commands map[string]Command
}

// NewBot creates and initializes a new Bot instance.
func NewBot() (*Bot, error) {
	config.LoadConfig()
	token := viper.GetString("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	// MessageContent is needed to read trigger phrases, DirectMessages
	// to deliver dm-flagged responses.
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	dbPath := viper.GetString("macro.dbPath")
	if dbPath == "" {
		dbPath = "data/macros.db"
	}
	store, err := database.InitDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening macro database: %w", err)
	}

	return &Bot{
		Session:  dg,
		Store:    store,
		Index:    macro.NewIndex(),
		Commands: make(map[string]Command),
	}, nil
}

// RefreshIndex rebuilds the trigger index from the store. Called once
// at startup, after every macro mutation, and hourly by the scheduler.
func (b *Bot) RefreshIndex() error {
	macros, err := b.Store.GetAll("")
	if err != nil {
		return fmt.Errorf("error loading macros for index rebuild: %w", err)
	}
	b.Index.Rebuild(macros)
	return nil
}

// RegisterCommands registers the provided commands.
func (b *Bot) RegisterCommands(commands []Command) {
	for _, cmd := range commands {
		b.Commands[cmd.Definition().Name] = cmd
	}
}

// Start opens the bot's session and registers handlers.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	if err := b.RefreshIndex(); err != nil {
		return err
	}

	err := b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands
	for _, cmd := range b.Commands {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", cmd.Definition())
		if err != nil {
			log.Printf("Cannot create '%v' command: %v", cmd.Definition().Name, err)
		}
	}

	startScheduler(b)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully closes the bot's session and the macro store.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	if b.Store != nil {
		b.Store.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), commands []Command) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	bot.RegisterCommands(commands)

	if err := bot.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
