package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dgb-go/cogs"
	"dgb-go/games/duck"
	"dgb-go/utils"

	"github.com/bwmarrin/discordgo"
)

var (
	session   *discordgo.Session
	botStatus = "starting"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Start HTTP server for platform health checks
	go startHealthServer(cfg.Port)

	store, err := utils.OpenStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Ledger setup failed: %v", err)
	}
	defer store.Close()

	// Any game_active flags left over from a previous crash would lock those
	// players out of the game forever.
	if n, err := store.ClearActiveFlags(context.Background()); err != nil {
		log.Printf("Startup flag sweep failed: %v", err)
	} else if n > 0 {
		log.Printf("Cleared %d stale game session flag(s)", n)
	}

	duck.Setup(store)
	cogs.Setup(store, duck.GameManager())

	session, err = discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages

	session.AddHandler(makeReadyHandler(cfg.GuildID))
	session.AddHandler(onInteractionCreate)
	session.AddHandler(onButtonInteraction)

	if err := session.Open(); err != nil {
		log.Fatalf("Failed to open Discord connection: %v", err)
	}
	defer session.Close()

	log.Println("Bot is now running. Press CTRL+C to exit.")
	botStatus = "running"

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop

	log.Println("Gracefully shutting down...")
	botStatus = "shutting_down"
}

func makeReadyHandler(guildID string) func(*discordgo.Session, *discordgo.Ready) {
	return func(s *discordgo.Session, event *discordgo.Ready) {
		log.Printf("Logged in as %s (ID: %s)", event.User.Username, event.User.ID)
		botStatus = "online"

		if err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
			Activities: []*discordgo.Activity{
				{Name: "the duck cross the road", Type: discordgo.ActivityTypeWatching},
			},
			Status: "online",
		}); err != nil {
			log.Printf("Failed to update status: %v", err)
		}

		if err := registerSlashCommands(s, guildID); err != nil {
			log.Printf("Failed to register slash commands: %v", err)
		}
	}
}

// registerSlashCommands registers against one guild when GUILD_ID is set
// (instant, for development) or globally otherwise.
func registerSlashCommands(s *discordgo.Session, guildID string) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Check bot latency and status",
		},
		duck.RegisterDuckCommand(),
	}
	commands = append(commands, cogs.RegisterEconomyCommands()...)

	for _, command := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, command); err != nil {
			return fmt.Errorf("failed to create command %s: %w", command.Name, err)
		}
	}

	log.Printf("Successfully registered %d slash commands", len(commands))
	return nil
}

func onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		return
	}

	switch name := i.ApplicationCommandData().Name; name {
	case "ping":
		handlePingCommand(s, i)
	case "duck":
		duck.HandleDuckCommand(s, i)
	default:
		cogs.HandleEconomyCommand(s, i)
	}
}

func onButtonInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		return
	}

	if strings.HasPrefix(i.MessageComponentData().CustomID, "duck_") {
		duck.HandleDuckButton(s, i)
	}
}

func handlePingCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := utils.CreateBrandedEmbed("Pong!", "", utils.BotColor)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Latency", Value: fmt.Sprintf("%dms", s.HeartbeatLatency().Milliseconds()), Inline: true},
		{Name: "Status", Value: botStatus, Inline: true},
	}
	_ = utils.SendInteractionResponse(s, i, embed, nil, false)
}

func startHealthServer(port string) {
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Discord Bot Status: %s", botStatus)
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","service":"duck-game-bot","bot_status":"%s","time":"%s"}`,
			botStatus, time.Now().UTC().Format(time.RFC3339))
	})

	log.Printf("Health server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("Health server error: %v", err)
	}
}
