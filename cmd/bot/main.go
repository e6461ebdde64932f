// Package main is the entry point for the BeamBot Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/BeamBotGo/internal/commands"
	"github.com/PancyStudios/BeamBotGo/internal/commands/guides"
	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/internal/events"
	"github.com/PancyStudios/BeamBotGo/internal/prefix"
	"github.com/PancyStudios/BeamBotGo/pkg/config"
	"github.com/PancyStudios/BeamBotGo/pkg/database"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/errors"
	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/PancyStudios/BeamBotGo/pkg/mqtt"
	"github.com/PancyStudios/BeamBotGo/pkg/store"
	"github.com/PancyStudios/BeamBotGo/pkg/web"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Starting BeamBot Go %s...", config.Version), "Main")
	logger.Info(fmt.Sprintf("Working directory: %s", getCurrentDir()), "Main")

	if cfg.BotToken == "" {
		logger.Critical("DISCORD_TOKEN is not set", "Main")
		os.Exit(1)
	}

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})

	// Per-server configuration is always file backed
	configStore := store.NewJSONConfigStore(cfg.DataDir)

	// Warnings live in memory unless MongoDB is selected
	var warnings store.WarningStore = store.NewMemoryWarningStore()
	var db *database.Database
	if cfg.UseMongoWarnings() {
		db, err = database.Init(cfg.MongoDBURL, cfg.DBName)
		if err != nil {
			// Continue; the database keeps reconnecting in the background
			logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		}
		database.InitGlobalDataManagers(db)
		warnings = store.NewMongoWarningStore(database.GlobalWarnDM)
		defer func() {
			if err := db.Disconnect(); err != nil {
				logger.Warn(fmt.Sprintf("Error disconnecting database: %v", err), "Main")
			}
		}()
	}

	// Moderation events fan out to MQTT and, with FEED_TOKEN, the web feed
	bus := modlog.NewBus()
	defer bus.Close()

	if cfg.MQTTEnabled() {
		mqttClientID := "beambot"
		if !cfg.IsProd() {
			mqttClientID = "beambot_canary"
		}
		mqttClient := mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)
		stopForward := mqttClient.ForwardModLog(bus, cfg.MQTTTopic)
		defer mqttClient.Destroy()
		defer stopForward()
	}

	content, err := guides.Default()
	if err != nil {
		logger.Critical(fmt.Sprintf("Error loading guides: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	svc := &shared.Services{
		Config:   configStore,
		Warnings: warnings,
		Events:   bus,
	}
	if err := commands.RegisterAll(discordClient, svc, content); err != nil {
		logger.Critical(fmt.Sprintf("Error registering commands: %v", err), "Main")
		os.Exit(1)
	}

	dispatcher := prefix.New(discordClient.Gateway, configStore, discordClient.CommandHandler.HelpEntries, bus)
	events.RegisterAll(discordClient, dispatcher)

	// Initialize web server
	webServer := web.Init(cfg.LogsWebhook).
		WithBot(discordClient).
		WithDatabase(db)
	if cfg.FeedEnabled() {
		webServer.WithFeed(bus, cfg.FeedToken)
	} else {
		logger.Info("FEED_TOKEN not set, moderation feed disabled", "Main")
	}
	web.SetupRoutes(webServer)
	webServer.StartAsync(cfg.Port)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}

	logger.Success("BeamBot Go started!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Shutting down BeamBot Go...", "Main")

	discordClient.EventHandler.RemoveAll()
	if err := discordClient.Stop(); err != nil {
		logger.Warn(fmt.Sprintf("Error closing Discord session: %v", err), "Main")
	}
	if err := webServer.Shutdown(shutdownTimeout); err != nil {
		logger.Warn(fmt.Sprintf("Error stopping web server: %v", err), "Main")
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
