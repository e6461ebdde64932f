// Package main provides a utility to sync Discord slash commands.
// It removes stale commands from Discord so only the current catalogue is
// registered.
//
// Usage:
//
//	sync-commands [list|clean|sync] [--guild <id>]
package main

import (
	"fmt"
	"os"

	"github.com/PancyStudios/BeamBotGo/internal/commands"
	"github.com/PancyStudios/BeamBotGo/internal/commands/guides"
	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/config"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/PancyStudios/BeamBotGo/pkg/store"
	"github.com/spf13/cobra"
)

var guildID string

var rootCmd = &cobra.Command{
	Use:   "sync-commands",
	Short: "Manage the bot's registered slash commands",
	Long: `Manage the slash commands Discord has registered for the bot.

Available subcommands:
  list  - List registered commands
  clean - Remove every registered command
  sync  - Replace registered commands with the current catalogue (default)`,
	RunE: runSync,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered commands",
	RunE:  runList,
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all commands without registering new ones",
	RunE:  runClean,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Remove stale commands and register the current ones",
	RunE:  runSync,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&guildID, "guild", "", "Target a specific guild (leave empty for global)")
	rootCmd.AddCommand(listCmd, cleanCmd, syncCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect opens a session with the full catalogue registered locally
func connect() (*discord.ExtendedClient, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	logger.System("Starting command sync utility...", "SyncCommands")

	client, err := discord.NewClient(cfg.BotToken)
	if err != nil {
		log.Close()
		return nil, nil, fmt.Errorf("create Discord client: %w", err)
	}

	// Handlers never run here, so throwaway stores are enough
	content, err := guides.Default()
	if err != nil {
		log.Close()
		return nil, nil, err
	}
	svc := &shared.Services{
		Config:   store.NewJSONConfigStore(os.TempDir()),
		Warnings: store.NewMemoryWarningStore(),
	}
	if err := commands.RegisterAll(client, svc, content); err != nil {
		log.Close()
		return nil, nil, fmt.Errorf("register commands: %w", err)
	}

	if err := client.Session.Open(); err != nil {
		log.Close()
		return nil, nil, fmt.Errorf("connect to Discord: %w", err)
	}
	logger.Success("Connected to Discord", "SyncCommands")

	return client, func() {
		_ = client.Session.Close()
		log.Close()
	}, nil
}

func scope() string {
	if guildID != "" {
		return "guild " + guildID
	}
	return "global"
}

func runList(_ *cobra.Command, _ []string) error {
	client, closeFn, err := connect()
	if err != nil {
		return err
	}
	defer closeFn()

	logger.Info("📋 Listing "+scope()+" commands...", "SyncCommands")
	cmds, err := client.CommandHandler.ListCommands(guildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error fetching commands: %v", err), "SyncCommands")
		return err
	}

	if len(cmds) == 0 {
		logger.Info("No commands registered", "SyncCommands")
		return nil
	}

	logger.Info(fmt.Sprintf("Commands found: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "SyncCommands")
	}
	return nil
}

func runClean(_ *cobra.Command, _ []string) error {
	client, closeFn, err := connect()
	if err != nil {
		return err
	}
	defer closeFn()

	logger.Info("🧹 Removing "+scope()+" commands...", "SyncCommands")
	if _, err := client.CommandHandler.UnregisterCommands(guildID); err != nil {
		logger.Error(fmt.Sprintf("Error removing commands: %v", err), "SyncCommands")
		return err
	}
	return nil
}

func runSync(_ *cobra.Command, _ []string) error {
	client, closeFn, err := connect()
	if err != nil {
		return err
	}
	defer closeFn()

	logger.Info("🔄 Syncing "+scope()+" commands...", "SyncCommands")
	n, err := client.CommandHandler.SyncCommands(guildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error syncing commands: %v", err), "SyncCommands")
		return err
	}
	logger.Success(fmt.Sprintf("✅ Synced %d command(s)", n), "SyncCommands")
	return nil
}
