// Package discord provides the command handler for loading and registering commands.
package discord

import (
	"fmt"
	"sync"

	"github.com/PancyStudios/BeamBotGo/pkg/config"
	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// HelpEntry is one line of /help and /usage
type HelpEntry struct {
	Name        string
	Description string
	Usage       string
}

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client *ExtendedClient

	mu            sync.RWMutex
	slashCommands []*discordgo.ApplicationCommand
	help          []HelpEntry
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:        client,
		slashCommands: make([]*discordgo.ApplicationCommand, 0),
	}
}

// RegisterCommand adds a top-level command
func (ch *CommandHandler) RegisterCommand(cmd *Command) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	if _, exists := ch.client.Commands.Get(cmd.Name); exists {
		return fmt.Errorf("command %q registered twice", cmd.Name)
	}

	ch.client.Commands.Set(cmd.Name, cmd)

	ch.mu.Lock()
	ch.slashCommands = append(ch.slashCommands, cmd.ToApplicationCommand())
	ch.addHelp("/"+cmd.Name, cmd)
	ch.mu.Unlock()

	logger.Debug("Registered command: "+cmd.Name, "CommandHandler")
	return nil
}

// RegisterGroup adds a command made of subcommands. Each subcommand is
// routed and gated on its own under "group.sub".
func (ch *CommandHandler) RegisterGroup(name, description string, subcommands ...*Command) error {
	if len(subcommands) == 0 {
		return fmt.Errorf("command group %q has no subcommands", name)
	}
	if _, exists := ch.client.Commands.Get(name); exists {
		return fmt.Errorf("command %q registered twice", name)
	}

	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))
	for _, cmd := range subcommands {
		if err := cmd.validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		})
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	for _, cmd := range subcommands {
		fullName := name + "." + cmd.Name
		ch.client.Commands.Set(fullName, cmd)
		ch.addHelp("/"+name+" "+cmd.Name, cmd)
		logger.Debug("Registered subcommand: "+fullName, "CommandHandler")
	}

	ch.slashCommands = append(ch.slashCommands, &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options:     options,
	})
	return nil
}

// addHelp must be called with ch.mu held
func (ch *CommandHandler) addHelp(name string, cmd *Command) {
	summary := cmd.Summary
	if summary == "" {
		summary = cmd.Description
	}
	ch.help = append(ch.help, HelpEntry{Name: name, Description: summary, Usage: cmd.Usage})
}

// HelpEntries returns help lines in registration order
func (ch *CommandHandler) HelpEntries() []HelpEntry {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	out := make([]HelpEntry, len(ch.help))
	copy(out, ch.help)
	return out
}

// ApplicationCommands returns the global command payloads
func (ch *CommandHandler) ApplicationCommands() []*discordgo.ApplicationCommand {
	ch.mu.RLock()
	defer ch.mu.RUnlock()
	out := make([]*discordgo.ApplicationCommand, len(ch.slashCommands))
	copy(out, ch.slashCommands)
	return out
}

func (ch *CommandHandler) appID() (string, error) {
	s := ch.client.Session
	if s == nil || s.State == nil || s.State.User == nil {
		return "", fmt.Errorf("session is not ready")
	}
	return s.State.User.ID, nil
}

// syncTargets lists the scopes RegisterCommands overwrites: global, then
// the dev guild where guild commands update instantly
func syncTargets(devGuildID string) []string {
	if devGuildID == "" {
		return []string{""}
	}
	return []string{"", devGuildID}
}

func scopeName(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}

// RegisterCommands overwrites the global commands with the catalogue, and
// the commands of DEV_GUILD_ID when set.
func (ch *CommandHandler) RegisterCommands() {
	for _, guildID := range syncTargets(config.Get().DevGuildID) {
		logger.Info("🔄 Syncing "+scopeName(guildID)+" commands...", "CommandHandler")
		n, err := ch.SyncCommands(guildID)
		if err != nil {
			logger.Error("Failed to sync "+scopeName(guildID)+" commands: "+err.Error(), "CommandHandler")
			continue
		}
		logger.Success(fmt.Sprintf("✅ Synced %d %s command(s)", n, scopeName(guildID)), "CommandHandler")
	}
}

// SyncCommands replaces the commands registered in guildID ("" for
// global) with the local catalogue. It returns how many were sent.
func (ch *CommandHandler) SyncCommands(guildID string) (int, error) {
	appID, err := ch.appID()
	if err != nil {
		return 0, err
	}

	cmds := ch.ApplicationCommands()
	created, err := ch.client.Session.ApplicationCommandBulkOverwrite(appID, guildID, cmds)
	if err != nil {
		return 0, err
	}
	return len(created), nil
}

// ListCommands returns the commands Discord has registered in guildID
func (ch *CommandHandler) ListCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	appID, err := ch.appID()
	if err != nil {
		return nil, err
	}
	return ch.client.Session.ApplicationCommands(appID, guildID)
}

// UnregisterCommands removes every command registered in guildID
func (ch *CommandHandler) UnregisterCommands(guildID string) (int, error) {
	appID, err := ch.appID()
	if err != nil {
		return 0, err
	}

	commands, err := ch.client.Session.ApplicationCommands(appID, guildID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, cmd := range commands {
		if err := ch.client.Session.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			logger.Error("Failed to delete command "+cmd.Name+": "+err.Error(), "CommandHandler")
			continue
		}
		removed++
	}

	logger.Success(fmt.Sprintf("Removed %d command(s)", removed), "CommandHandler")
	return removed, nil
}
