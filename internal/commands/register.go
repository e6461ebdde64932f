// Package commands assembles the slash command catalogue. Commands live in
// subdirectories by category (guides, mod, settings, utils, fun).
package commands

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/fun"
	"github.com/PancyStudios/BeamBotGo/internal/commands/guides"
	"github.com/PancyStudios/BeamBotGo/internal/commands/mod"
	"github.com/PancyStudios/BeamBotGo/internal/commands/settings"
	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/internal/commands/utils"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
)

// Catalogue is the registration order, which is also the order of /help
// and /usage
var Catalogue = []string{
	"tutorials", "method",
	"ban", "kick", "mute", "uptime", "warn", "clear",
	"ping", "help", "invite", "getserver",
	"warnings", "clearwarnings", "unmute",
	"cw", "ucw", "cwl", "prefix", "usage",
	"lock", "unlock", "dice", "coin",
	"role", "audit", "say", "poll",
}

// RegisterAll registers every command with the client in catalogue order
func RegisterAll(client *discord.ExtendedClient, svc *shared.Services, content *guides.Content) error {
	commands := make(map[string]*discord.Command)
	groups := make(map[string]shared.Group)

	var all []*discord.Command
	all = append(all, guides.Commands(content)...)
	all = append(all, mod.Commands(svc)...)
	all = append(all, settings.Commands(svc)...)
	all = append(all, utils.Commands()...)
	all = append(all, fun.Commands()...)
	for _, cmd := range all {
		commands[cmd.Name] = cmd
	}

	var allGroups []shared.Group
	allGroups = append(allGroups, settings.Groups(svc)...)
	allGroups = append(allGroups, utils.Groups()...)
	for _, g := range allGroups {
		groups[g.Name] = g
	}

	if len(commands)+len(groups) != len(Catalogue) {
		return fmt.Errorf("catalogue lists %d commands, categories provide %d", len(Catalogue), len(commands)+len(groups))
	}

	for _, name := range Catalogue {
		if cmd, ok := commands[name]; ok {
			if err := client.CommandHandler.RegisterCommand(cmd); err != nil {
				return fmt.Errorf("register /%s: %w", name, err)
			}
			continue
		}
		g, ok := groups[name]
		if !ok {
			return fmt.Errorf("register /%s: no category provides it", name)
		}
		if err := client.CommandHandler.RegisterGroup(g.Name, g.Description, g.Subcommands...); err != nil {
			return fmt.Errorf("register /%s: %w", name, err)
		}
	}
	return nil
}
