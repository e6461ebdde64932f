// Package settings provides the per-server configuration commands: censored
// words and message prefixes.
package settings

import (
	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
)

// Commands returns the top-level settings commands
func Commands(svc *shared.Services) []*discord.Command {
	return []*discord.Command{
		createCensorCommand(svc),
		createUncensorCommand(svc),
		createCensorListCommand(svc),
	}
}

// Groups returns the settings command groups
func Groups(svc *shared.Services) []shared.Group {
	return []shared.Group{prefixGroup(svc)}
}
