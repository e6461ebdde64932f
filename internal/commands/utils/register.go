// Package utils provides the informational commands: ping, help, usage,
// uptime, invite and server info.
package utils

import (
	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
)

// Commands returns the top-level utility commands
func Commands() []*discord.Command {
	return []*discord.Command{
		createPingCommand(),
		createHelpCommand(),
		createUsageCommand(),
		createUptimeCommand(),
		createInviteCommand(),
	}
}

// Groups returns the utility command groups
func Groups() []shared.Group {
	return []shared.Group{getServerGroup()}
}
