// Package fun provides the dice, coin and poll commands.
package fun

import (
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
)

// Commands returns every fun command
func Commands() []*discord.Command {
	return []*discord.Command{
		createDiceCommand(),
		createCoinCommand(),
		createPollCommand(),
	}
}
