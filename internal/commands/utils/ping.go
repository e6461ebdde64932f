package utils

import (
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
)

// createPingCommand creates the /ping command
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Check if the bot is alive",
		"utils",
		pingHandler,
	).AsPublic().
		WithHelp("Check if bot is alive", "Use `/ping` to check bot responsiveness.")
}

func pingHandler(ctx *discord.CommandContext) error {
	return ctx.ReplyEphemeral("Pong!")
}
