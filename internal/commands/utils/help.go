package utils

import (
	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createHelpCommand creates the /help command
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"List all available commands",
		"utils",
		helpHandler,
	).AsPublic().
		WithHelp("List all commands", "Use `/help` to see all available commands.")
}

// helpHandler lists every registered command with its summary
func helpHandler(ctx *discord.CommandContext) error {
	entries := ctx.Client.CommandHandler.HelpEntries()

	embed := shared.Embed("Bot Commands", "Here are all available commands:", shared.ColorSuccess)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Use /usage for detailed help! " + shared.Footer}
	for _, e := range entries {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   e.Name,
			Value:  e.Description,
			Inline: true,
		})
	}
	return ctx.ReplyEphemeralEmbed(embed)
}
