package guides

import (
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createTutorialsCommand creates the /tutorials command
func createTutorialsCommand(c *Content) *discord.Command {
	return discord.NewCommand(
		"tutorials",
		"Get tutorials on how to beam",
		"guides",
		func(ctx *discord.CommandContext) error {
			option, err := ctx.ArgString("option")
			if err != nil {
				return err
			}
			pages, ok := c.Tutorials[option]
			if !ok {
				return discord.Invalid("Unknown tutorial: %s", option)
			}
			return ctx.Client.Paginator.Open(ctx, Embeds(pages), true)
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "option",
			Description: "Choose a tutorial type",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Private Server Tut", Value: "private"},
				{Name: "YouTube Tut", Value: "yt"},
				{Name: "Dual Hook Method", Value: "dual"},
			},
		},
	).AsPublic().
		WithHelp("Get tutorials on how to beam", "Use `/tutorials <option: private|yt|dual>` to get beaming tutorials.")
}

// createMethodCommand creates the /method command
func createMethodCommand(c *Content) *discord.Command {
	return discord.NewCommand(
		"method",
		"Get the main method guide",
		"guides",
		func(ctx *discord.CommandContext) error {
			return ctx.Client.Paginator.Open(ctx, Embeds(c.Method), true)
		},
	).AsPublic().
		WithHelp("Get the main method guide", "Use `/method` to get the main beaming guide.")
}
