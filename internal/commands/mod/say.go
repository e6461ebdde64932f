// Package mod - /say command
package mod

import (
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createSayCommand creates the /say command
func createSayCommand() *discord.Command {
	return discord.NewCommand(
		"say",
		"Make the bot say something",
		"mod",
		sayHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "The message",
			Required:    true,
		},
	).RequirePermission(discordgo.PermissionManageMessages).
		WithHelp("Bot says message", "Use `/say <message>` to make the bot send a message. Requires Moderator role or Manage Messages permission.")
}

func sayHandler(ctx *discord.CommandContext) error {
	message, err := ctx.ArgString("message")
	if err != nil {
		return err
	}

	// the text is echoed as-is, so it must not ping anyone
	_, err = ctx.Gateway.SendMessage(ctx.ChannelID(), &discordgo.MessageSend{
		Content:         message,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	})
	if err != nil {
		return ctx.Fail("Failed to send message. Check permissions.", err)
	}
	return ctx.ReplyEphemeral("Message sent.")
}
