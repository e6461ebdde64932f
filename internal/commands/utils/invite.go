package utils

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
)

// inviteURL asks for Administrator and both the bot and commands scopes
const inviteURL = "https://discord.com/api/oauth2/authorize?client_id=%s&permissions=8&scope=bot%%20applications.commands"

// createInviteCommand creates the /invite command
func createInviteCommand() *discord.Command {
	return discord.NewCommand(
		"invite",
		"Get the bot invite link",
		"utils",
		inviteHandler,
	).AsPublic().
		WithHelp("Get bot invite link", "Use `/invite` to get a link to add the bot to your server.")
}

func inviteHandler(ctx *discord.CommandContext) error {
	bot := ctx.Gateway.BotUser()
	if bot == nil {
		return fmt.Errorf("invite: bot user not known yet")
	}
	link := fmt.Sprintf(inviteURL, bot.ID)
	return ctx.ReplyEphemeralEmbed(shared.Embed(
		"Invite Me!",
		fmt.Sprintf("Add me to your server using [this invite link](%s).", link),
		shared.ColorSuccess,
	))
}
