// Package mod - /kick command
package mod

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/PancyStudios/BeamBotGo/pkg/store"
	"github.com/bwmarrin/discordgo"
)

type kickArgs struct {
	Member *discordgo.Member
	Reason string
}

func parseKickArgs(ctx *discord.CommandContext) (kickArgs, error) {
	member, err := ctx.ArgMember("user")
	if err != nil {
		return kickArgs{}, err
	}
	return kickArgs{Member: member, Reason: ctx.OptString("reason", store.DefaultReason)}, nil
}

// createKickCommand creates the /kick command
func createKickCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"kick",
		"Kick a user",
		"mod",
		kickHandler(svc),
	).WithOptions(
		shared.UserOption("The user to kick"),
		shared.ReasonOption("Reason for kick"),
	).RequirePermission(discordgo.PermissionKickMembers).
		WithHelp("Kick a user", "Use `/kick <user> [reason]` to kick a user. Requires Moderator role or Kick Members permission.")
}

func kickHandler(svc *shared.Services) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		args, err := parseKickArgs(ctx)
		if err != nil {
			return err
		}
		userID := args.Member.User.ID

		if err := ctx.Gateway.Kick(ctx.GuildID(), userID, args.Reason); err != nil {
			return ctx.Fail("Failed to kick user.", err)
		}

		svc.Publish(ctx, modlog.Event{Type: modlog.EventKick, TargetID: userID, Reason: args.Reason})
		return ctx.ReplyEmbed(shared.Embed(
			"User Kicked",
			fmt.Sprintf("Kicked %s for: %s", shared.Mention(userID), args.Reason),
			shared.ColorDanger,
		))
	}
}
