// Package mod - /ban command
package mod

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/PancyStudios/BeamBotGo/pkg/store"
	"github.com/bwmarrin/discordgo"
)

type targetArgs struct {
	User   *discordgo.User
	Reason string
}

// parseTargetArgs reads the user and optional reason shared by ban, kick and warn
func parseTargetArgs(ctx *discord.CommandContext) (targetArgs, error) {
	user, err := ctx.ArgUser("user")
	if err != nil {
		return targetArgs{}, err
	}
	return targetArgs{
		User:   user,
		Reason: ctx.OptString("reason", store.DefaultReason),
	}, nil
}

// createBanCommand creates the /ban command
func createBanCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"ban",
		"Ban a user",
		"mod",
		banHandler(svc),
	).WithOptions(
		shared.UserOption("The user to ban"),
		shared.ReasonOption("Reason for ban"),
	).RequirePermission(discordgo.PermissionBanMembers).
		WithHelp("Ban a user", "Use `/ban <user> [reason]` to ban a user. Requires Moderator role or Ban Members permission.")
}

func banHandler(svc *shared.Services) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		args, err := parseTargetArgs(ctx)
		if err != nil {
			return err
		}

		if err := ctx.Gateway.Ban(ctx.GuildID(), args.User.ID, args.Reason); err != nil {
			return ctx.Fail("Failed to ban user.", err)
		}

		svc.Publish(ctx, modlog.Event{Type: modlog.EventBan, TargetID: args.User.ID, Reason: args.Reason})
		return ctx.ReplyEmbed(shared.Embed(
			"User Banned",
			fmt.Sprintf("Banned %s for: %s", shared.Mention(args.User.ID), args.Reason),
			shared.ColorDanger,
		))
	}
}
