// Package mod - /warn command
package mod

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /warn command
func createWarnCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"warn",
		"Warn a user",
		"mod",
		warnHandler(svc),
	).WithOptions(
		shared.UserOption("The user to warn"),
		shared.ReasonOption("Reason for warning"),
	).RequirePermission(discordgo.PermissionModerateMembers).
		WithHelp("Warn a user", "Use `/warn <user> [reason]` to warn a user. Requires Moderator role or Moderate Members permission.")
}

func warnHandler(svc *shared.Services) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		args, err := parseTargetArgs(ctx)
		if err != nil {
			return err
		}

		gctx, cancel := shared.StoreContext()
		defer cancel()

		if _, err := svc.Warnings.AddWarning(gctx, ctx.GuildID(), args.User.ID, args.Reason, ctx.User().ID); err != nil {
			return ctx.Fail("Failed to warn user.", err)
		}
		warnings, err := svc.Warnings.Warnings(gctx, ctx.GuildID(), args.User.ID)
		if err != nil {
			return ctx.Fail("Failed to warn user.", err)
		}

		embed := shared.Embed(
			"User Warned",
			fmt.Sprintf("Warned %s for: %s\nTotal Warnings: %d", shared.Mention(args.User.ID), args.Reason, len(warnings)),
			shared.ColorDanger,
		)

		if err := ctx.Gateway.DirectMessage(args.User.ID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{shared.Embed(
				"Warned in "+guildName(ctx),
				"**Reason:** "+args.Reason,
				shared.ColorDanger,
			)},
		}); err != nil {
			logger.Debug(fmt.Sprintf("Could not DM %s: %v", args.User.ID, err), "Warn")
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Note",
				Value: "Could not send DM to user.",
			})
		}

		svc.Publish(ctx, modlog.Event{
			Type:     modlog.EventWarn,
			TargetID: args.User.ID,
			Reason:   args.Reason,
			Detail:   fmt.Sprintf("total %d", len(warnings)),
		})
		return ctx.ReplyEmbed(embed)
	}
}

// guildName falls back to the guild ID when the guild cannot be fetched
func guildName(ctx *discord.CommandContext) string {
	g, err := ctx.Gateway.Guild(ctx.GuildID())
	if err != nil || g == nil || g.Name == "" {
		return ctx.GuildID()
	}
	return g.Name
}
