// Package mod - /warnings and /clearwarnings commands
package mod

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /warnings command
func createWarningsCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"warnings",
		"View warnings for a user",
		"mod",
		warningsHandler(svc),
	).WithOptions(
		shared.UserOption("The user to check warnings for"),
	).RequirePermission(discordgo.PermissionModerateMembers).
		WithHelp("View user warnings", "Use `/warnings <user>` to see a user’s warnings. Requires Moderator role or Moderate Members permission.")
}

func warningsHandler(svc *shared.Services) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user, err := ctx.ArgUser("user")
		if err != nil {
			return err
		}

		gctx, cancel := shared.StoreContext()
		defer cancel()

		warnings, err := svc.Warnings.Warnings(gctx, ctx.GuildID(), user.ID)
		if err != nil {
			return ctx.Fail("Failed to fetch warnings.", err)
		}
		if len(warnings) == 0 {
			return ctx.ReplyEphemeral(fmt.Sprintf("%s has no warnings.", shared.Tag(user)))
		}

		embed := &discordgo.MessageEmbed{
			Title:  "Warnings for " + shared.Tag(user),
			Color:  shared.ColorDanger,
			Footer: shared.FooterWith(fmt.Sprintf("Total: %d warning(s)", len(warnings))),
		}
		for i, w := range warnings {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: fmt.Sprintf("Warning #%d", i+1),
				Value: fmt.Sprintf("**Reason:** %s\n**Moderator:** %s\n**Date:** %s",
					w.Reason, shared.Mention(w.ModeratorID), shared.RelativeTime(w.Timestamp)),
			})
		}
		return ctx.ReplyEphemeralEmbed(embed)
	}
}

// createClearWarningsCommand creates the /clearwarnings command
func createClearWarningsCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"clearwarnings",
		"Clear all warnings for a user",
		"mod",
		clearWarningsHandler(svc),
	).WithOptions(
		shared.UserOption("The user to clear warnings for"),
	).RequirePermission(discordgo.PermissionModerateMembers).
		WithHelp("Clear user warnings", "Use `/clearwarnings <user>` to clear a user’s warnings. Requires Moderator role or Moderate Members permission.")
}

func clearWarningsHandler(svc *shared.Services) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		user, err := ctx.ArgUser("user")
		if err != nil {
			return err
		}

		gctx, cancel := shared.StoreContext()
		defer cancel()

		cleared, err := svc.Warnings.ClearWarnings(gctx, ctx.GuildID(), user.ID)
		if err != nil {
			return ctx.Fail("Failed to clear warnings.", err)
		}
		if !cleared {
			return ctx.ReplyEphemeral(fmt.Sprintf("%s has no warnings to clear.", shared.Tag(user)))
		}

		svc.Publish(ctx, modlog.Event{Type: modlog.EventClearWarnings, TargetID: user.ID})
		return ctx.ReplyEphemeral(fmt.Sprintf("Cleared all warnings for %s.", shared.Tag(user)))
	}
}
