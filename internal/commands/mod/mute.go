// Package mod - /mute and /unmute commands
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/PancyStudios/BeamBotGo/pkg/store"
	"github.com/bwmarrin/discordgo"
)

type muteArgs struct {
	Member  *discordgo.Member
	Minutes int64
	Reason  string
}

// parseMuteArgs checks the duration before the member, so an out of range
// value is reported even for users who left
func parseMuteArgs(ctx *discord.CommandContext) (muteArgs, error) {
	minutes, err := ctx.ArgIntInRange("duration_minutes", shared.MuteBounds, shared.MuteMessage)
	if err != nil {
		return muteArgs{}, err
	}
	member, err := ctx.ArgMember("user")
	if err != nil {
		return muteArgs{}, err
	}
	return muteArgs{
		Member:  member,
		Minutes: minutes,
		Reason:  ctx.OptString("reason", store.DefaultReason),
	}, nil
}

// createMuteCommand creates the /mute command
func createMuteCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"mute",
		"Mute a user",
		"mod",
		muteHandler(svc),
	).WithOptions(
		shared.UserOption("The user to mute"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "duration_minutes",
			Description: "Duration in minutes",
			Required:    true,
		},
		shared.ReasonOption("Reason for mute"),
	).RequirePermission(discordgo.PermissionModerateMembers).
		WithHelp("Mute a user", "Use `/mute <user> <duration_minutes> [reason]` to mute a user. Requires Moderator role or Moderate Members permission.")
}

func muteHandler(svc *shared.Services) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		args, err := parseMuteArgs(ctx)
		if err != nil {
			return err
		}
		userID := args.Member.User.ID

		until := svc.Clock().Add(time.Duration(args.Minutes) * time.Minute)
		if err := ctx.Gateway.Timeout(ctx.GuildID(), userID, &until, args.Reason); err != nil {
			return ctx.Fail("Failed to mute user. Ensure bot has permissions and role hierarchy is correct.", err)
		}

		svc.Publish(ctx, modlog.Event{
			Type:     modlog.EventMute,
			TargetID: userID,
			Reason:   args.Reason,
			Detail:   fmt.Sprintf("%d minutes", args.Minutes),
		})
		return ctx.ReplyEmbed(shared.Embed(
			"User Muted",
			fmt.Sprintf("Muted %s for %d minutes: %s", shared.Mention(userID), args.Minutes, args.Reason),
			shared.ColorDanger,
		))
	}
}

// createUnmuteCommand creates the /unmute command
func createUnmuteCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Unmute a user",
		"mod",
		unmuteHandler(svc),
	).WithOptions(
		shared.UserOption("The user to unmute"),
	).RequirePermission(discordgo.PermissionModerateMembers).
		WithHelp("Unmute a user", "Use `/unmute <user>` to unmute a user. Requires Moderator role or Moderate Members permission.")
}

func unmuteHandler(svc *shared.Services) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		member, err := ctx.ArgMember("user")
		if err != nil {
			return err
		}
		userID := member.User.ID

		if !isTimedOut(member, svc.Clock()) {
			return ctx.ReplyEphemeral("This user is not currently muted.")
		}

		if err := ctx.Gateway.Timeout(ctx.GuildID(), userID, nil, ""); err != nil {
			return ctx.Fail("Failed to unmute user. Ensure bot has permissions.", err)
		}

		svc.Publish(ctx, modlog.Event{Type: modlog.EventUnmute, TargetID: userID})
		return ctx.ReplyEmbed(shared.Embed(
			"User Unmuted",
			fmt.Sprintf("Unmuted %s.", shared.Mention(userID)),
			shared.ColorSuccess,
		))
	}
}

func isTimedOut(m *discordgo.Member, now time.Time) bool {
	return m.CommunicationDisabledUntil != nil && m.CommunicationDisabledUntil.After(now)
}
