// Package mod - /lock and /unlock commands
package mod

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/bwmarrin/discordgo"
)

// lockedPermissions are denied to @everyone while a channel is locked
const lockedPermissions = discordgo.PermissionSendMessages | discordgo.PermissionAttachFiles

type lockArgs struct {
	Channel *discordgo.Channel
}

// parseLockArgs resolves the channel option, defaulting to the current one
func parseLockArgs(ctx *discord.CommandContext) (lockArgs, error) {
	ch, ok := ctx.OptChannel("channel")
	if !ok {
		current, err := ctx.Gateway.Channel(ctx.ChannelID())
		if err != nil {
			// the interaction came from this channel, so it accepts messages
			current = &discordgo.Channel{ID: ctx.ChannelID(), Type: discordgo.ChannelTypeGuildText}
		}
		ch = current
	}
	if ch.Type != discordgo.ChannelTypeGuildText {
		return lockArgs{}, discord.Invalid("Must be a text channel.")
	}
	return lockArgs{Channel: ch}, nil
}

type lockMode struct {
	name    string
	title   string
	color   int
	reply   string
	failure string
	event   modlog.EventType
	deny    int64
	reset   int64
	help    string
	usage   string
}

var (
	lockChannel = lockMode{
		name:    "lock",
		title:   "CHANNEL LOCKED",
		color:   shared.ColorDanger,
		reply:   "Locked %s.",
		failure: "Failed to lock channel. Check permissions.",
		event:   modlog.EventLock,
		deny:    lockedPermissions,
		help:    "Lock a channel",
		usage:   "Use `/lock [channel]` to lock a channel. Defaults to current channel. Requires Moderator role or Manage Channels permission.",
	}
	unlockChannel = lockMode{
		name:    "unlock",
		title:   "CHANNEL UNLOCKED",
		color:   shared.ColorSuccess,
		reply:   "Unlocked %s.",
		failure: "Failed to unlock channel. Check permissions.",
		event:   modlog.EventUnlock,
		reset:   lockedPermissions,
		help:    "Unlock a channel",
		usage:   "Use `/unlock [channel]` to unlock a channel. Defaults to current channel. Requires Moderator role or Manage Channels permission.",
	}
)

// createLockCommand creates the /lock or /unlock command
func createLockCommand(svc *shared.Services, mode lockMode) *discord.Command {
	return discord.NewCommand(
		mode.name,
		mode.help,
		"mod",
		lockHandler(svc, mode),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "The channel to " + mode.name,
		},
	).RequirePermission(discordgo.PermissionManageChannels).
		WithHelp(mode.help, mode.usage)
}

func lockHandler(svc *shared.Services, mode lockMode) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		args, err := parseLockArgs(ctx)
		if err != nil {
			return err
		}
		channelID := args.Channel.ID

		if err := ctx.Gateway.UpdateEveryoneOverwrite(ctx.GuildID(), channelID, mode.deny, mode.reset); err != nil {
			return ctx.Fail(mode.failure, err)
		}
		if _, err := ctx.Gateway.SendMessage(channelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{shared.Embed(mode.title, "", mode.color)},
		}); err != nil {
			return ctx.Fail(mode.failure, err)
		}

		svc.Publish(ctx, modlog.Event{Type: mode.event, ChannelID: channelID})
		return ctx.ReplyEphemeral(fmt.Sprintf(mode.reply, shared.ChannelMention(channelID)))
	}
}
