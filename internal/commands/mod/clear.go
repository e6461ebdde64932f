// Package mod - /clear command
package mod

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/bwmarrin/discordgo"
)

type clearArgs struct {
	Amount int64
}

func parseClearArgs(ctx *discord.CommandContext) (clearArgs, error) {
	amount, err := ctx.ArgIntInRange("amount", shared.ClearBounds, shared.ClearMessage)
	if err != nil {
		return clearArgs{}, err
	}
	return clearArgs{Amount: amount}, nil
}

// createClearCommand creates the /clear command
func createClearCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"clear",
		"Clear/purge messages in the channel",
		"mod",
		clearHandler(svc),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "amount",
			Description: "Number of messages to delete (1-100)",
			Required:    true,
			MinValue:    shared.ClearBounds.MinValue(),
			MaxValue:    shared.ClearBounds.MaxValue(),
		},
	).RequirePermission(discordgo.PermissionManageMessages).
		WithHelp("Clear messages", "Use `/clear <amount: 1-100>` to delete messages. Requires Moderator role or Manage Messages permission.")
}

func clearHandler(svc *shared.Services) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		args, err := parseClearArgs(ctx)
		if err != nil {
			return err
		}

		// fetching and deleting can outlast the 3s reply window
		if err := ctx.Defer(true); err != nil {
			return err
		}

		deleted, err := ctx.Gateway.BulkDelete(ctx.ChannelID(), int(args.Amount))
		if err != nil {
			return ctx.FailEdit("Failed to clear messages.", err)
		}

		svc.Publish(ctx, modlog.Event{Type: modlog.EventClear, Detail: fmt.Sprintf("%d messages", deleted)})
		return ctx.EditReplyEmbed(shared.Embed(
			"Messages Cleared",
			fmt.Sprintf("Deleted %d messages", deleted),
			shared.ColorSuccess,
		))
	}
}
