// Package settings - /prefix command group
package settings

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func prefixOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "prefix",
		Description: description,
		Required:    true,
	}
}

// prefixGroup builds /prefix. Only list is open to everyone.
func prefixGroup(svc *shared.Services) shared.Group {
	return shared.Group{
		Name:        "prefix",
		Description: "Manage prefixes",
		Subcommands: []*discord.Command{
			createPrefixAddCommand(svc),
			createPrefixRemoveCommand(svc),
			createPrefixListCommand(svc),
			createPrefixClearCommand(svc),
		},
	}
}

func createPrefixAddCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"add",
		"Add a prefix",
		"settings",
		func(ctx *discord.CommandContext) error {
			prefix, err := ctx.ArgString("prefix")
			if err != nil {
				return err
			}
			if !svc.Config.AddPrefix(ctx.GuildID(), prefix) {
				return ctx.ReplyEphemeral(fmt.Sprintf(`Prefix "%s" already exists.`, prefix))
			}
			return ctx.ReplyEphemeral(fmt.Sprintf(`Added prefix "%s".`, prefix))
		},
	).WithOptions(prefixOption("The prefix to add")).
		RequirePermission(discordgo.PermissionManageGuild).
		WithHelp("Add a prefix", "Use `/prefix add <prefix>` to add a command prefix. Requires Moderator role or Manage Guild permission.")
}

func createPrefixRemoveCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"remove",
		"Remove a prefix",
		"settings",
		func(ctx *discord.CommandContext) error {
			prefix, err := ctx.ArgString("prefix")
			if err != nil {
				return err
			}
			if !svc.Config.RemovePrefix(ctx.GuildID(), prefix) {
				return ctx.ReplyEphemeral(fmt.Sprintf(`Prefix "%s" not found.`, prefix))
			}
			return ctx.ReplyEphemeral(fmt.Sprintf(`Removed prefix "%s".`, prefix))
		},
	).WithOptions(prefixOption("The prefix to remove")).
		RequirePermission(discordgo.PermissionManageGuild).
		WithHelp("Remove a prefix", "Use `/prefix remove <prefix>` to remove a prefix. Requires Moderator role or Manage Guild permission.")
}

func createPrefixListCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"list",
		"List prefixes",
		"settings",
		func(ctx *discord.CommandContext) error {
			prefixes := svc.Config.Prefixes(ctx.GuildID())
			if len(prefixes) == 0 {
				return ctx.ReplyEphemeral("No prefixes set.")
			}
			return ctx.ReplyEphemeralEmbed(shared.Embed("Prefixes", strings.Join(prefixes, ", "), shared.ColorSuccess))
		},
	).AsPublic().
		WithHelp("List prefixes", "Use `/prefix list` to see all prefixes.")
}

func createPrefixClearCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"clear",
		"Clear all prefixes",
		"settings",
		func(ctx *discord.CommandContext) error {
			svc.Config.ClearPrefixes(ctx.GuildID())
			return ctx.ReplyEphemeral("Cleared all prefixes.")
		},
	).RequirePermission(discordgo.PermissionManageGuild).
		WithHelp("Clear all prefixes", "Use `/prefix clear` to remove all prefixes. Requires Moderator role or Manage Guild permission.")
}
