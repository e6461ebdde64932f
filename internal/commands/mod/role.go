// Package mod - /role command
package mod

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/bwmarrin/discordgo"
)

type roleArgs struct {
	Member *discordgo.Member
	Role   *discordgo.Role
}

func parseRoleArgs(ctx *discord.CommandContext) (roleArgs, error) {
	member, err := ctx.ArgMember("user")
	if err != nil {
		return roleArgs{}, err
	}
	role, err := ctx.ArgRole("role")
	if err != nil {
		return roleArgs{}, err
	}
	return roleArgs{Member: member, Role: role}, nil
}

// createRoleCommand creates the /role command
func createRoleCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"role",
		"Assign a role to a user",
		"mod",
		roleHandler(svc),
	).WithOptions(
		shared.UserOption("The user"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: "The role",
			Required:    true,
		},
	).RequirePermission(discordgo.PermissionManageRoles).
		WithHelp("Assign a role", "Use `/role <user> <role>` to assign a role. Requires Moderator role or Manage Roles permission.")
}

func roleHandler(svc *shared.Services) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		args, err := parseRoleArgs(ctx)
		if err != nil {
			return err
		}
		userID := args.Member.User.ID

		if err := ctx.Gateway.AddRole(ctx.GuildID(), userID, args.Role.ID); err != nil {
			return ctx.Fail("Failed to assign role. Check role hierarchy.", err)
		}

		svc.Publish(ctx, modlog.Event{Type: modlog.EventRole, TargetID: userID, Detail: args.Role.ID})
		return ctx.ReplyEmbed(shared.Embed(
			"Role Assigned",
			fmt.Sprintf("Assigned %s to %s.", roleName(args.Role), shared.Mention(userID)),
			shared.ColorSuccess,
		))
	}
}

func roleName(r *discordgo.Role) string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("<@&%s>", r.ID)
}
