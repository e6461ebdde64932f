// Package mod - /audit command
package mod

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const defaultAuditLimit = 10

// auditActions names the audit log actions moderators usually look for
var auditActions = map[discordgo.AuditLogAction]string{
	discordgo.AuditLogActionGuildUpdate:            "GuildUpdate",
	discordgo.AuditLogActionChannelCreate:          "ChannelCreate",
	discordgo.AuditLogActionChannelUpdate:          "ChannelUpdate",
	discordgo.AuditLogActionChannelDelete:          "ChannelDelete",
	discordgo.AuditLogActionChannelOverwriteCreate: "ChannelOverwriteCreate",
	discordgo.AuditLogActionChannelOverwriteUpdate: "ChannelOverwriteUpdate",
	discordgo.AuditLogActionChannelOverwriteDelete: "ChannelOverwriteDelete",
	discordgo.AuditLogActionMemberKick:             "MemberKick",
	discordgo.AuditLogActionMemberPrune:            "MemberPrune",
	discordgo.AuditLogActionMemberBanAdd:           "MemberBanAdd",
	discordgo.AuditLogActionMemberBanRemove:        "MemberBanRemove",
	discordgo.AuditLogActionMemberUpdate:           "MemberUpdate",
	discordgo.AuditLogActionMemberRoleUpdate:       "MemberRoleUpdate",
	discordgo.AuditLogActionRoleCreate:             "RoleCreate",
	discordgo.AuditLogActionRoleUpdate:             "RoleUpdate",
	discordgo.AuditLogActionRoleDelete:             "RoleDelete",
	discordgo.AuditLogActionMessageDelete:          "MessageDelete",
	discordgo.AuditLogActionMessageBulkDelete:      "MessageBulkDelete",
}

func auditActionName(a *discordgo.AuditLogAction) string {
	if a == nil {
		return "Unknown"
	}
	if name, ok := auditActions[*a]; ok {
		return name
	}
	return fmt.Sprintf("Action %d", int(*a))
}

type auditArgs struct {
	Limit int64
}

func parseAuditArgs(ctx *discord.CommandContext) (auditArgs, error) {
	limit, ok := ctx.OptInt("limit")
	if !ok {
		return auditArgs{Limit: defaultAuditLimit}, nil
	}
	if err := shared.AuditBounds.Check(limit, shared.AuditMessage); err != nil {
		return auditArgs{}, err
	}
	return auditArgs{Limit: limit}, nil
}

// createAuditCommand creates the /audit command
func createAuditCommand() *discord.Command {
	return discord.NewCommand(
		"audit",
		"View recent audit logs",
		"mod",
		auditHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "limit",
			Description: "Number of entries (default 10)",
		},
	).RequirePermission(discordgo.PermissionViewAuditLogs).
		WithHelp("View audit logs", "Use `/audit [limit]` to view recent audit logs. Defaults to 10 entries. Requires Moderator role or View Audit Log permission.")
}

func auditHandler(ctx *discord.CommandContext) error {
	args, err := parseAuditArgs(ctx)
	if err != nil {
		return err
	}

	logs, err := ctx.Gateway.AuditLog(ctx.GuildID(), int(args.Limit))
	if err != nil {
		return ctx.Fail("Failed to fetch audit logs. Check permissions.", err)
	}

	return ctx.ReplyEphemeralEmbed(auditEmbed(logs))
}

// auditEmbed renders one field per entry, with executor and target tags
// taken from the users included in the log
func auditEmbed(logs *discordgo.GuildAuditLog) *discordgo.MessageEmbed {
	embed := shared.Embed("Audit Logs", "", shared.ColorSuccess)
	if logs == nil {
		return embed
	}

	users := make(map[string]*discordgo.User, len(logs.Users))
	for _, u := range logs.Users {
		users[u.ID] = u
	}
	tag := func(id string) string {
		if u, ok := users[id]; ok {
			return shared.Tag(u)
		}
		return "N/A"
	}

	for _, entry := range logs.AuditLogEntries {
		reason := entry.Reason
		if reason == "" {
			reason = "N/A"
		}
		at, err := discordgo.SnowflakeTimestamp(entry.ID)
		when := "N/A"
		if err == nil {
			when = shared.RelativeTime(at)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s by %s", auditActionName(entry.ActionType), tag(entry.UserID)),
			Value: fmt.Sprintf("Target: %s\nReason: %s\nTime: %s", tag(entry.TargetID), reason, when),
		})
	}
	return embed
}
