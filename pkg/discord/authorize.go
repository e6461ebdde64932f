package discord

import (
	"github.com/bwmarrin/discordgo"
)

// ModeratorRole grants every privileged command. The match is exact.
const ModeratorRole = "Moderator"

// DeniedMessage is the reply when the gate refuses a command
const DeniedMessage = "You need Moderator or Admin permissions!"

// PermissionNames names the capabilities privileged commands can require
var PermissionNames = map[int64]string{
	discordgo.PermissionAdministrator:   "Administrator",
	discordgo.PermissionBanMembers:      "Ban Members",
	discordgo.PermissionKickMembers:     "Kick Members",
	discordgo.PermissionModerateMembers: "Moderate Members",
	discordgo.PermissionManageMessages:  "Manage Messages",
	discordgo.PermissionManageGuild:     "Manage Server",
	discordgo.PermissionManageChannels:  "Manage Channels",
	discordgo.PermissionManageRoles:     "Manage Roles",
	discordgo.PermissionViewAuditLogs:   "View Audit Logs",
}

// MemberAccess is what the gate knows about the invoking member
type MemberAccess struct {
	RoleNames   []string
	Permissions int64
}

// Authorize reports whether a member may run cmd
func Authorize(cmd *Command, m MemberAccess) bool {
	if !cmd.Privileged() {
		return true
	}

	for _, name := range m.RoleNames {
		if name == ModeratorRole {
			return true
		}
	}

	if m.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return m.Permissions&cmd.Permission == cmd.Permission
}

// memberAccess resolves the member's role names through the gateway
func memberAccess(g Gateway, guildID string, member *discordgo.Member) (MemberAccess, error) {
	if member == nil {
		return MemberAccess{}, nil
	}

	access := MemberAccess{Permissions: member.Permissions}
	if len(member.Roles) == 0 {
		return access, nil
	}

	roles, err := g.Roles(guildID)
	if err != nil {
		return access, err
	}

	names := make(map[string]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}
	for _, id := range member.Roles {
		if name, ok := names[id]; ok {
			access.RoleNames = append(access.RoleNames, name)
		}
	}
	return access, nil
}
