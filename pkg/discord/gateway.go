package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Gateway is every Discord call the bot makes. Commands talk to Discord
// only through it so handlers can run against a fake.
type Gateway interface {
	Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
	EditResponse(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error
	OriginalResponse(i *discordgo.Interaction) (*discordgo.Message, error)

	Ban(guildID, userID, reason string) error
	Kick(guildID, userID, reason string) error
	// Timeout sets or, with a nil until, clears a member timeout. A
	// non-empty reason goes to the audit log.
	Timeout(guildID, userID string, until *time.Time, reason string) error
	AddRole(guildID, userID, roleID string) error
	BulkDelete(channelID string, limit int) (int, error)
	UpdateEveryoneOverwrite(guildID, channelID string, deny, reset int64) error
	AuditLog(guildID string, limit int) (*discordgo.GuildAuditLog, error)

	SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error)
	DeleteMessage(channelID, messageID string) error
	DirectMessage(userID string, msg *discordgo.MessageSend) error
	React(channelID, messageID, emoji string) error

	Guild(guildID string) (*discordgo.Guild, error)
	Channel(channelID string) (*discordgo.Channel, error)
	Roles(guildID string) ([]*discordgo.Role, error)
	BotUser() *discordgo.User
	Latency() time.Duration
}

// bulkDeleteMaxAge is Discord's cutoff for bulk deletion
const bulkDeleteMaxAge = 14 * 24 * time.Hour

// sessionGateway implements Gateway on a live discordgo session
type sessionGateway struct {
	s *discordgo.Session
}

// NewSessionGateway wraps a discordgo session
func NewSessionGateway(s *discordgo.Session) Gateway {
	return &sessionGateway{s: s}
}

func (g *sessionGateway) Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	return g.s.InteractionRespond(i, resp)
}

func (g *sessionGateway) EditResponse(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	_, err := g.s.InteractionResponseEdit(i, edit)
	return err
}

func (g *sessionGateway) OriginalResponse(i *discordgo.Interaction) (*discordgo.Message, error) {
	return g.s.InteractionResponse(i)
}

func (g *sessionGateway) Ban(guildID, userID, reason string) error {
	return g.s.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

func (g *sessionGateway) Kick(guildID, userID, reason string) error {
	return g.s.GuildMemberDeleteWithReason(guildID, userID, reason)
}

func (g *sessionGateway) Timeout(guildID, userID string, until *time.Time, reason string) error {
	if reason == "" {
		return g.s.GuildMemberTimeout(guildID, userID, until)
	}
	return g.s.GuildMemberTimeout(guildID, userID, until, discordgo.WithAuditLogReason(reason))
}

func (g *sessionGateway) AddRole(guildID, userID, roleID string) error {
	return g.s.GuildMemberRoleAdd(guildID, userID, roleID)
}

// BulkDelete removes up to limit recent messages, skipping those too old
// for bulk deletion. It returns how many were deleted.
func (g *sessionGateway) BulkDelete(channelID string, limit int) (int, error) {
	msgs, err := g.s.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return 0, fmt.Errorf("fetch messages: %w", err)
	}

	cutoff := time.Now().Add(-bulkDeleteMaxAge)
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Timestamp.After(cutoff) {
			ids = append(ids, m.ID)
		}
	}

	switch len(ids) {
	case 0:
		return 0, nil
	case 1:
		err = g.s.ChannelMessageDelete(channelID, ids[0])
	default:
		err = g.s.ChannelMessagesBulkDelete(channelID, ids)
	}
	if err != nil {
		return 0, fmt.Errorf("delete messages: %w", err)
	}
	return len(ids), nil
}

// UpdateEveryoneOverwrite denies the deny bits for @everyone and returns the
// reset bits to neutral. Other bits of the existing overwrite are kept.
func (g *sessionGateway) UpdateEveryoneOverwrite(guildID, channelID string, deny, reset int64) error {
	ch, err := g.Channel(channelID)
	if err != nil {
		return err
	}

	var allow, denied int64
	for _, o := range ch.PermissionOverwrites {
		if o.ID == guildID && o.Type == discordgo.PermissionOverwriteTypeRole {
			allow, denied = o.Allow, o.Deny
			break
		}
	}

	allow &^= deny | reset
	denied = (denied &^ reset) | deny

	return g.s.ChannelPermissionSet(channelID, guildID, discordgo.PermissionOverwriteTypeRole, allow, denied)
}

func (g *sessionGateway) AuditLog(guildID string, limit int) (*discordgo.GuildAuditLog, error) {
	return g.s.GuildAuditLog(guildID, "", "", 0, limit)
}

func (g *sessionGateway) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	return g.s.ChannelMessageSendComplex(channelID, msg)
}

func (g *sessionGateway) DeleteMessage(channelID, messageID string) error {
	return g.s.ChannelMessageDelete(channelID, messageID)
}

func (g *sessionGateway) DirectMessage(userID string, msg *discordgo.MessageSend) error {
	ch, err := g.s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	_, err = g.s.ChannelMessageSendComplex(ch.ID, msg)
	return err
}

func (g *sessionGateway) React(channelID, messageID, emoji string) error {
	return g.s.MessageReactionAdd(channelID, messageID, emoji)
}

func (g *sessionGateway) Guild(guildID string) (*discordgo.Guild, error) {
	if g.s.State != nil {
		if guild, err := g.s.State.Guild(guildID); err == nil {
			return guild, nil
		}
	}
	return g.s.Guild(guildID)
}

func (g *sessionGateway) Channel(channelID string) (*discordgo.Channel, error) {
	if g.s.State != nil {
		if ch, err := g.s.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}
	return g.s.Channel(channelID)
}

func (g *sessionGateway) Roles(guildID string) ([]*discordgo.Role, error) {
	if g.s.State != nil {
		if guild, err := g.s.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
			return guild.Roles, nil
		}
	}
	return g.s.GuildRoles(guildID)
}

func (g *sessionGateway) BotUser() *discordgo.User {
	if g.s.State == nil {
		return nil
	}
	return g.s.State.User
}

func (g *sessionGateway) Latency() time.Duration {
	return g.s.HeartbeatLatency()
}
