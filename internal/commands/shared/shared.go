// Package shared holds what every command category needs: the injected
// stores, embed helpers and argument bounds.
package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/PancyStudios/BeamBotGo/pkg/store"
	"github.com/bwmarrin/discordgo"
)

// Footer is appended to every embed
const Footer = "HAPPY BEAMING! 🥳"

// Embed colours
const (
	ColorSuccess = 0x00ff00
	ColorDanger  = 0xff0000
)

// Argument bounds and their messages
var (
	ClearBounds  = discord.Bounds{Min: 1, Max: 100}
	MuteBounds   = discord.Bounds{Min: 1, Max: 40320}
	AuditBounds  = discord.Bounds{Min: 1, Max: 100}
	ClearMessage = "Amount must be between 1 and 100."
	MuteMessage  = "Duration must be between 1 minute and 28 days (40320 minutes)."
	AuditMessage = "Limit must be between 1 and 100."
)

// storeTimeout bounds warning store calls, which may hit MongoDB
const storeTimeout = 5 * time.Second

// StoreContext returns the context used for warning store calls
func StoreContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// Services are the collaborators command handlers use besides Discord
type Services struct {
	Config   store.ConfigStore
	Warnings store.WarningStore
	Events   *modlog.Bus
	Now      func() time.Time
}

// Clock returns the configured time source
func (s *Services) Clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Publish sends a moderation event for the interaction's guild and invoker
func (s *Services) Publish(ctx *discord.CommandContext, e modlog.Event) {
	e.GuildID = ctx.GuildID()
	if e.ChannelID == "" {
		e.ChannelID = ctx.ChannelID()
	}
	if u := ctx.User(); u != nil {
		e.ModeratorID = u.ID
	}
	e.Timestamp = s.Clock()
	s.Events.Publish(e)
}

// Group is a command with subcommands
type Group struct {
	Name        string
	Description string
	Subcommands []*discord.Command
}

// Embed builds an embed carrying the standard footer
func Embed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer:      &discordgo.MessageEmbedFooter{Text: Footer},
	}
}

// FooterWith prefixes the standard footer with text
func FooterWith(text string) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: text + " | " + Footer}
}

// Mention formats a user mention
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}

// ChannelMention formats a channel mention
func ChannelMention(channelID string) string {
	return fmt.Sprintf("<#%s>", channelID)
}

// RelativeTime formats a Discord relative timestamp
func RelativeTime(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

// Tag returns the display tag of a user
func Tag(u *discordgo.User) string {
	if u == nil {
		return "Unknown"
	}
	if u.Username == "" {
		return Mention(u.ID)
	}
	// migrated accounts report "0", partial payloads report nothing
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.String()
}

// UserOption is a required user argument
func UserOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

// ReasonOption is an optional reason argument
func ReasonOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: description,
	}
}
