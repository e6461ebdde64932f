// Package discord provides command types and structures.
package discord

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandContext provides context for command execution
type CommandContext struct {
	Gateway     Gateway
	Interaction *discordgo.InteractionCreate
	Client      *ExtendedClient

	responded atomic.Bool
}

// Command represents a Discord slash command or subcommand
type Command struct {
	Name        string
	Description string
	Category    string
	Options     []*discordgo.ApplicationCommandOption

	// Permission is the capability that unlocks the command besides the
	// Moderator role and Administrator. Zero means unprivileged.
	Permission int64
	// Public must be set on unprivileged commands so a missing permission
	// is a registration error instead of an open command.
	Public bool

	Summary string
	Usage   string
	Run     CommandRunFunc
}

// CommandRunFunc is the function type for command execution. Returning a
// *ValidationError means nothing was sent yet; the router replies with it.
type CommandRunFunc func(ctx *CommandContext) error

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run CommandRunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// WithOptions sets the command options
func (c *Command) WithOptions(opts ...*discordgo.ApplicationCommandOption) *Command {
	c.Options = opts
	return c
}

// RequirePermission marks the command as privileged
func (c *Command) RequirePermission(perm int64) *Command {
	c.Permission = perm
	return c
}

// AsPublic marks the command as runnable by everyone
func (c *Command) AsPublic() *Command {
	c.Public = true
	return c
}

// WithHelp sets the text shown by /help and /usage
func (c *Command) WithHelp(summary, usage string) *Command {
	c.Summary = summary
	c.Usage = usage
	return c
}

// Privileged reports whether the command goes through the gate
func (c *Command) Privileged() bool {
	return c.Permission != 0
}

// validate rejects commands that are neither privileged nor public
func (c *Command) validate() error {
	if c.Name == "" {
		return fmt.Errorf("command has no name")
	}
	if c.Run == nil {
		return fmt.Errorf("command %q has no handler", c.Name)
	}
	if !c.Privileged() && !c.Public {
		return fmt.Errorf("command %q must require a permission or be marked public", c.Name)
	}
	if c.Privileged() && c.Public {
		return fmt.Errorf("command %q cannot be both public and privileged", c.Name)
	}
	return nil
}

// ToApplicationCommand converts the command to a Discord application command
func (c *Command) ToApplicationCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
}

// Responded reports whether the interaction already got its reply
func (ctx *CommandContext) Responded() bool {
	return ctx.responded.Load()
}

func (ctx *CommandContext) respond(data *discordgo.InteractionResponseData, kind discordgo.InteractionResponseType) error {
	ctx.responded.Store(true)
	return ctx.Gateway.Respond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: kind,
		Data: data,
	})
}

// Reply sends a reply to the interaction
func (ctx *CommandContext) Reply(content string) error {
	return ctx.respond(&discordgo.InteractionResponseData{Content: content},
		discordgo.InteractionResponseChannelMessageWithSource)
}

// ReplyEmbed sends an embed reply to the interaction
func (ctx *CommandContext) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.respond(&discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
		discordgo.InteractionResponseChannelMessageWithSource)
}

// ReplyEphemeral sends an ephemeral reply visible only to the user
func (ctx *CommandContext) ReplyEphemeral(content string) error {
	return ctx.respond(&discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}, discordgo.InteractionResponseChannelMessageWithSource)
}

// ReplyEphemeralEmbed sends an ephemeral embed reply visible only to the user
func (ctx *CommandContext) ReplyEphemeralEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.respond(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	}, discordgo.InteractionResponseChannelMessageWithSource)
}

// ReplyComplex sends a fully built response
func (ctx *CommandContext) ReplyComplex(data *discordgo.InteractionResponseData) error {
	return ctx.respond(data, discordgo.InteractionResponseChannelMessageWithSource)
}

// Defer defers the interaction response
func (ctx *CommandContext) Defer(ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return ctx.respond(data, discordgo.InteractionResponseDeferredChannelMessageWithSource)
}

// EditReply edits the original interaction response
func (ctx *CommandContext) EditReply(content string) error {
	return ctx.Gateway.EditResponse(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}

// EditReplyEmbed edits the original interaction response with an embed
func (ctx *CommandContext) EditReplyEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.Gateway.EditResponse(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
}

// Fail logs a collaborator failure and answers with a fixed text
func (ctx *CommandContext) Fail(message string, err error) error {
	logger.Warn(fmt.Sprintf("/%s: %s: %v", ctx.CommandName(), strings.TrimSuffix(message, "."), err), "Command")
	return ctx.ReplyEphemeral(message)
}

// FailEdit is Fail for a deferred reply
func (ctx *CommandContext) FailEdit(message string, err error) error {
	logger.Warn(fmt.Sprintf("/%s: %s: %v", ctx.CommandName(), strings.TrimSuffix(message, "."), err), "Command")
	return ctx.EditReply(message)
}

// CommandName returns the routed key, such as "prefix.add"
func (ctx *CommandContext) CommandName() string {
	if ctx.Interaction.Type != discordgo.InteractionApplicationCommand {
		return ""
	}
	return commandKey(ctx.Interaction.ApplicationCommandData())
}

// GuildID returns the guild where the interaction occurred
func (ctx *CommandContext) GuildID() string {
	return ctx.Interaction.GuildID
}

// ChannelID returns the channel where the interaction occurred
func (ctx *CommandContext) ChannelID() string {
	return ctx.Interaction.ChannelID
}

// User returns the user who triggered the interaction
func (ctx *CommandContext) User() *discordgo.User {
	if ctx.Interaction.Member != nil && ctx.Interaction.Member.User != nil {
		return ctx.Interaction.Member.User
	}
	return ctx.Interaction.User
}

// Member returns the guild member who triggered the interaction
func (ctx *CommandContext) Member() *discordgo.Member {
	return ctx.Interaction.Member
}

// commandKey builds the registry key for a command, subcommand or
// subcommand in a group.
func commandKey(data discordgo.ApplicationCommandInteractionData) string {
	key := data.Name
	if len(data.Options) == 0 {
		return key
	}

	opt := data.Options[0]
	switch opt.Type {
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		if len(opt.Options) > 0 {
			key = data.Name + "." + opt.Name + "." + opt.Options[0].Name
		}
	case discordgo.ApplicationCommandOptionSubCommand:
		key = data.Name + "." + opt.Name
	}
	return key
}
