package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ValidationError is a user-facing argument error. Its message is sent
// back verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError
func Invalid(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Bounds is an inclusive integer range
type Bounds struct {
	Min int64
	Max int64
}

// Contains reports whether v lies within the bounds
func (b Bounds) Contains(v int64) bool {
	return v >= b.Min && v <= b.Max
}

// Check returns a ValidationError with message when v is out of range.
// Values are never clamped.
func (b Bounds) Check(v int64, message string) error {
	if !b.Contains(v) {
		return &ValidationError{Message: message}
	}
	return nil
}

// MinValue is a helper for option schemas
func (b Bounds) MinValue() *float64 {
	v := float64(b.Min)
	return &v
}

// MaxValue is a helper for option schemas
func (b Bounds) MaxValue() float64 {
	return float64(b.Max)
}

// GetOption retrieves an option value by name
func (ctx *CommandContext) GetOption(name string) *discordgo.ApplicationCommandInteractionDataOption {
	if ctx.Interaction.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	return findOption(ctx.Interaction.ApplicationCommandData().Options, name)
}

// findOption recursively finds an option by name
func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand ||
			opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			if found := findOption(opt.Options, name); found != nil {
				return found
			}
			continue
		}
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

func missing(name string) error {
	return Invalid("Missing required option: %s", name)
}

// optionID returns the snowflake carried by a user, role or channel option
func optionID(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	if s, ok := opt.Value.(string); ok {
		return s
	}
	return fmt.Sprint(opt.Value)
}

func (ctx *CommandContext) resolved() *discordgo.ApplicationCommandInteractionDataResolved {
	return ctx.Interaction.ApplicationCommandData().Resolved
}

// ArgString returns a required string option
func (ctx *CommandContext) ArgString(name string) (string, error) {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
		return "", missing(name)
	}
	v := opt.StringValue()
	if strings.TrimSpace(v) == "" {
		return "", missing(name)
	}
	return v, nil
}

// OptString returns a string option or def when absent or blank
func (ctx *CommandContext) OptString(name, def string) string {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
		return def
	}
	if v := opt.StringValue(); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// ArgInt returns a required integer option
func (ctx *CommandContext) ArgInt(name string) (int64, error) {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return 0, missing(name)
	}
	return opt.IntValue(), nil
}

// OptInt returns an integer option and whether it was given
func (ctx *CommandContext) OptInt(name string) (int64, bool) {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return 0, false
	}
	return opt.IntValue(), true
}

// ArgIntInRange returns a required integer option checked against b
func (ctx *CommandContext) ArgIntInRange(name string, b Bounds, message string) (int64, error) {
	v, err := ctx.ArgInt(name)
	if err != nil {
		return 0, err
	}
	if err := b.Check(v, message); err != nil {
		return 0, err
	}
	return v, nil
}

// ArgUser returns a required user option from the resolved data
func (ctx *CommandContext) ArgUser(name string) (*discordgo.User, error) {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionUser {
		return nil, missing(name)
	}

	id := optionID(opt)
	if r := ctx.resolved(); r != nil {
		if u, ok := r.Users[id]; ok {
			return u, nil
		}
	}
	return &discordgo.User{ID: id}, nil
}

// ArgMember returns a required user option as a guild member. The member
// must be in the guild.
func (ctx *CommandContext) ArgMember(name string) (*discordgo.Member, error) {
	user, err := ctx.ArgUser(name)
	if err != nil {
		return nil, err
	}

	r := ctx.resolved()
	if r == nil {
		return nil, Invalid("That user is not a member of this server.")
	}
	m, ok := r.Members[user.ID]
	if !ok || m == nil {
		return nil, Invalid("That user is not a member of this server.")
	}

	member := *m
	member.User = user
	member.GuildID = ctx.GuildID()
	return &member, nil
}

// ArgRole returns a required role option from the resolved data
func (ctx *CommandContext) ArgRole(name string) (*discordgo.Role, error) {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionRole {
		return nil, missing(name)
	}

	id := optionID(opt)
	if r := ctx.resolved(); r != nil {
		if role, ok := r.Roles[id]; ok {
			return role, nil
		}
	}
	return &discordgo.Role{ID: id}, nil
}

// OptChannel returns a channel option and whether it was given
func (ctx *CommandContext) OptChannel(name string) (*discordgo.Channel, bool) {
	opt := ctx.GetOption(name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionChannel {
		return nil, false
	}

	id := optionID(opt)
	if r := ctx.resolved(); r != nil {
		if ch, ok := r.Channels[id]; ok {
			return ch, true
		}
	}
	return &discordgo.Channel{ID: id}, true
}

// Subcommand returns the name of the invoked subcommand, if any
func (ctx *CommandContext) Subcommand() string {
	opts := ctx.Interaction.ApplicationCommandData().Options
	if len(opts) > 0 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		return opts[0].Name
	}
	return ""
}
