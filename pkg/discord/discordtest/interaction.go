package discordtest

import (
	"github.com/bwmarrin/discordgo"
)

// Test snowflakes
const (
	GuildID   = "guild-1"
	ChannelID = "channel-1"
	InvokerID = "invoker"
)

// Option is a single slash command option value
type Option = *discordgo.ApplicationCommandInteractionDataOption

// String builds a string option
func String(name, value string) Option {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

// Int builds an integer option. Discord sends numbers as float64.
func Int(name string, value int64) Option {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

// User builds a user option
func User(name, id string) Option {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionUser,
		Value: id,
	}
}

// Role builds a role option
func Role(name, id string) Option {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionRole,
		Value: id,
	}
}

// Channel builds a channel option
func Channel(name, id string) Option {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionChannel,
		Value: id,
	}
}

// Sub wraps options in a subcommand
func Sub(name string, opts ...Option) Option {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: opts,
	}
}

// Builder assembles an interaction step by step
type Builder struct {
	i *discordgo.InteractionCreate
}

// Command starts a slash command interaction from the default invoker
func Command(name string, opts ...Option) *Builder {
	return &Builder{i: &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "interaction-1",
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   GuildID,
			ChannelID: ChannelID,
			Token:     "token",
			Member: &discordgo.Member{
				User: &discordgo.User{ID: InvokerID, Username: "invoker"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				ID:      "cmd-" + name,
				Name:    name,
				Options: opts,
				Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
					Users:    map[string]*discordgo.User{},
					Members:  map[string]*discordgo.Member{},
					Roles:    map[string]*discordgo.Role{},
					Channels: map[string]*discordgo.Channel{},
				},
			},
		},
	}}
}

// Button builds a component activation from userID
func Button(customID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "component-1",
			Type:      discordgo.InteractionMessageComponent,
			GuildID:   GuildID,
			ChannelID: ChannelID,
			Token:     "component-token",
			Member: &discordgo.Member{
				User: &discordgo.User{ID: userID, Username: userID},
			},
			Data: discordgo.MessageComponentInteractionData{
				CustomID:      customID,
				ComponentType: discordgo.ButtonComponent,
			},
		},
	}
}

func (b *Builder) data() discordgo.ApplicationCommandInteractionData {
	return b.i.Data.(discordgo.ApplicationCommandInteractionData)
}

// By sets the invoking member's ID, permissions and role IDs
func (b *Builder) By(userID string, perms int64, roleIDs ...string) *Builder {
	b.i.Member = &discordgo.Member{
		User:        &discordgo.User{ID: userID, Username: userID},
		Permissions: perms,
		Roles:       roleIDs,
	}
	return b
}

// WithUser adds a resolved user, and a resolved member when member is set
func (b *Builder) WithUser(u *discordgo.User, member *discordgo.Member) *Builder {
	d := b.data()
	d.Resolved.Users[u.ID] = u
	if member != nil {
		d.Resolved.Members[u.ID] = member
	}
	b.i.Data = d
	return b
}

// WithRole adds a resolved role
func (b *Builder) WithRole(r *discordgo.Role) *Builder {
	d := b.data()
	d.Resolved.Roles[r.ID] = r
	b.i.Data = d
	return b
}

// WithChannel adds a resolved channel
func (b *Builder) WithChannel(c *discordgo.Channel) *Builder {
	d := b.data()
	d.Resolved.Channels[c.ID] = c
	b.i.Data = d
	return b
}

// InDM removes the guild and member from the interaction
func (b *Builder) InDM() *Builder {
	b.i.GuildID = ""
	b.i.User = b.i.Member.User
	b.i.Member = nil
	return b
}

// Build returns the interaction
func (b *Builder) Build() *discordgo.InteractionCreate {
	return b.i
}

// Content returns a response's text content
func Content(resp *discordgo.InteractionResponse) string {
	if resp == nil || resp.Data == nil {
		return ""
	}
	return resp.Data.Content
}

// Ephemeral reports whether a response is only visible to the invoker
func Ephemeral(resp *discordgo.InteractionResponse) bool {
	return resp != nil && resp.Data != nil && resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0
}

// FirstEmbed returns a response's first embed, or nil
func FirstEmbed(resp *discordgo.InteractionResponse) *discordgo.MessageEmbed {
	if resp == nil || resp.Data == nil || len(resp.Data.Embeds) == 0 {
		return nil
	}
	return resp.Data.Embeds[0]
}
