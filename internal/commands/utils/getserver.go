package utils

import (
	"fmt"
	"strconv"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// getServerGroup builds /getserver. Both subcommands are open to everyone.
func getServerGroup() shared.Group {
	return shared.Group{
		Name:        "getserver",
		Description: "Get server information or icon",
		Subcommands: []*discord.Command{
			discord.NewCommand("info", "Display server information", "utils", serverInfoHandler).
				AsPublic().
				WithHelp("Get server info", "Use `/getserver info` to see server details like member count."),
			discord.NewCommand("icon", "Get the server icon", "utils", serverIconHandler).
				AsPublic().
				WithHelp("Get server icon", "Use `/getserver icon` to get the server’s icon."),
		},
	}
}

var errNotInGuild = discord.Invalid("This command only works in a server.")

func serverInfoHandler(ctx *discord.CommandContext) error {
	if ctx.GuildID() == "" {
		return errNotInGuild
	}
	guild, err := ctx.Gateway.Guild(ctx.GuildID())
	if err != nil {
		return ctx.Fail("Failed to fetch server info.", err)
	}
	return ctx.ReplyEphemeralEmbed(serverInfoEmbed(guild))
}

// serverInfoEmbed counts humans and bots among the cached members
func serverInfoEmbed(guild *discordgo.Guild) *discordgo.MessageEmbed {
	var humans, bots int
	for _, m := range guild.Members {
		if m.User == nil {
			continue
		}
		if m.User.Bot {
			bots++
		} else {
			humans++
		}
	}

	// @everyone is not counted
	roles := len(guild.Roles) - 1
	if roles < 0 {
		roles = 0
	}

	created := "Unknown"
	if t, err := discordgo.SnowflakeTimestamp(guild.ID); err == nil {
		created = fmt.Sprintf("<t:%d:F>", t.Unix())
	}

	field := func(name, value string) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
	}

	embed := shared.Embed(guild.Name, "", shared.ColorSuccess)
	embed.Footer = shared.FooterWith("Server ID: " + guild.ID)
	if guild.Icon != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("256")}
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		field("Members", strconv.Itoa(guild.MemberCount)),
		field("Humans", strconv.Itoa(humans)),
		field("Bots", strconv.Itoa(bots)),
		field("Channels", strconv.Itoa(len(guild.Channels))),
		field("Roles", strconv.Itoa(roles)),
		field("Created", created),
	}
	return embed
}

func serverIconHandler(ctx *discord.CommandContext) error {
	if ctx.GuildID() == "" {
		return errNotInGuild
	}
	guild, err := ctx.Gateway.Guild(ctx.GuildID())
	if err != nil {
		return ctx.Fail("Failed to fetch server icon.", err)
	}
	if guild.Icon == "" {
		return ctx.ReplyEphemeral("This server has no icon set.")
	}

	embed := shared.Embed(guild.Name, "", shared.ColorSuccess)
	embed.Image = &discordgo.MessageEmbedImage{URL: guild.IconURL("1024")}
	return ctx.ReplyEphemeralEmbed(embed)
}
