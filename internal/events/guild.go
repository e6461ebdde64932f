// Package events provides event handlers for guild (server) events
package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// joinWindow separates real joins from the GuildCreate burst sent on connect
const joinWindow = 10 * time.Second

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnGuildCreate(onGuildCreate(client.Gateway, time.Now))
	client.EventHandler.OnGuildDelete(onGuildDelete)
}

// welcomeEmbed is posted in the system channel of a newly joined server
func welcomeEmbed() *discordgo.MessageEmbed {
	embed := shared.Embed(
		"Thanks for adding me! 🎉",
		"Hi, I'm **BeamBot**. Use `/help` to see every command and `/usage` for details.",
		shared.ColorSuccess,
	)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "🔧 Moderation", Value: "`/ban`, `/kick`, `/mute`, `/warn` and more", Inline: true},
		{Name: "📚 Guides", Value: "`/tutorials` and `/method`", Inline: true},
		{Name: "❓ Help", Value: "`/help` and `/usage`", Inline: true},
	}
	return embed
}

// onGuildCreate greets servers the bot has just joined
func onGuildCreate(g discord.Gateway, now func() time.Time) discord.GuildCreateHandler {
	return func(_ *discordgo.Session, e *discordgo.GuildCreate) {
		if e.JoinedAt.Before(now().Add(-joinWindow)) {
			return
		}

		logger.Info(fmt.Sprintf("➕ Added to server: %s (ID: %s)", e.Name, e.ID), "Guild")
		logger.Debug(fmt.Sprintf("   Members: %d | Channels: %d", e.MemberCount, len(e.Channels)), "Guild")

		if e.SystemChannelID == "" {
			return
		}
		if _, err := g.SendMessage(e.SystemChannelID, &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{welcomeEmbed()},
		}); err != nil {
			logger.Error(fmt.Sprintf("Error sending welcome message: %v", err), "Guild")
		}
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("Server %s became unavailable", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Removed from server ID: %s", g.ID), "Guild")
}
