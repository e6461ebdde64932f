// Package events provides event handlers for message events
package events

import (
	"github.com/PancyStudios/BeamBotGo/internal/prefix"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents routes every new message through the dispatcher
func RegisterMessageEvents(client *discord.ExtendedClient, d *prefix.Dispatcher) {
	client.EventHandler.OnMessageCreate(onMessageCreate(d))
}

// onMessageCreate runs censorship and prefix commands. A panic is captured
// so one message cannot stop the event loop.
func onMessageCreate(d *prefix.Dispatcher) discord.MessageCreateHandler {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		defer errors.RecoverMiddleware()()
		d.Handle(m.Message)
	}
}
