// Package events wires the gateway events the bot listens to.
// Events are organized by category (ready, guild, message, shard).
package events

import (
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/prefix"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, d *prefix.Dispatcher) {
	logger.System("📋 Registering bot events...", "Events")

	RegisterReadyEvent(client)
	RegisterGuildEvents(client)
	RegisterMessageEvents(client, d)
	RegisterShardEvents(client)

	logger.Success(fmt.Sprintf("✅ %d event handlers registered", client.EventHandler.Count()), "Events")
}
