package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
)

// createUptimeCommand creates the /uptime command
func createUptimeCommand() *discord.Command {
	return discord.NewCommand(
		"uptime",
		"Check bot uptime",
		"utils",
		uptimeHandler,
	).AsPublic().
		WithHelp("Check bot uptime", "Use `/uptime` to see how long the bot has been running.")
}

func uptimeHandler(ctx *discord.CommandContext) error {
	return ctx.ReplyEmbed(shared.Embed(
		"Bot Uptime",
		"Bot has been running for "+formatDuration(ctx.Client.Uptime()),
		shared.ColorSuccess,
	))
}

// formatDuration renders whole seconds as "Xd Xh Xm Xs"
func formatDuration(dur time.Duration) string {
	total := int64(dur / time.Second)
	if total < 0 {
		total = 0
	}
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	seconds := total % 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
}
