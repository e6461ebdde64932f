package utils

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const usagePerPage = 5

// createUsageCommand creates the /usage command
func createUsageCommand() *discord.Command {
	return discord.NewCommand(
		"usage",
		"Detailed usage for commands",
		"utils",
		usageHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "command",
			Description: "Specific command to get usage for",
		},
	).AsPublic().
		WithHelp("Detailed command usage", "Use `/usage [command]` for detailed command usage. Example: `/usage ping`.")
}

func usageHandler(ctx *discord.CommandContext) error {
	entries := ctx.Client.CommandHandler.HelpEntries()

	if query := strings.ToLower(ctx.OptString("command", "")); query != "" {
		entry, ok := findUsage(entries, query)
		if !ok {
			return ctx.ReplyEphemeral(fmt.Sprintf(`Command "%s" not found. Use /usage for all commands.`, query))
		}
		return ctx.ReplyEphemeralEmbed(shared.Embed(
			"Command Usage",
			fmt.Sprintf("**%s**\n%s", entry.Name, entry.Usage),
			shared.ColorSuccess,
		))
	}

	pages := usagePages(entries)
	if len(pages) == 0 {
		return ctx.ReplyEphemeral("No commands registered.")
	}
	return ctx.Client.Paginator.Open(ctx, pages, true)
}

// findUsage returns the first entry whose lowercased name equals query or
// starts with it
func findUsage(entries []discord.HelpEntry, query string) (discord.HelpEntry, bool) {
	query = strings.TrimPrefix(query, "/")
	for _, e := range entries {
		name := strings.TrimPrefix(strings.ToLower(e.Name), "/")
		if name == query || strings.HasPrefix(name, query) {
			return e, true
		}
	}
	return discord.HelpEntry{}, false
}

// usagePages splits entries into pages of usagePerPage
func usagePages(entries []discord.HelpEntry) []*discordgo.MessageEmbed {
	total := (len(entries) + usagePerPage - 1) / usagePerPage
	pages := make([]*discordgo.MessageEmbed, 0, total)

	for start := 0; start < len(entries); start += usagePerPage {
		end := start + usagePerPage
		if end > len(entries) {
			end = len(entries)
		}

		page := shared.Embed("Command Usage", "", shared.ColorSuccess)
		page.Footer = shared.FooterWith(fmt.Sprintf("Page %d/%d", len(pages)+1, total))
		for _, e := range entries[start:end] {
			page.Fields = append(page.Fields, &discordgo.MessageEmbedField{Name: e.Name, Value: e.Usage})
		}
		pages = append(pages, page)
	}
	return pages
}
