// Package fun - /poll command
package fun

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// pollReactions are added in order, one per option
var pollReactions = []string{
	"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣",
	"6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟",
}

type pollArgs struct {
	Question string
	Options  []string
}

func parsePollArgs(ctx *discord.CommandContext) (pollArgs, error) {
	question, err := ctx.ArgString("question")
	if err != nil {
		return pollArgs{}, err
	}
	raw, err := ctx.ArgString("options")
	if err != nil {
		return pollArgs{}, err
	}
	return pollArgs{Question: question, Options: splitOptions(raw)}, nil
}

// splitOptions splits on commas and trims each option
func splitOptions(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// pollEmbed numbers the options from 1
func pollEmbed(args pollArgs) *discordgo.MessageEmbed {
	lines := make([]string, len(args.Options))
	for i, o := range args.Options {
		lines[i] = fmt.Sprintf("%d. %s", i+1, o)
	}
	return shared.Embed("Poll: "+args.Question, strings.Join(lines, "\n"), shared.ColorSuccess)
}

// createPollCommand creates the /poll command
func createPollCommand() *discord.Command {
	return discord.NewCommand(
		"poll",
		"Create a poll",
		"fun",
		pollHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "question",
			Description: "The question",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "options",
			Description: "Comma-separated options",
			Required:    true,
		},
	).AsPublic().
		WithHelp("Create a poll", "Use `/poll <question> <options>` to create a poll. Options are comma-separated. Example: `/poll Favorite color? Red,Blue,Green`.")
}

func pollHandler(ctx *discord.CommandContext) error {
	args, err := parsePollArgs(ctx)
	if err != nil {
		return err
	}

	if err := ctx.ReplyEmbed(pollEmbed(args)); err != nil {
		return ctx.Fail("Failed to create poll. Check permissions.", err)
	}

	msg, err := ctx.Gateway.OriginalResponse(ctx.Interaction.Interaction)
	if err != nil {
		return fmt.Errorf("fetch poll message: %w", err)
	}

	n := len(args.Options)
	if n > len(pollReactions) {
		n = len(pollReactions)
	}
	for _, emoji := range pollReactions[:n] {
		if err := ctx.Gateway.React(msg.ChannelID, msg.ID, emoji); err != nil {
			return fmt.Errorf("add poll reaction: %w", err)
		}
	}
	return nil
}
