// Package settings - /cw, /ucw and /cwl commands
package settings

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func wordOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "word",
		Description: description,
		Required:    true,
	}
}

// censoredWord reads the word argument the way the store keeps it
func censoredWord(ctx *discord.CommandContext) (string, error) {
	word, err := ctx.ArgString("word")
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(word)), nil
}

// createCensorCommand creates the /cw command
func createCensorCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"cw",
		"Add a censored word",
		"settings",
		func(ctx *discord.CommandContext) error {
			word, err := censoredWord(ctx)
			if err != nil {
				return err
			}
			if !svc.Config.AddCensoredWord(ctx.GuildID(), word) {
				return ctx.ReplyEphemeral(fmt.Sprintf(`"%s" is already censored.`, word))
			}
			return ctx.ReplyEphemeral(fmt.Sprintf(`Added "%s" to censored words.`, word))
		},
	).WithOptions(wordOption("The word to censor")).
		RequirePermission(discordgo.PermissionManageGuild).
		WithHelp("Add censored word", "Use `/cw <word>` to add a censored word. Requires Moderator role or Manage Guild permission.")
}

// createUncensorCommand creates the /ucw command
func createUncensorCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"ucw",
		"Remove a censored word",
		"settings",
		func(ctx *discord.CommandContext) error {
			word, err := censoredWord(ctx)
			if err != nil {
				return err
			}
			if !svc.Config.RemoveCensoredWord(ctx.GuildID(), word) {
				return ctx.ReplyEphemeral(fmt.Sprintf(`"%s" is not censored.`, word))
			}
			return ctx.ReplyEphemeral(fmt.Sprintf(`Removed "%s" from censored words.`, word))
		},
	).WithOptions(wordOption("The word to uncensor")).
		RequirePermission(discordgo.PermissionManageGuild).
		WithHelp("Remove censored word", "Use `/ucw <word>` to remove a censored word. Requires Moderator role or Manage Guild permission.")
}

// createCensorListCommand creates the /cwl command
func createCensorListCommand(svc *shared.Services) *discord.Command {
	return discord.NewCommand(
		"cwl",
		"List censored words",
		"settings",
		func(ctx *discord.CommandContext) error {
			words := svc.Config.CensoredWords(ctx.GuildID())
			if len(words) == 0 {
				return ctx.ReplyEphemeral("No censored words.")
			}
			return ctx.ReplyEphemeralEmbed(shared.Embed("Censored Words", strings.Join(words, ", "), shared.ColorDanger))
		},
	).RequirePermission(discordgo.PermissionManageGuild).
		WithHelp("List censored words", "Use `/cwl` to list all censored words. Requires Moderator role or Manage Guild permission.")
}
