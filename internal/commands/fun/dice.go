// Package fun - /dice and /coin commands
package fun

import (
	"fmt"
	"math/rand"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// DefaultSides is used when /dice is given no sides, or zero
const DefaultSides = 6

// InvalidSidesMessage rejects a die with fewer than one side
const InvalidSidesMessage = "Please provide a valid number of sides."

// intn is swapped in tests
var intn = rand.Intn

// Roll returns a value in [1, sides]
func Roll(sides int) int {
	return intn(sides) + 1
}

// FlipCoin returns "Heads" or "Tails"
func FlipCoin() string {
	if intn(2) == 0 {
		return "Heads"
	}
	return "Tails"
}

// createDiceCommand creates the /dice command
func createDiceCommand() *discord.Command {
	return discord.NewCommand(
		"dice",
		"Roll a dice",
		"fun",
		diceHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "sides",
			Description: "Number of sides (default 6)",
		},
	).AsPublic().
		WithHelp("Roll a dice", "Use `/dice [sides]` to roll a die. Defaults to 6 sides. Example: `/dice 20`.")
}

func diceHandler(ctx *discord.CommandContext) error {
	sides, ok := ctx.OptInt("sides")
	if !ok || sides == 0 {
		sides = DefaultSides
	}
	if sides < 1 {
		return discord.Invalid(InvalidSidesMessage)
	}

	return ctx.ReplyEphemeralEmbed(shared.Embed(
		"Dice Roll",
		fmt.Sprintf("You rolled a %d! (1-%d)", Roll(int(sides)), sides),
		shared.ColorSuccess,
	))
}

// createCoinCommand creates the /coin command
func createCoinCommand() *discord.Command {
	return discord.NewCommand(
		"coin",
		"Flip a coin",
		"fun",
		func(ctx *discord.CommandContext) error {
			return ctx.ReplyEphemeralEmbed(shared.Embed(
				"Coin Flip",
				fmt.Sprintf("The coin landed on %s!", FlipCoin()),
				shared.ColorSuccess,
			))
		},
	).AsPublic().
		WithHelp("Flip a coin", "Use `/coin` to flip a coin (Heads or Tails).")
}
