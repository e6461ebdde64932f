// Package guides serves the beaming tutorials and the main method guide.
// The text lives in guides.yaml.
package guides

import (
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
)

// Commands returns /tutorials and /method over c
func Commands(c *Content) []*discord.Command {
	return []*discord.Command{
		createTutorialsCommand(c),
		createMethodCommand(c),
	}
}
