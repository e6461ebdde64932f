package guides

import (
	_ "embed"
	"fmt"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/bwmarrin/discordgo"
	"gopkg.in/yaml.v3"
)

//go:embed guides.yaml
var guidesYAML []byte

// Field is one embed field of a page
type Field struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Page is one embed of a guide
type Page struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Image       string  `yaml:"image"`
	Footer      string  `yaml:"footer"`
	Fields      []Field `yaml:"fields"`
}

// Content holds every guide
type Content struct {
	Tutorials map[string][]Page `yaml:"tutorials"`
	Method    []Page            `yaml:"method"`
}

// Load parses guide content. Every guide must have at least one page.
func Load(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse guides: %w", err)
	}
	if len(c.Method) == 0 {
		return nil, fmt.Errorf("parse guides: method has no pages")
	}
	for name, pages := range c.Tutorials {
		if len(pages) == 0 {
			return nil, fmt.Errorf("parse guides: tutorial %q has no pages", name)
		}
	}
	return &c, nil
}

// Default returns the embedded guide content
func Default() (*Content, error) {
	return Load(guidesYAML)
}

// Embeds renders pages with the standard colour and footer
func Embeds(pages []Page) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, len(pages))
	for i, p := range pages {
		embed := shared.Embed(p.Title, p.Description, shared.ColorSuccess)
		if p.Footer != "" {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: p.Footer}
		}
		if p.Image != "" {
			embed.Image = &discordgo.MessageEmbedImage{URL: p.Image}
		}
		for _, f := range p.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value})
		}
		out[i] = embed
	}
	return out
}
