// Package prefix handles plain guild messages: it enforces the censored word
// list and runs the small set of commands reachable through a configured
// text prefix.
package prefix

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/BeamBotGo/internal/commands/fun"
	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/PancyStudios/BeamBotGo/pkg/ratelimit"
	"github.com/PancyStudios/BeamBotGo/pkg/store"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// Replies of the prefix path
const (
	ErrorMessage    = "An error occurred. Try the slash command instead."
	LimitedMessage  = "You're sending commands too fast. Try again in a moment."
	helpDescription = "Available commands (use /usage for details):"
	helpLimit       = 10
)

// Outcome is what Handle did with a message
type Outcome int

const (
	// Ignored messages are not commands and contain no censored word
	Ignored Outcome = iota
	// Censored messages contained a censored word and were deleted
	Censored
	// Dispatched messages ran a known command
	Dispatched
	// Unknown messages had a prefix but named no known command
	Unknown
	// Limited messages were dropped by the per-user rate limit
	Limited
)

// HelpSource lists the slash command catalogue
type HelpSource func() []discord.HelpEntry

// Dispatcher routes guild messages. It never checks permissions: every
// prefix command is harmless.
type Dispatcher struct {
	gateway discord.Gateway
	config  store.ConfigStore
	help    HelpSource
	events  *modlog.Bus
	limiter *ratelimit.KeyedLimiter

	// warned holds users already told they are limited, until their
	// next allowed command
	mu     sync.Mutex
	warned map[string]struct{}
}

// New creates a dispatcher. Each user may run one prefix command per
// second, with bursts of three.
func New(g discord.Gateway, config store.ConfigStore, help HelpSource, events *modlog.Bus) *Dispatcher {
	return &Dispatcher{
		gateway: g,
		config:  config,
		help:    help,
		events:  events,
		limiter: ratelimit.New(rate.Every(time.Second), 3, 10*time.Minute),
		warned:  make(map[string]struct{}),
	}
}

// Handle processes one message. Censorship always runs before prefix
// matching.
func (d *Dispatcher) Handle(m *discordgo.Message) Outcome {
	if m == nil || m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return Ignored
	}

	if word, ok := d.censoredWord(m); ok {
		d.censor(m, word)
		return Censored
	}

	prefixes := d.config.Prefixes(m.GuildID)
	if len(prefixes) == 0 {
		return Ignored
	}
	prefix, ok := matchPrefix(prefixes, m.Content)
	if !ok {
		return Ignored
	}

	if !d.limiter.Allow(m.Author.ID) {
		logger.Debug(fmt.Sprintf("Prefix command from %s rate limited", m.Author.ID), "Prefix")
		if d.firstLimit(m.Author.ID) {
			if err := d.reply(m, LimitedMessage); err != nil {
				logger.Debug(fmt.Sprintf("Could not warn %s about the rate limit: %v", m.Author.ID, err), "Prefix")
			}
		}
		return Limited
	}
	d.clearLimit(m.Author.ID)
	if d.limiter.Len() > 1024 {
		d.limiter.Sweep()
	}

	name, args := parseCommand(m.Content[len(prefix):])
	return d.dispatch(m, name, args)
}

// firstLimit records that userID was warned and reports whether this is
// the first warning since their last allowed command
func (d *Dispatcher) firstLimit(userID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.warned[userID]; ok {
		return false
	}
	d.warned[userID] = struct{}{}
	return true
}

func (d *Dispatcher) clearLimit(userID string) {
	d.mu.Lock()
	delete(d.warned, userID)
	d.mu.Unlock()
}

// censoredWord returns the first configured word found in the message,
// ignoring case
func (d *Dispatcher) censoredWord(m *discordgo.Message) (string, bool) {
	words := d.config.CensoredWords(m.GuildID)
	if len(words) == 0 {
		return "", false
	}
	content := strings.ToLower(m.Content)
	for _, w := range words {
		if w != "" && strings.Contains(content, strings.ToLower(w)) {
			return w, true
		}
	}
	return "", false
}

// censor deletes the message and tells the author why. The DM is only
// attempted once the delete went through.
func (d *Dispatcher) censor(m *discordgo.Message, word string) {
	if err := d.gateway.DeleteMessage(m.ChannelID, m.ID); err != nil {
		logger.Warn(fmt.Sprintf("Failed to delete censored message in guild %s: %v", m.GuildID, err), "Prefix")
		return
	}

	d.events.Publish(modlog.Event{
		Type:      modlog.EventCensor,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		TargetID:  m.Author.ID,
		Detail:    word,
	})

	notice := shared.Embed(
		"Message Deleted",
		fmt.Sprintf("Your message in %s was deleted due to containing a censored word.", d.guildName(m.GuildID)),
		shared.ColorDanger,
	)
	if err := d.gateway.DirectMessage(m.Author.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{notice},
	}); err != nil {
		logger.Debug(fmt.Sprintf("Could not DM %s about a censored message: %v", m.Author.ID, err), "Prefix")
	}
}

func (d *Dispatcher) guildName(guildID string) string {
	if g, err := d.gateway.Guild(guildID); err == nil && g.Name != "" {
		return g.Name
	}
	return guildID
}

// matchPrefix returns the first configured prefix the content starts with
func matchPrefix(prefixes []string, content string) (string, bool) {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(content, p) {
			return p, true
		}
	}
	return "", false
}

// parseCommand splits the text after the prefix into a lowercased command
// name and its arguments
func parseCommand(rest string) (string, []string) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

func (d *Dispatcher) dispatch(m *discordgo.Message, name string, args []string) Outcome {
	var err error
	switch name {
	case "ping":
		err = d.reply(m, "Pong!")
	case "help":
		err = d.replyEmbed(m, d.helpEmbed())
	case "coin":
		err = d.reply(m, fmt.Sprintf("The coin landed on %s!", fun.FlipCoin()))
	case "dice":
		sides, ok := diceSides(args)
		if !ok {
			err = d.reply(m, fun.InvalidSidesMessage)
			break
		}
		err = d.reply(m, fmt.Sprintf("You rolled a %d! (1-%d)", fun.Roll(sides), sides))
	default:
		if err := d.reply(m, fmt.Sprintf("Unknown prefix command: %s. Use /help for commands.", name)); err != nil {
			logger.Warn(fmt.Sprintf("Failed to answer unknown prefix command: %v", err), "Prefix")
		}
		return Unknown
	}

	if err != nil {
		logger.Error(fmt.Sprintf("Prefix command error: %s: %v", name, err), "Prefix")
		if err := d.reply(m, ErrorMessage); err != nil {
			logger.Debug(fmt.Sprintf("Could not send the fallback reply: %v", err), "Prefix")
		}
	}
	return Dispatched
}

// diceSides reads the optional side count from the leading digits of the
// first argument, so "20abc" is 20. No number, or zero, means the default
// die; negative counts are rejected.
func diceSides(args []string) (int, bool) {
	if len(args) == 0 {
		return fun.DefaultSides, true
	}
	n, ok := leadingInt(args[0])
	if !ok || n == 0 {
		return fun.DefaultSides, true
	}
	if n < 1 {
		return 0, false
	}
	return n, true
}

// leadingInt parses an optional sign followed by the digits that start s
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// helpEmbed lists the first entries of the slash catalogue
func (d *Dispatcher) helpEmbed() *discordgo.MessageEmbed {
	embed := shared.Embed("Bot Commands", helpDescription, shared.ColorSuccess)
	if d.help == nil {
		return embed
	}
	entries := d.help()
	if len(entries) > helpLimit {
		entries = entries[:helpLimit]
	}
	for _, e := range entries {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   e.Name,
			Value:  e.Description,
			Inline: true,
		})
	}
	return embed
}

func (d *Dispatcher) reply(m *discordgo.Message, content string) error {
	_, err := d.gateway.SendMessage(m.ChannelID, &discordgo.MessageSend{
		Content:   content,
		Reference: m.Reference(),
	})
	return err
}

func (d *Dispatcher) replyEmbed(m *discordgo.Message, embed *discordgo.MessageEmbed) error {
	_, err := d.gateway.SendMessage(m.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Reference: m.Reference(),
	})
	return err
}
