package prefix

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	dt "github.com/PancyStudios/BeamBotGo/pkg/discord/discordtest"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/PancyStudios/BeamBotGo/pkg/store"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T) (*Dispatcher, *dt.MockGateway, *store.JSONConfigStore, *modlog.Bus) {
	t.Helper()
	gw := dt.NewMockGateway()
	cfg := store.NewJSONConfigStore(t.TempDir())
	bus := modlog.NewBus()
	t.Cleanup(bus.Close)

	help := func() []discord.HelpEntry {
		entries := make([]discord.HelpEntry, 12)
		for i := range entries {
			entries[i] = discord.HelpEntry{Name: "/cmd", Description: "does things"}
		}
		return entries
	}
	return New(gw, cfg, help, bus), gw, cfg, bus
}

func message(content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "msg-1",
		ChannelID: dt.ChannelID,
		GuildID:   dt.GuildID,
		Content:   content,
		Author:    &discordgo.User{ID: "author", Username: "author"},
	}
}

// sentContent matches a SendMessage payload by text and checks it replies
// to the triggering message
func sentContent(text string) interface{} {
	return mock.MatchedBy(func(m *discordgo.MessageSend) bool {
		return m.Content == text && m.Reference != nil && m.Reference.MessageID == "msg-1"
	})
}

func TestIgnoresBotsAndDMs(t *testing.T) {
	d, gw, cfg, _ := newDispatcher(t)
	cfg.AddPrefix(dt.GuildID, "!")

	bot := message("!ping")
	bot.Author.Bot = true
	assert.Equal(t, Ignored, d.Handle(bot))

	dm := message("!ping")
	dm.GuildID = ""
	assert.Equal(t, Ignored, d.Handle(dm))

	assert.Equal(t, Ignored, d.Handle(nil))
	gw.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestNoPrefixesConfigured(t *testing.T) {
	d, gw, _, _ := newDispatcher(t)

	assert.Equal(t, Ignored, d.Handle(message("!ping")))
	gw.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestPing(t *testing.T) {
	d, gw, cfg, _ := newDispatcher(t)
	cfg.AddPrefix(dt.GuildID, "?")
	cfg.AddPrefix(dt.GuildID, "!")
	gw.On("SendMessage", dt.ChannelID, sentContent("Pong!")).Return(&discordgo.Message{}, nil)

	assert.Equal(t, Dispatched, d.Handle(message("!PING")))
	assert.Equal(t, Ignored, d.Handle(message("ping")))
	gw.AssertNumberOfCalls(t, "SendMessage", 1)
}

func TestHelpListsFirstTen(t *testing.T) {
	d, gw, cfg, _ := newDispatcher(t)
	cfg.AddPrefix(dt.GuildID, "!")
	gw.On("SendMessage", dt.ChannelID, mock.MatchedBy(func(m *discordgo.MessageSend) bool {
		return len(m.Embeds) == 1 &&
			m.Embeds[0].Description == "Available commands (use /usage for details):" &&
			len(m.Embeds[0].Fields) == helpLimit
	})).Return(&discordgo.Message{}, nil)

	assert.Equal(t, Dispatched, d.Handle(message("!help")))
	gw.AssertExpectations(t)
}

var diceReply = regexp.MustCompile(`^You rolled a ([1-9]|1[0-9]|20)! \(1-20\)$`)

func TestDiceWithSides(t *testing.T) {
	d, gw, cfg, _ := newDispatcher(t)
	cfg.AddPrefix(dt.GuildID, "!")
	gw.On("SendMessage", dt.ChannelID, mock.MatchedBy(func(m *discordgo.MessageSend) bool {
		return diceReply.MatchString(m.Content)
	})).Return(&discordgo.Message{}, nil)

	assert.Equal(t, Dispatched, d.Handle(message("!dice 20")))
	gw.AssertExpectations(t)
}

func TestDiceSides(t *testing.T) {
	tests := []struct {
		args  []string
		sides int
		ok    bool
	}{
		{nil, 6, true},
		{[]string{"20"}, 20, true},
		{[]string{"abc"}, 6, true},
		{[]string{"0"}, 6, true},
		{[]string{"20abc"}, 20, true},
		{[]string{"3.5"}, 3, true},
		{[]string{"+8"}, 8, true},
		{[]string{"-"}, 6, true},
		{[]string{"99999999999999999999"}, 6, true},
		{[]string{"-3"}, 0, false},
		{[]string{"-3x"}, 0, false},
	}
	for _, tt := range tests {
		sides, ok := diceSides(tt.args)
		assert.Equal(t, tt.ok, ok, "%v", tt.args)
		assert.Equal(t, tt.sides, sides, "%v", tt.args)
	}
}

func TestNegativeDiceRejected(t *testing.T) {
	d, gw, cfg, _ := newDispatcher(t)
	cfg.AddPrefix(dt.GuildID, "!")
	gw.On("SendMessage", dt.ChannelID, sentContent("Please provide a valid number of sides.")).Return(&discordgo.Message{}, nil)

	assert.Equal(t, Dispatched, d.Handle(message("!dice -2")))
	gw.AssertExpectations(t)
}

func TestUnknownCommand(t *testing.T) {
	d, gw, cfg, _ := newDispatcher(t)
	cfg.AddPrefix(dt.GuildID, "!")
	gw.On("SendMessage", dt.ChannelID, sentContent("Unknown prefix command: ban. Use /help for commands.")).Return(&discordgo.Message{}, nil)

	assert.Equal(t, Unknown, d.Handle(message("!ban someone")))
	gw.AssertExpectations(t)
}

func TestSendFailureFallsBackToErrorMessage(t *testing.T) {
	d, gw, cfg, _ := newDispatcher(t)
	cfg.AddPrefix(dt.GuildID, "!")
	gw.On("SendMessage", dt.ChannelID, sentContent("Pong!")).Return(nil, errors.New("missing access"))
	gw.On("SendMessage", dt.ChannelID, sentContent(ErrorMessage)).Return(&discordgo.Message{}, nil)

	assert.Equal(t, Dispatched, d.Handle(message("!ping")))
	gw.AssertExpectations(t)
}

func TestRateLimitedWarnsOnce(t *testing.T) {
	d, gw, cfg, _ := newDispatcher(t)
	cfg.AddPrefix(dt.GuildID, "!")
	gw.On("SendMessage", dt.ChannelID, sentContent("Pong!")).Return(&discordgo.Message{}, nil)
	gw.On("SendMessage", dt.ChannelID, sentContent(LimitedMessage)).Return(&discordgo.Message{}, nil).Once()

	for i := 0; i < 3; i++ {
		require.Equal(t, Dispatched, d.Handle(message("!ping")))
	}
	assert.Equal(t, Limited, d.Handle(message("!ping")))
	assert.Equal(t, Limited, d.Handle(message("!ping")))

	gw.AssertNumberOfCalls(t, "SendMessage", 4)
	gw.AssertExpectations(t)
}

func TestLimitWarningResetsAfterAllowedCommand(t *testing.T) {
	d, _, _, _ := newDispatcher(t)

	assert.True(t, d.firstLimit("author"))
	assert.False(t, d.firstLimit("author"))
	d.clearLimit("author")
	assert.True(t, d.firstLimit("author"))
}

func TestFallbackReplyFailureIsTolerated(t *testing.T) {
	d, gw, cfg, _ := newDispatcher(t)
	cfg.AddPrefix(dt.GuildID, "!")
	gw.On("SendMessage", dt.ChannelID, mock.Anything).Return(nil, errors.New("missing access"))

	assert.Equal(t, Dispatched, d.Handle(message("!coin")))
	gw.AssertNumberOfCalls(t, "SendMessage", 2)
}

func TestCensorShortCircuitsCommands(t *testing.T) {
	d, gw, cfg, bus := newDispatcher(t)
	cfg.AddPrefix(dt.GuildID, "!")
	cfg.AddCensoredWord(dt.GuildID, "spoiler")
	events, cancel := bus.Subscribe(4)
	defer cancel()

	gw.On("DeleteMessage", dt.ChannelID, "msg-1").Return(nil)
	gw.On("Guild", dt.GuildID).Return(&discordgo.Guild{ID: dt.GuildID, Name: "Beamers"}, nil)
	gw.On("DirectMessage", "author", mock.MatchedBy(func(m *discordgo.MessageSend) bool {
		return len(m.Embeds) == 1 &&
			m.Embeds[0].Description == "Your message in Beamers was deleted due to containing a censored word."
	})).Return(nil)

	assert.Equal(t, Censored, d.Handle(message("!ping big SPOILER ahead")))

	gw.AssertExpectations(t)
	gw.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)

	select {
	case e := <-events:
		assert.Equal(t, modlog.EventCensor, e.Type)
		assert.Equal(t, "author", e.TargetID)
		assert.Equal(t, "spoiler", e.Detail)
	case <-time.After(time.Second):
		t.Fatal("no censor event")
	}
}

func TestCensorSkipsDMWhenDeleteFails(t *testing.T) {
	d, gw, cfg, _ := newDispatcher(t)
	cfg.AddCensoredWord(dt.GuildID, "spoiler")
	gw.On("DeleteMessage", dt.ChannelID, "msg-1").Return(errors.New("missing permissions"))

	assert.Equal(t, Censored, d.Handle(message("spoiler")))
	gw.AssertNotCalled(t, "DirectMessage", mock.Anything, mock.Anything)
}

func TestMatchPrefix(t *testing.T) {
	p, ok := matchPrefix([]string{"", "b!", "!"}, "!coin")
	assert.True(t, ok)
	assert.Equal(t, "!", p)

	_, ok = matchPrefix([]string{"b!"}, "!coin")
	assert.False(t, ok)
}

func TestParseCommand(t *testing.T) {
	name, args := parseCommand("  Dice   20 extra")
	assert.Equal(t, "dice", name)
	assert.Equal(t, []string{"20", "extra"}, args)

	name, args = parseCommand("   ")
	assert.Empty(t, name)
	assert.Empty(t, args)
}
