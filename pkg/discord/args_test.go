package discord

import (
	"errors"
	"testing"

	dt "github.com/PancyStudios/BeamBotGo/pkg/discord/discordtest"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(i *discordgo.InteractionCreate) (*CommandContext, *dt.MockGateway) {
	gw := dt.NewMockGateway()
	return &CommandContext{Gateway: gw, Interaction: i}, gw
}

func TestBoundsCheck(t *testing.T) {
	clear := Bounds{Min: 1, Max: 100}
	mute := Bounds{Min: 1, Max: 40320}

	tests := []struct {
		name  string
		b     Bounds
		value int64
		ok    bool
	}{
		{"clear lower edge", clear, 1, true},
		{"clear upper edge", clear, 100, true},
		{"clear zero", clear, 0, false},
		{"clear above", clear, 101, false},
		{"mute lower edge", mute, 1, true},
		{"mute upper edge", mute, 40320, true},
		{"mute zero", mute, 0, false},
		{"mute above", mute, 40321, false},
		{"negative", mute, -5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Check(tt.value, "out of range")
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "out of range", ve.Message)
		})
	}
}

func TestArgIntInRangeNeverClamps(t *testing.T) {
	ctx, _ := newTestContext(dt.Command("clear", dt.Int("amount", 150)).Build())

	v, err := ctx.ArgIntInRange("amount", Bounds{Min: 1, Max: 100}, "Amount must be between 1 and 100.")
	assert.Zero(t, v)
	assert.EqualError(t, err, "Amount must be between 1 and 100.")
}

func TestArgAccessors(t *testing.T) {
	target := &discordgo.User{ID: "u1", Username: "target"}
	role := &discordgo.Role{ID: "r1", Name: "Helper"}
	channel := &discordgo.Channel{ID: "c2", Type: discordgo.ChannelTypeGuildText}

	i := dt.Command("test",
		dt.User("user", "u1"),
		dt.Role("role", "r1"),
		dt.Channel("channel", "c2"),
		dt.String("reason", "spam"),
		dt.String("blank", "   "),
		dt.Int("amount", 7),
	).
		WithUser(target, &discordgo.Member{Nick: "nick"}).
		WithRole(role).
		WithChannel(channel).
		Build()

	ctx, _ := newTestContext(i)

	u, err := ctx.ArgUser("user")
	require.NoError(t, err)
	assert.Equal(t, "target", u.Username)

	m, err := ctx.ArgMember("user")
	require.NoError(t, err)
	assert.Equal(t, "nick", m.Nick)
	assert.Equal(t, "u1", m.User.ID)
	assert.Equal(t, dt.GuildID, m.GuildID)

	r, err := ctx.ArgRole("role")
	require.NoError(t, err)
	assert.Equal(t, "Helper", r.Name)

	ch, ok := ctx.OptChannel("channel")
	require.True(t, ok)
	assert.Equal(t, discordgo.ChannelTypeGuildText, ch.Type)

	s, err := ctx.ArgString("reason")
	require.NoError(t, err)
	assert.Equal(t, "spam", s)

	assert.Equal(t, "fallback", ctx.OptString("blank", "fallback"))
	assert.Equal(t, "fallback", ctx.OptString("absent", "fallback"))

	n, ok := ctx.OptInt("amount")
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)

	_, ok = ctx.OptInt("absent")
	assert.False(t, ok)
}

func TestMissingArguments(t *testing.T) {
	ctx, _ := newTestContext(dt.Command("test").Build())

	_, err := ctx.ArgUser("user")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = ctx.ArgString("word")
	assert.True(t, errors.As(err, &ve))

	_, err = ctx.ArgInt("amount")
	assert.True(t, errors.As(err, &ve))

	_, ok := ctx.OptChannel("channel")
	assert.False(t, ok)
}

func TestArgMemberRequiresGuildMember(t *testing.T) {
	i := dt.Command("mute", dt.User("user", "u1")).
		WithUser(&discordgo.User{ID: "u1"}, nil).
		Build()
	ctx, _ := newTestContext(i)

	_, err := ctx.ArgMember("user")
	assert.EqualError(t, err, "That user is not a member of this server.")
}

func TestOptionsInsideSubcommand(t *testing.T) {
	ctx, _ := newTestContext(dt.Command("prefix", dt.Sub("add", dt.String("prefix", "!"))).Build())

	assert.Equal(t, "add", ctx.Subcommand())

	p, err := ctx.ArgString("prefix")
	require.NoError(t, err)
	assert.Equal(t, "!", p)
}
