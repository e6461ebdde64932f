package discord

import (
	"errors"
	"testing"

	dt "github.com/PancyStudios/BeamBotGo/pkg/discord/discordtest"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*ExtendedClient, *dt.MockGateway) {
	t.Helper()
	gw := dt.NewMockGateway()
	c := NewClientWithGateway(gw)
	t.Cleanup(c.Paginator.Close)
	return c, gw
}

func banCommand(ran *bool) *Command {
	return NewCommand("ban", "Ban a user", "mod", func(ctx *CommandContext) error {
		*ran = true
		if err := ctx.Gateway.Ban(ctx.GuildID(), "target", "No reason provided"); err != nil {
			return ctx.Fail("Failed to ban user.", err)
		}
		return ctx.Reply("banned")
	}).RequirePermission(discordgo.PermissionBanMembers)
}

func TestRegisterCommandRejectsUnmarked(t *testing.T) {
	c, _ := newTestClient(t)

	err := c.CommandHandler.RegisterCommand(NewCommand("open", "d", "c", func(*CommandContext) error { return nil }))
	assert.Error(t, err)
	assert.Zero(t, c.Commands.Size())
}

func TestRegisterCommandRejectsDuplicates(t *testing.T) {
	c, _ := newTestClient(t)
	run := func(*CommandContext) error { return nil }

	require.NoError(t, c.CommandHandler.RegisterCommand(NewCommand("ping", "d", "c", run).AsPublic()))
	assert.Error(t, c.CommandHandler.RegisterCommand(NewCommand("ping", "d", "c", run).AsPublic()))
}

func TestRegisterGroup(t *testing.T) {
	c, _ := newTestClient(t)
	run := func(*CommandContext) error { return nil }

	err := c.CommandHandler.RegisterGroup("prefix", "Manage prefixes",
		NewCommand("add", "Add a prefix", "config", run).RequirePermission(discordgo.PermissionManageGuild),
		NewCommand("list", "List prefixes", "config", run).AsPublic(),
	)
	require.NoError(t, err)

	_, ok := c.Commands.Get("prefix.add")
	assert.True(t, ok)
	_, ok = c.Commands.Get("prefix.list")
	assert.True(t, ok)

	appCmds := c.CommandHandler.ApplicationCommands()
	require.Len(t, appCmds, 1)
	assert.Len(t, appCmds[0].Options, 2)

	help := c.CommandHandler.HelpEntries()
	require.Len(t, help, 2)
	assert.Equal(t, "/prefix add", help[0].Name)
}

func TestRouterDeniesWithoutRoleOrPermission(t *testing.T) {
	c, gw := newTestClient(t)
	ran := false
	require.NoError(t, c.CommandHandler.RegisterCommand(banCommand(&ran)))

	c.HandleInteraction(dt.Command("ban").By("member", 0).Build())

	assert.False(t, ran)
	gw.AssertNotCalled(t, "Ban", mock.Anything, mock.Anything, mock.Anything)

	resp := gw.LastResponse()
	assert.Equal(t, DeniedMessage, dt.Content(resp))
	assert.True(t, dt.Ephemeral(resp))
}

func TestRouterAllowsModeratorRole(t *testing.T) {
	c, gw := newTestClient(t)
	ran := false
	require.NoError(t, c.CommandHandler.RegisterCommand(banCommand(&ran)))

	gw.On("Roles", dt.GuildID).Return([]*discordgo.Role{{ID: "mod-role", Name: "Moderator"}}, nil)
	gw.On("Ban", dt.GuildID, "target", "No reason provided").Return(nil)

	c.HandleInteraction(dt.Command("ban").By("member", 0, "mod-role").Build())

	assert.True(t, ran)
	assert.Equal(t, "banned", dt.Content(gw.LastResponse()))
	gw.AssertExpectations(t)
}

func TestRouterAllowsRequiredPermission(t *testing.T) {
	c, gw := newTestClient(t)
	ran := false
	require.NoError(t, c.CommandHandler.RegisterCommand(banCommand(&ran)))
	gw.On("Ban", dt.GuildID, "target", "No reason provided").Return(nil)

	c.HandleInteraction(dt.Command("ban").By("member", discordgo.PermissionBanMembers).Build())

	assert.True(t, ran)
}

func TestRouterGatewayFailureUsesFixedText(t *testing.T) {
	c, gw := newTestClient(t)
	ran := false
	require.NoError(t, c.CommandHandler.RegisterCommand(banCommand(&ran)))
	gw.On("Ban", dt.GuildID, "target", "No reason provided").Return(errors.New("missing access"))

	c.HandleInteraction(dt.Command("ban").By("admin", discordgo.PermissionAdministrator).Build())

	resp := gw.LastResponse()
	assert.Equal(t, "Failed to ban user.", dt.Content(resp))
	assert.True(t, dt.Ephemeral(resp))
	assert.Len(t, gw.Responses(), 1)
}

func TestRouterUnknownCommand(t *testing.T) {
	c, gw := newTestClient(t)

	assert.NotPanics(t, func() {
		c.HandleInteraction(dt.Command("nope").Build())
	})

	resp := gw.LastResponse()
	assert.Equal(t, UnknownCommandMessage, dt.Content(resp))
	assert.True(t, dt.Ephemeral(resp))
}

func TestRouterIgnoresOtherInteractionTypes(t *testing.T) {
	c, gw := newTestClient(t)

	i := dt.Command("ping").Build()
	i.Type = discordgo.InteractionPing
	c.HandleInteraction(i)

	i = dt.Command("ping").Build()
	i.Type = discordgo.InteractionModalSubmit
	c.HandleInteraction(i)

	c.HandleInteraction(dt.Button("some-other-button", dt.InvokerID))

	assert.Empty(t, gw.Responses())
}

func TestRouterValidationErrorIsReplied(t *testing.T) {
	c, gw := newTestClient(t)
	require.NoError(t, c.CommandHandler.RegisterCommand(
		NewCommand("clear", "Clear", "mod", func(ctx *CommandContext) error {
			_, err := ctx.ArgIntInRange("amount", Bounds{Min: 1, Max: 100}, "Amount must be between 1 and 100.")
			return err
		}).RequirePermission(discordgo.PermissionManageMessages),
	))

	c.HandleInteraction(dt.Command("clear", dt.Int("amount", 0)).By("m", discordgo.PermissionManageMessages).Build())

	resp := gw.LastResponse()
	assert.Equal(t, "Amount must be between 1 and 100.", dt.Content(resp))
	assert.True(t, dt.Ephemeral(resp))
}

func TestRouterRecoversPanics(t *testing.T) {
	c, gw := newTestClient(t)
	require.NoError(t, c.CommandHandler.RegisterCommand(
		NewCommand("boom", "Panics", "test", func(*CommandContext) error {
			panic("boom")
		}).AsPublic(),
	))

	assert.NotPanics(t, func() {
		c.HandleInteraction(dt.Command("boom").Build())
	})
	assert.Equal(t, FailureMessage, dt.Content(gw.LastResponse()))
}

func TestRouterErrorAfterReplyDoesNotReplyTwice(t *testing.T) {
	c, gw := newTestClient(t)
	require.NoError(t, c.CommandHandler.RegisterCommand(
		NewCommand("twice", "Replies then fails", "test", func(ctx *CommandContext) error {
			_ = ctx.Reply("done")
			return errors.New("late failure")
		}).AsPublic(),
	))

	c.HandleInteraction(dt.Command("twice").Build())

	assert.Len(t, gw.Responses(), 1)
}

func TestRouterForwardsPageControls(t *testing.T) {
	c, gw := newTestClient(t)

	c.HandleInteraction(dt.Button("page:unknown:next", dt.InvokerID))

	resp := gw.LastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, resp.Type)
}
