package mod

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	dt "github.com/PancyStudios/BeamBotGo/pkg/discord/discordtest"
	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"github.com/PancyStudios/BeamBotGo/pkg/store"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const admin = discordgo.PermissionAdministrator

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	client *discord.ExtendedClient
	gw     *dt.MockGateway
	svc    *shared.Services
	events <-chan modlog.Event
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gw := dt.NewMockGateway()
	client := discord.NewClientWithGateway(gw)
	t.Cleanup(client.Paginator.Close)

	bus := modlog.NewBus()
	t.Cleanup(bus.Close)
	events, cancel := bus.Subscribe(16)
	t.Cleanup(cancel)

	svc := &shared.Services{
		Config:   store.NewJSONConfigStore(t.TempDir()),
		Warnings: store.NewMemoryWarningStore(),
		Events:   bus,
		Now:      func() time.Time { return fixedNow },
	}
	for _, cmd := range Commands(svc) {
		require.NoError(t, client.CommandHandler.RegisterCommand(cmd))
	}
	return &harness{client: client, gw: gw, svc: svc, events: events}
}

func (h *harness) run(b *dt.Builder) *discordgo.InteractionResponse {
	h.client.HandleInteraction(b.Build())
	return h.gw.LastResponse()
}

func (h *harness) nextEvent(t *testing.T) modlog.Event {
	t.Helper()
	select {
	case e := <-h.events:
		return e
	case <-time.After(time.Second):
		t.Fatal("no moderation event published")
		return modlog.Event{}
	}
}

func target() (*discordgo.User, *discordgo.Member) {
	return &discordgo.User{ID: "target", Username: "target"}, &discordgo.Member{}
}

func TestBanDeniedWithoutPermission(t *testing.T) {
	h := newHarness(t)

	resp := h.run(dt.Command("ban", dt.User("user", "target")).By("member", 0))

	assert.Equal(t, discord.DeniedMessage, dt.Content(resp))
	assert.True(t, dt.Ephemeral(resp))
	h.gw.AssertNotCalled(t, "Ban", mock.Anything, mock.Anything, mock.Anything)
}

func TestBanAllowedForModeratorRole(t *testing.T) {
	h := newHarness(t)
	h.gw.On("Roles", dt.GuildID).Return([]*discordgo.Role{{ID: "r1", Name: discord.ModeratorRole}}, nil)
	h.gw.On("Ban", dt.GuildID, "target", "spam").Return(nil)

	resp := h.run(dt.Command("ban", dt.User("user", "target"), dt.String("reason", "spam")).By("mod", 0, "r1"))

	embed := dt.FirstEmbed(resp)
	require.NotNil(t, embed)
	assert.Equal(t, "User Banned", embed.Title)
	assert.Equal(t, "Banned <@target> for: spam", embed.Description)
	assert.False(t, dt.Ephemeral(resp))

	e := h.nextEvent(t)
	assert.Equal(t, modlog.EventBan, e.Type)
	assert.Equal(t, "target", e.TargetID)
	assert.Equal(t, "mod", e.ModeratorID)
	assert.Equal(t, dt.GuildID, e.GuildID)
}

func TestBanDefaultReasonAndFailure(t *testing.T) {
	h := newHarness(t)
	h.gw.On("Ban", dt.GuildID, "target", store.DefaultReason).Return(errors.New("missing access"))

	resp := h.run(dt.Command("ban", dt.User("user", "target")).By("admin", admin))

	assert.Equal(t, "Failed to ban user.", dt.Content(resp))
	assert.True(t, dt.Ephemeral(resp))
}

func TestKickRequiresMember(t *testing.T) {
	h := newHarness(t)

	resp := h.run(dt.Command("kick", dt.User("user", "gone")).By("admin", admin))

	assert.Equal(t, "That user is not a member of this server.", dt.Content(resp))
	h.gw.AssertNotCalled(t, "Kick", mock.Anything, mock.Anything, mock.Anything)
}

func TestMuteOutOfRange(t *testing.T) {
	for _, minutes := range []int64{0, 40321} {
		h := newHarness(t)
		u, m := target()

		resp := h.run(dt.Command("mute", dt.User("user", u.ID), dt.Int("duration_minutes", minutes)).
			By("admin", admin).WithUser(u, m))

		assert.Equal(t, shared.MuteMessage, dt.Content(resp), "minutes=%d", minutes)
		h.gw.AssertNotCalled(t, "Timeout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestMuteSetsTimeout(t *testing.T) {
	h := newHarness(t)
	u, m := target()
	until := fixedNow.Add(30 * time.Minute)
	h.gw.On("Timeout", dt.GuildID, "target", &until, "flooding").Return(nil)

	resp := h.run(dt.Command("mute", dt.User("user", u.ID), dt.Int("duration_minutes", 30), dt.String("reason", "flooding")).
		By("admin", admin).WithUser(u, m))

	embed := dt.FirstEmbed(resp)
	require.NotNil(t, embed)
	assert.Equal(t, "User Muted", embed.Title)
	assert.Contains(t, embed.Description, "for 30 minutes")
	h.gw.AssertExpectations(t)
}

func TestMuteAcceptsBoundaries(t *testing.T) {
	for _, minutes := range []int64{1, 40320} {
		h := newHarness(t)
		u, m := target()
		until := fixedNow.Add(time.Duration(minutes) * time.Minute)
		h.gw.On("Timeout", dt.GuildID, "target", &until, store.DefaultReason).Return(nil)

		resp := h.run(dt.Command("mute", dt.User("user", u.ID), dt.Int("duration_minutes", minutes)).
			By("admin", admin).WithUser(u, m))

		require.NotNil(t, dt.FirstEmbed(resp), "minutes=%d", minutes)
		h.gw.AssertExpectations(t)
	}
}

func TestUnmuteRequiresActiveTimeout(t *testing.T) {
	h := newHarness(t)
	u, m := target()
	past := fixedNow.Add(-time.Minute)
	m.CommunicationDisabledUntil = &past

	resp := h.run(dt.Command("unmute", dt.User("user", u.ID)).By("admin", admin).WithUser(u, m))

	assert.Equal(t, "This user is not currently muted.", dt.Content(resp))
	h.gw.AssertNotCalled(t, "Timeout", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUnmuteClearsTimeout(t *testing.T) {
	h := newHarness(t)
	u, m := target()
	until := fixedNow.Add(time.Hour)
	m.CommunicationDisabledUntil = &until
	h.gw.On("Timeout", dt.GuildID, "target", (*time.Time)(nil), "").Return(nil)

	resp := h.run(dt.Command("unmute", dt.User("user", u.ID)).By("admin", admin).WithUser(u, m))

	require.NotNil(t, dt.FirstEmbed(resp))
	h.gw.AssertExpectations(t)
	assert.Equal(t, modlog.EventUnmute, h.nextEvent(t).Type)
}

func TestWarnAccumulatesAndClears(t *testing.T) {
	h := newHarness(t)
	u, _ := target()
	h.gw.On("Guild", dt.GuildID).Return(&discordgo.Guild{ID: dt.GuildID, Name: "Beamers"}, nil)
	h.gw.On("DirectMessage", "target", mock.Anything).Return(nil)

	var resp *discordgo.InteractionResponse
	for i := 0; i < 3; i++ {
		resp = h.run(dt.Command("warn", dt.User("user", u.ID), dt.String("reason", "spam")).
			By("admin", admin).WithUser(u, nil))
	}
	embed := dt.FirstEmbed(resp)
	require.NotNil(t, embed)
	assert.Contains(t, embed.Description, "Total Warnings: 3")
	assert.Empty(t, embed.Fields)

	resp = h.run(dt.Command("warnings", dt.User("user", u.ID)).By("admin", admin).WithUser(u, nil))
	embed = dt.FirstEmbed(resp)
	require.NotNil(t, embed)
	assert.Len(t, embed.Fields, 3)
	assert.True(t, dt.Ephemeral(resp))

	resp = h.run(dt.Command("clearwarnings", dt.User("user", u.ID)).By("admin", admin).WithUser(u, nil))
	assert.Equal(t, "Cleared all warnings for target.", dt.Content(resp))

	resp = h.run(dt.Command("clearwarnings", dt.User("user", u.ID)).By("admin", admin).WithUser(u, nil))
	assert.Equal(t, "target has no warnings to clear.", dt.Content(resp))
}

func TestWarnNotesFailedDM(t *testing.T) {
	h := newHarness(t)
	u, _ := target()
	h.gw.On("Guild", dt.GuildID).Return(nil, errors.New("unknown guild"))
	h.gw.On("DirectMessage", "target", mock.Anything).Return(errors.New("dms closed"))

	resp := h.run(dt.Command("warn", dt.User("user", u.ID)).By("admin", admin).WithUser(u, nil))

	embed := dt.FirstEmbed(resp)
	require.NotNil(t, embed)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Could not send DM to user.", embed.Fields[0].Value)
}

func TestClearOutOfRange(t *testing.T) {
	h := newHarness(t)

	resp := h.run(dt.Command("clear", dt.Int("amount", 101)).By("admin", admin))

	assert.Equal(t, shared.ClearMessage, dt.Content(resp))
	h.gw.AssertNotCalled(t, "BulkDelete", mock.Anything, mock.Anything)
}

func TestClearReportsDeletedCount(t *testing.T) {
	h := newHarness(t)
	h.gw.On("BulkDelete", dt.ChannelID, 50).Return(12, nil)

	h.run(dt.Command("clear", dt.Int("amount", 50)).By("admin", admin))

	edits := h.gw.Edits()
	require.Len(t, edits, 1)
	require.NotNil(t, edits[0].Embeds)
	assert.Equal(t, "Deleted 12 messages", (*edits[0].Embeds)[0].Description)

	e := h.nextEvent(t)
	assert.Equal(t, modlog.EventClear, e.Type)
	assert.Equal(t, "12 messages", e.Detail)
}

func TestClearAcceptsBoundaries(t *testing.T) {
	for _, amount := range []int{1, 100} {
		h := newHarness(t)
		h.gw.On("BulkDelete", dt.ChannelID, amount).Return(amount, nil)

		h.run(dt.Command("clear", dt.Int("amount", int64(amount))).By("admin", admin))

		edits := h.gw.Edits()
		require.Len(t, edits, 1, "amount=%d", amount)
		require.NotNil(t, edits[0].Embeds)
		assert.Equal(t, fmt.Sprintf("Deleted %d messages", amount), (*edits[0].Embeds)[0].Description)
		h.gw.AssertExpectations(t)
	}
}

func TestLockAndUnlock(t *testing.T) {
	h := newHarness(t)
	text := &discordgo.Channel{ID: "general", Type: discordgo.ChannelTypeGuildText}
	h.gw.On("UpdateEveryoneOverwrite", dt.GuildID, "general", int64(lockedPermissions), int64(0)).Return(nil).Once()
	h.gw.On("UpdateEveryoneOverwrite", dt.GuildID, "general", int64(0), int64(lockedPermissions)).Return(nil).Once()
	h.gw.On("SendMessage", "general", mock.Anything).Return(&discordgo.Message{ID: "m"}, nil)

	resp := h.run(dt.Command("lock", dt.Channel("channel", "general")).By("admin", admin).WithChannel(text))
	assert.Equal(t, "Locked <#general>.", dt.Content(resp))
	assert.True(t, dt.Ephemeral(resp))
	assert.Equal(t, modlog.EventLock, h.nextEvent(t).Type)

	resp = h.run(dt.Command("unlock", dt.Channel("channel", "general")).By("admin", admin).WithChannel(text))
	assert.Equal(t, "Unlocked <#general>.", dt.Content(resp))
	assert.Equal(t, modlog.EventUnlock, h.nextEvent(t).Type)

	h.gw.AssertExpectations(t)
}

func TestLockDefaultsToCurrentChannel(t *testing.T) {
	h := newHarness(t)
	h.gw.On("Channel", dt.ChannelID).Return(nil, errors.New("not cached"))
	h.gw.On("UpdateEveryoneOverwrite", dt.GuildID, dt.ChannelID, int64(lockedPermissions), int64(0)).Return(nil)
	h.gw.On("SendMessage", dt.ChannelID, mock.MatchedBy(func(m *discordgo.MessageSend) bool {
		return len(m.Embeds) == 1 && m.Embeds[0].Title == "CHANNEL LOCKED"
	})).Return(&discordgo.Message{ID: "m"}, nil)

	resp := h.run(dt.Command("lock").By("admin", admin))

	assert.Equal(t, "Locked <#"+dt.ChannelID+">.", dt.Content(resp))
	h.gw.AssertExpectations(t)
}

func TestLockRejectsVoiceChannel(t *testing.T) {
	h := newHarness(t)
	voice := &discordgo.Channel{ID: "vc", Type: discordgo.ChannelTypeGuildVoice}

	resp := h.run(dt.Command("lock", dt.Channel("channel", "vc")).By("admin", admin).WithChannel(voice))

	assert.Equal(t, "Must be a text channel.", dt.Content(resp))
	h.gw.AssertNotCalled(t, "UpdateEveryoneOverwrite", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRoleAssign(t *testing.T) {
	h := newHarness(t)
	u, m := target()
	role := &discordgo.Role{ID: "r9", Name: "Helper"}
	h.gw.On("AddRole", dt.GuildID, "target", "r9").Return(nil)

	resp := h.run(dt.Command("role", dt.User("user", u.ID), dt.Role("role", "r9")).
		By("admin", admin).WithUser(u, m).WithRole(role))

	embed := dt.FirstEmbed(resp)
	require.NotNil(t, embed)
	assert.Equal(t, "Assigned Helper to <@target>.", embed.Description)

	e := h.nextEvent(t)
	assert.Equal(t, modlog.EventRole, e.Type)
	assert.Equal(t, "r9", e.Detail)
}

func TestRoleHierarchyFailure(t *testing.T) {
	h := newHarness(t)
	u, m := target()
	h.gw.On("AddRole", dt.GuildID, "target", "r9").Return(errors.New("hierarchy"))

	resp := h.run(dt.Command("role", dt.User("user", u.ID), dt.Role("role", "r9")).By("admin", admin).WithUser(u, m))

	assert.Equal(t, "Failed to assign role. Check role hierarchy.", dt.Content(resp))
}

func TestAuditEmbed(t *testing.T) {
	h := newHarness(t)
	kick := discordgo.AuditLogActionMemberKick
	h.gw.On("AuditLog", dt.GuildID, defaultAuditLimit).Return(&discordgo.GuildAuditLog{
		Users: []*discordgo.User{{ID: "mod1", Username: "alice"}},
		AuditLogEntries: []*discordgo.AuditLogEntry{
			{ID: "175928847299117063", ActionType: &kick, UserID: "mod1", TargetID: "ghost"},
		},
	}, nil)

	resp := h.run(dt.Command("audit").By("admin", admin))

	embed := dt.FirstEmbed(resp)
	require.NotNil(t, embed)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "MemberKick by alice", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "Target: N/A")
	assert.Contains(t, embed.Fields[0].Value, "Reason: N/A")
	assert.Contains(t, embed.Fields[0].Value, "Time: <t:")
	assert.True(t, dt.Ephemeral(resp))
}

func TestAuditLimitOutOfRange(t *testing.T) {
	h := newHarness(t)

	resp := h.run(dt.Command("audit", dt.Int("limit", 0)).By("admin", admin))

	assert.Equal(t, shared.AuditMessage, dt.Content(resp))
	h.gw.AssertNotCalled(t, "AuditLog", mock.Anything, mock.Anything)
}

func TestAuditActionName(t *testing.T) {
	unknown := discordgo.AuditLogAction(999)

	assert.Equal(t, "Unknown", auditActionName(nil))
	assert.Equal(t, "Action 999", auditActionName(&unknown))
}

func TestSaySuppressesMentions(t *testing.T) {
	h := newHarness(t)
	h.gw.On("SendMessage", dt.ChannelID, mock.MatchedBy(func(m *discordgo.MessageSend) bool {
		return m.Content == "@everyone hi" && m.AllowedMentions != nil && len(m.AllowedMentions.Parse) == 0
	})).Return(&discordgo.Message{ID: "m"}, nil)

	resp := h.run(dt.Command("say", dt.String("message", "@everyone hi")).By("admin", admin))

	assert.Equal(t, "Message sent.", dt.Content(resp))
	h.gw.AssertExpectations(t)
}
