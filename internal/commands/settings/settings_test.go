package settings

import (
	"testing"

	"github.com/PancyStudios/BeamBotGo/internal/commands/shared"
	"github.com/PancyStudios/BeamBotGo/pkg/discord"
	dt "github.com/PancyStudios/BeamBotGo/pkg/discord/discordtest"
	"github.com/PancyStudios/BeamBotGo/pkg/store"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manager = discordgo.PermissionManageGuild

func newTestClient(t *testing.T) (*discord.ExtendedClient, *dt.MockGateway, *store.JSONConfigStore) {
	t.Helper()
	gw := dt.NewMockGateway()
	client := discord.NewClientWithGateway(gw)
	t.Cleanup(client.Paginator.Close)

	cfg := store.NewJSONConfigStore(t.TempDir())
	svc := &shared.Services{Config: cfg, Warnings: store.NewMemoryWarningStore()}

	for _, cmd := range Commands(svc) {
		require.NoError(t, client.CommandHandler.RegisterCommand(cmd))
	}
	for _, g := range Groups(svc) {
		require.NoError(t, client.CommandHandler.RegisterGroup(g.Name, g.Description, g.Subcommands...))
	}
	return client, gw, cfg
}

func run(c *discord.ExtendedClient, gw *dt.MockGateway, b *dt.Builder) *discordgo.InteractionResponse {
	c.HandleInteraction(b.Build())
	return gw.LastResponse()
}

func TestCensorWord(t *testing.T) {
	c, gw, cfg := newTestClient(t)

	resp := run(c, gw, dt.Command("cw", dt.String("word", " Spoiler ")).By("m", manager))
	assert.Equal(t, `Added "spoiler" to censored words.`, dt.Content(resp))
	assert.True(t, dt.Ephemeral(resp))

	resp = run(c, gw, dt.Command("cw", dt.String("word", "SPOILER")).By("m", manager))
	assert.Equal(t, `"spoiler" is already censored.`, dt.Content(resp))

	assert.Equal(t, []string{"spoiler"}, cfg.CensoredWords(dt.GuildID))
}

func TestUncensorWord(t *testing.T) {
	c, gw, cfg := newTestClient(t)
	cfg.AddCensoredWord(dt.GuildID, "spoiler")

	resp := run(c, gw, dt.Command("ucw", dt.String("word", "spoiler")).By("m", manager))
	assert.Equal(t, `Removed "spoiler" from censored words.`, dt.Content(resp))

	resp = run(c, gw, dt.Command("ucw", dt.String("word", "spoiler")).By("m", manager))
	assert.Equal(t, `"spoiler" is not censored.`, dt.Content(resp))
}

func TestCensorList(t *testing.T) {
	c, gw, cfg := newTestClient(t)

	resp := run(c, gw, dt.Command("cwl").By("m", manager))
	assert.Equal(t, "No censored words.", dt.Content(resp))

	cfg.AddCensoredWord(dt.GuildID, "a")
	cfg.AddCensoredWord(dt.GuildID, "b")
	resp = run(c, gw, dt.Command("cwl").By("m", manager))

	embed := dt.FirstEmbed(resp)
	require.NotNil(t, embed)
	assert.Equal(t, "Censored Words", embed.Title)
	assert.Equal(t, "a, b", embed.Description)
}

func TestCensorRequiresManageGuild(t *testing.T) {
	c, gw, cfg := newTestClient(t)

	resp := run(c, gw, dt.Command("cw", dt.String("word", "x")).By("m", discordgo.PermissionManageMessages))

	assert.Equal(t, discord.DeniedMessage, dt.Content(resp))
	assert.Empty(t, cfg.CensoredWords(dt.GuildID))
}

func TestPrefixLifecycle(t *testing.T) {
	c, gw, cfg := newTestClient(t)

	resp := run(c, gw, dt.Command("prefix", dt.Sub("add", dt.String("prefix", "!"))).By("m", manager))
	assert.Equal(t, `Added prefix "!".`, dt.Content(resp))

	resp = run(c, gw, dt.Command("prefix", dt.Sub("add", dt.String("prefix", "!"))).By("m", manager))
	assert.Equal(t, `Prefix "!" already exists.`, dt.Content(resp))

	resp = run(c, gw, dt.Command("prefix", dt.Sub("remove", dt.String("prefix", "?"))).By("m", manager))
	assert.Equal(t, `Prefix "?" not found.`, dt.Content(resp))

	resp = run(c, gw, dt.Command("prefix", dt.Sub("clear")).By("m", manager))
	assert.Equal(t, "Cleared all prefixes.", dt.Content(resp))
	assert.Empty(t, cfg.Prefixes(dt.GuildID))
}

func TestPrefixListIsPublic(t *testing.T) {
	c, gw, cfg := newTestClient(t)
	cfg.AddPrefix(dt.GuildID, "!")
	cfg.AddPrefix(dt.GuildID, "b!")

	resp := run(c, gw, dt.Command("prefix", dt.Sub("list")).By("anyone", 0))

	embed := dt.FirstEmbed(resp)
	require.NotNil(t, embed)
	assert.Equal(t, "!, b!", embed.Description)
}

func TestPrefixAddDenied(t *testing.T) {
	c, gw, cfg := newTestClient(t)

	resp := run(c, gw, dt.Command("prefix", dt.Sub("add", dt.String("prefix", "!"))).By("anyone", 0))

	assert.Equal(t, discord.DeniedMessage, dt.Content(resp))
	assert.Empty(t, cfg.Prefixes(dt.GuildID))
}
