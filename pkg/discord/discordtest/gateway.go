// Package discordtest provides a mock Gateway and interaction builders for
// exercising command handlers without a Discord connection.
package discordtest

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of discord.Gateway. Interaction
// responses and edits are recorded instead of mocked.
type MockGateway struct {
	mock.Mock

	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit

	RespondErr error
	EditErr    error
	Bot        *discordgo.User

	// Edited receives every EditResponse call when non-nil
	Edited chan *discordgo.WebhookEdit
}

// NewMockGateway returns a gateway whose bot user is "bot"
func NewMockGateway() *MockGateway {
	return &MockGateway{Bot: &discordgo.User{ID: "bot", Username: "BeamBot", Bot: true}}
}

func (m *MockGateway) Respond(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	m.mu.Lock()
	m.responses = append(m.responses, resp)
	m.mu.Unlock()
	return m.RespondErr
}

func (m *MockGateway) EditResponse(i *discordgo.Interaction, edit *discordgo.WebhookEdit) error {
	m.mu.Lock()
	m.edits = append(m.edits, edit)
	ch := m.Edited
	m.mu.Unlock()
	if ch != nil {
		ch <- edit
	}
	return m.EditErr
}

// Responses returns every interaction response sent so far
func (m *MockGateway) Responses() []*discordgo.InteractionResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*discordgo.InteractionResponse, len(m.responses))
	copy(out, m.responses)
	return out
}

// LastResponse returns the most recent interaction response, or nil
func (m *MockGateway) LastResponse() *discordgo.InteractionResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.responses) == 0 {
		return nil
	}
	return m.responses[len(m.responses)-1]
}

// Edits returns every response edit sent so far
func (m *MockGateway) Edits() []*discordgo.WebhookEdit {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*discordgo.WebhookEdit, len(m.edits))
	copy(out, m.edits)
	return out
}

func (m *MockGateway) OriginalResponse(i *discordgo.Interaction) (*discordgo.Message, error) {
	args := m.Called(i)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockGateway) Ban(guildID, userID, reason string) error {
	return m.Called(guildID, userID, reason).Error(0)
}

func (m *MockGateway) Kick(guildID, userID, reason string) error {
	return m.Called(guildID, userID, reason).Error(0)
}

func (m *MockGateway) Timeout(guildID, userID string, until *time.Time, reason string) error {
	return m.Called(guildID, userID, until, reason).Error(0)
}

func (m *MockGateway) AddRole(guildID, userID, roleID string) error {
	return m.Called(guildID, userID, roleID).Error(0)
}

func (m *MockGateway) BulkDelete(channelID string, limit int) (int, error) {
	args := m.Called(channelID, limit)
	return args.Int(0), args.Error(1)
}

func (m *MockGateway) UpdateEveryoneOverwrite(guildID, channelID string, deny, reset int64) error {
	return m.Called(guildID, channelID, deny, reset).Error(0)
}

func (m *MockGateway) AuditLog(guildID string, limit int) (*discordgo.GuildAuditLog, error) {
	args := m.Called(guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.GuildAuditLog), args.Error(1)
}

func (m *MockGateway) SendMessage(channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	args := m.Called(channelID, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockGateway) DeleteMessage(channelID, messageID string) error {
	return m.Called(channelID, messageID).Error(0)
}

func (m *MockGateway) DirectMessage(userID string, msg *discordgo.MessageSend) error {
	return m.Called(userID, msg).Error(0)
}

func (m *MockGateway) React(channelID, messageID, emoji string) error {
	return m.Called(channelID, messageID, emoji).Error(0)
}

func (m *MockGateway) Guild(guildID string) (*discordgo.Guild, error) {
	args := m.Called(guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Guild), args.Error(1)
}

func (m *MockGateway) Channel(channelID string) (*discordgo.Channel, error) {
	args := m.Called(channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Channel), args.Error(1)
}

func (m *MockGateway) Roles(guildID string) ([]*discordgo.Role, error) {
	args := m.Called(guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*discordgo.Role), args.Error(1)
}

func (m *MockGateway) BotUser() *discordgo.User {
	return m.Bot
}

func (m *MockGateway) Latency() time.Duration {
	return 42 * time.Millisecond
}
