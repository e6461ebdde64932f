// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with command routing, the permission gate and
// paginated replies.
package discord

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/config"
	botErrors "github.com/PancyStudios/BeamBotGo/pkg/errors"
	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// UnknownCommandMessage answers interactions for commands not in the registry
const UnknownCommandMessage = "This command is not available."

// FailureMessage answers a command that failed before replying
const FailureMessage = "Something went wrong while running this command."

// ErrUnknownCommand is logged when an interaction names no registered command
var ErrUnknownCommand = errors.New("unknown command")

func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Gateway        Gateway
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	Paginator      *Paginator
	StartTime      time.Time
	mu             sync.RWMutex
	isReady        bool
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command)
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient on a fresh session
func NewClient(token string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildBans |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := NewClientWithGateway(NewSessionGateway(session))
	c.Session = session
	c.EventHandler = NewEventHandler(c)
	return c, nil
}

// NewClientWithGateway builds a client that is not tied to a session
func NewClientWithGateway(g Gateway) *ExtendedClient {
	c := &ExtendedClient{
		Gateway:   g,
		Commands:  NewCommandCollection(),
		Paginator: NewPaginator(g, DefaultPageTimeout),
		StartTime: time.Now(),
	}
	c.CommandHandler = NewCommandHandler(c)
	return c
}

// Start opens the gateway connection. Commands are synced once ready.
func (c *ExtendedClient) Start() error {
	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Logged in as: "+r.User.Username, "Client")
		c.CommandHandler.RegisterCommands()
	})

	c.Session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		c.HandleInteraction(i)
	})

	c.StartTime = time.Now()
	return c.Session.Open()
}

// HandleInteraction routes application commands to their handlers and
// page controls to the paginator. Everything else is ignored.
func (c *ExtendedClient) HandleInteraction(i *discordgo.InteractionCreate) {
	defer botErrors.RecoverMiddleware()()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		c.handleCommand(i)
	case discordgo.InteractionMessageComponent:
		if IsPageControl(i.MessageComponentData().CustomID) {
			c.Paginator.Handle(i)
			return
		}
		logger.Debug("Ignoring component "+i.MessageComponentData().CustomID, "Client")
	}
}

func (c *ExtendedClient) handleCommand(i *discordgo.InteractionCreate) {
	ctx := &CommandContext{
		Gateway:     c.Gateway,
		Interaction: i,
		Client:      c,
	}

	name := commandKey(i.ApplicationCommandData())
	cmd, ok := c.Commands.Get(name)
	if !ok {
		logger.Warn(fmt.Sprintf("%v: %s", ErrUnknownCommand, name), "Client")
		if err := ctx.ReplyEphemeral(UnknownCommandMessage); err != nil {
			logger.Warn("Failed to answer unknown command: "+err.Error(), "Client")
		}
		return
	}

	if cmd.Privileged() {
		access, err := memberAccess(c.Gateway, i.GuildID, i.Member)
		if err != nil {
			logger.Warn(fmt.Sprintf("Could not resolve roles for /%s: %v", name, err), "Client")
		}
		if !Authorize(cmd, access) {
			if err := ctx.ReplyEphemeral(DeniedMessage); err != nil {
				logger.Warn("Failed to send denial: "+err.Error(), "Client")
			}
			return
		}
	}

	c.run(ctx, cmd, name)
}

// run executes the handler and makes sure the interaction gets one reply
func (c *ExtendedClient) run(ctx *CommandContext, cmd *Command, name string) {
	defer func() {
		if r := recover(); r != nil {
			if h := botErrors.Get(); h != nil {
				h.HandlePanic(r)
			} else {
				logger.Error(fmt.Sprintf("Panic in /%s: %v", name, r), "Client")
			}
			c.replyFailure(ctx)
		}
	}()

	err := cmd.Run(ctx)
	if err == nil {
		return
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		if ctx.Responded() {
			return
		}
		if err := ctx.ReplyEphemeral(ve.Message); err != nil {
			logger.Warn("Failed to send validation error: "+err.Error(), "Client")
		}
		return
	}

	botErrors.Capture(fmt.Errorf("/%s: %w", name, err), "Client")
	c.replyFailure(ctx)
}

func (c *ExtendedClient) replyFailure(ctx *CommandContext) {
	if ctx.Responded() {
		return
	}
	if err := ctx.ReplyEphemeral(FailureMessage); err != nil {
		logger.Warn("Failed to send failure reply: "+err.Error(), "Client")
	}
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	c.Paginator.Close()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// Uptime returns how long the client has been running
func (c *ExtendedClient) Uptime() time.Duration {
	return time.Since(c.StartTime)
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// GetConfig returns the bot configuration
func (c *ExtendedClient) GetConfig() *config.Config {
	return config.Get()
}
