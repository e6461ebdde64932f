package discord

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Paginator custom IDs look like "page:<sessionID>:prev".
const (
	pagePrefix = "page"
	pagePrev   = "prev"
	pageNext   = "next"

	// DefaultPageTimeout disables the controls after this much inactivity
	DefaultPageTimeout = 5 * time.Minute

	// NotYoursMessage answers activations from anyone but the owner
	NotYoursMessage = "This button is not for you."
)

// PaginationSession is one paginated reply owned by one user
type PaginationSession struct {
	ID      string
	Pages   []*discordgo.MessageEmbed
	Index   int
	OwnerID string

	interaction *discordgo.Interaction
	timer       *time.Timer
	generation  uint64
}

// Paginator keeps the live pagination sessions, keyed by session ID
type Paginator struct {
	gateway Gateway
	timeout time.Duration

	mu       sync.Mutex
	sessions map[string]*PaginationSession
	closed   bool
}

// NewPaginator creates a registry whose sessions expire after timeout
func NewPaginator(g Gateway, timeout time.Duration) *Paginator {
	if timeout <= 0 {
		timeout = DefaultPageTimeout
	}
	return &Paginator{
		gateway:  g,
		timeout:  timeout,
		sessions: make(map[string]*PaginationSession),
	}
}

// IsPageControl reports whether a custom ID belongs to a paginator
func IsPageControl(customID string) bool {
	return strings.HasPrefix(customID, pagePrefix+":")
}

func controlID(sessionID, action string) string {
	return pagePrefix + ":" + sessionID + ":" + action
}

func parseControlID(customID string) (sessionID, action string, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 3 || parts[0] != pagePrefix {
		return "", "", false
	}
	if parts[2] != pagePrev && parts[2] != pageNext {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// PageControls builds the Previous/Next row for page idx of n
func PageControls(sessionID string, idx, n int, disableAll bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous Page",
					Style:    discordgo.PrimaryButton,
					CustomID: controlID(sessionID, pagePrev),
					Disabled: disableAll || idx == 0,
				},
				discordgo.Button{
					Label:    "Next Page",
					Style:    discordgo.PrimaryButton,
					CustomID: controlID(sessionID, pageNext),
					Disabled: disableAll || idx >= n-1,
				},
			},
		},
	}
}

// Open replies with the first page and registers a session for the
// invoking user. A single page is sent without controls.
func (p *Paginator) Open(ctx *CommandContext, pages []*discordgo.MessageEmbed, ephemeral bool) error {
	if len(pages) == 0 {
		return fmt.Errorf("paginator: no pages")
	}

	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{pages[0]},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	if len(pages) == 1 {
		return ctx.ReplyComplex(data)
	}

	owner := ctx.User()
	if owner == nil {
		return fmt.Errorf("paginator: interaction has no user")
	}

	session := &PaginationSession{
		ID:          uuid.NewString(),
		Pages:       pages,
		OwnerID:     owner.ID,
		interaction: ctx.Interaction.Interaction,
	}
	data.Components = PageControls(session.ID, 0, len(pages), false)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ctx.ReplyComplex(&discordgo.InteractionResponseData{Embeds: data.Embeds, Flags: data.Flags})
	}
	p.sessions[session.ID] = session
	p.armLocked(session)
	p.mu.Unlock()

	if err := ctx.ReplyComplex(data); err != nil {
		p.remove(session.ID)
		return err
	}
	return nil
}

// armLocked (re)starts the inactivity timer. p.mu must be held.
func (p *Paginator) armLocked(s *PaginationSession) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	gen := s.generation
	id := s.ID
	s.timer = time.AfterFunc(p.timeout, func() { p.expire(id, gen) })
}

func (p *Paginator) remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[id]; ok {
		if s.timer != nil {
			s.timer.Stop()
		}
		delete(p.sessions, id)
	}
}

// expire drops the session and disables its controls, best effort
func (p *Paginator) expire(id string, gen uint64) {
	p.mu.Lock()
	s, ok := p.sessions[id]
	if !ok || s.generation != gen {
		p.mu.Unlock()
		return
	}
	delete(p.sessions, id)
	components := PageControls(s.ID, s.Index, len(s.Pages), true)
	interaction := s.interaction
	p.mu.Unlock()

	err := p.gateway.EditResponse(interaction, &discordgo.WebhookEdit{Components: &components})
	if err != nil {
		logger.Debug(fmt.Sprintf("Could not disable page controls for %s: %v", id, err), "Paginator")
	}
}

// Handle processes a Previous/Next activation
func (p *Paginator) Handle(i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	sessionID, action, ok := parseControlID(data.CustomID)

	var userID string
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}

	p.mu.Lock()
	s, found := p.sessions[sessionID]
	if !ok || !found {
		p.mu.Unlock()
		logger.Debug(fmt.Sprintf("Activation for unknown or expired page session %q", data.CustomID), "Paginator")
		p.respond(i, &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate})
		return
	}

	if userID != s.OwnerID {
		p.mu.Unlock()
		p.respond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: NotYoursMessage,
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		return
	}

	switch action {
	case pagePrev:
		if s.Index > 0 {
			s.Index--
		}
	case pageNext:
		if s.Index < len(s.Pages)-1 {
			s.Index++
		}
	}
	p.armLocked(s)

	page := s.Pages[s.Index]
	components := PageControls(s.ID, s.Index, len(s.Pages), false)
	p.mu.Unlock()

	p.respond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{page},
			Components: components,
		},
	})
}

func (p *Paginator) respond(i *discordgo.InteractionCreate, resp *discordgo.InteractionResponse) {
	if err := p.gateway.Respond(i.Interaction, resp); err != nil {
		logger.Warn(fmt.Sprintf("Failed to answer page control: %v", err), "Paginator")
	}
}

// Session returns a copy of a live session's position
func (p *Paginator) Session(id string) (index int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[id]
	if !ok {
		return 0, false
	}
	return s.Index, true
}

// Len returns the number of live sessions
func (p *Paginator) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

// Close stops every timer and drops all sessions
func (p *Paginator) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	for id, s := range p.sessions {
		if s.timer != nil {
			s.timer.Stop()
		}
		delete(p.sessions, id)
	}
}
