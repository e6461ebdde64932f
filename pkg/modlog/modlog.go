// Package modlog carries moderation events from command handlers to
// external sinks such as MQTT and the websocket feed.
package modlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/goccy/go-json"
)

// EventType names a moderation action
type EventType string

const (
	EventBan           EventType = "ban"
	EventKick          EventType = "kick"
	EventMute          EventType = "mute"
	EventUnmute        EventType = "unmute"
	EventWarn          EventType = "warn"
	EventClearWarnings EventType = "clearwarnings"
	EventClear         EventType = "clear"
	EventLock          EventType = "lock"
	EventUnlock        EventType = "unlock"
	EventRole          EventType = "role"
	EventCensor        EventType = "censor"
)

// Event is a moderation action that succeeded
type Event struct {
	Type        EventType `json:"type"`
	GuildID     string    `json:"guildId"`
	ChannelID   string    `json:"channelId,omitempty"`
	ModeratorID string    `json:"moderatorId,omitempty"`
	TargetID    string    `json:"targetId,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Encode returns the JSON form used on the wire
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses an encoded event
func Decode(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Bus fans events out to subscribers. A nil *Bus drops everything, so
// callers never need to check whether the feed is enabled.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
	now    func() time.Time
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]chan Event),
		now:  time.Now,
	}
}

// Publish delivers e to every subscriber without blocking. Subscribers
// whose buffer is full miss the event.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = b.now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			logger.Debug(fmt.Sprintf("Subscriber %d is full, dropping %s event", id, e.Type), "ModLog")
		}
	}
}

// Subscribe registers a listener with the given buffer size. The returned
// cancel func unregisters it and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	if b == nil {
		close(ch)
		return ch, func() {}
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Subscribers returns the number of active listeners
func (b *Bus) Subscribers() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later publishes are dropped.
func (b *Bus) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
