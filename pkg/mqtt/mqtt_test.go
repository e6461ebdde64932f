package mqtt

import (
	"errors"
	"sync"
	"testing"

	"github.com/PancyStudios/BeamBotGo/pkg/modlog"
	"go.uber.org/goleak"
)

func TestEventTopic(t *testing.T) {
	tests := []struct {
		base string
		e    modlog.Event
		want string
	}{
		{"beambot/modlog", modlog.Event{Type: modlog.EventBan, GuildID: "123"}, "beambot/modlog/123/ban"},
		{"beambot/modlog/", modlog.Event{Type: modlog.EventCensor, GuildID: "9"}, "beambot/modlog/9/censor"},
		{"x", modlog.Event{Type: modlog.EventWarn}, "x/global/warn"},
	}

	for _, tt := range tests {
		if got := EventTopic(tt.base, tt.e); got != tt.want {
			t.Errorf("EventTopic(%q) = %v, want %v", tt.base, got, tt.want)
		}
	}
}

func TestForwardPublishesUntilClosed(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := modlog.NewBus()
	events, cancel := bus.Subscribe(4)

	var mu sync.Mutex
	var topics []string
	publish := func(topic string, payload []byte) error {
		mu.Lock()
		defer mu.Unlock()
		topics = append(topics, topic)
		if topic == "m/g/kick" {
			return errors.New("broker down")
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		forward(events, "m", publish)
	}()

	bus.Publish(modlog.Event{Type: modlog.EventKick, GuildID: "g"})
	bus.Publish(modlog.Event{Type: modlog.EventBan, GuildID: "g"})
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(topics) != 2 {
		t.Fatalf("published %d events, want 2", len(topics))
	}
	if topics[1] != "m/g/ban" {
		t.Errorf("topics[1] = %v, want %v", topics[1], "m/g/ban")
	}
}
