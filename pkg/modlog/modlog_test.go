package modlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilBusIsSafe(t *testing.T) {
	var b *Bus

	assert.NotPanics(t, func() {
		b.Publish(Event{Type: EventBan})
		b.Close()
	})
	assert.Zero(t, b.Subscribers())

	ch, cancel := b.Subscribe(1)
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestPublishFansOut(t *testing.T) {
	b := NewBus()
	defer b.Close()

	a, cancelA := b.Subscribe(1)
	defer cancelA()
	c, cancelC := b.Subscribe(1)
	defer cancelC()

	b.Publish(Event{Type: EventKick, GuildID: "g", TargetID: "u"})

	for _, ch := range []<-chan Event{a, c} {
		select {
		case e := <-ch:
			assert.Equal(t, EventKick, e.Type)
			assert.Equal(t, "u", e.TargetID)
			assert.False(t, e.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, cancel := b.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		b.Publish(Event{Type: EventWarn})
		b.Publish(Event{Type: EventMute})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	e := <-ch
	assert.Equal(t, EventWarn, e.Type)
}

func TestCancelUnsubscribes(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, cancel := b.Subscribe(1)
	assert.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()
	assert.Zero(t, b.Subscribers())

	_, ok := <-ch
	assert.False(t, ok)

	assert.NotPanics(t, func() { b.Publish(Event{Type: EventLock}) })
}

func TestCloseClosesSubscribers(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe(1)

	b.Close()
	_, ok := <-ch
	assert.False(t, ok)

	assert.NotPanics(t, cancel)

	late, _ := b.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}

func TestEncodeDecode(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e := Event{Type: EventCensor, GuildID: "g", ChannelID: "c", TargetID: "u", Detail: "badword", Timestamp: ts}

	data, err := e.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"censor"`)
	assert.Contains(t, string(data), `"guildId":"g"`)
	assert.NotContains(t, string(data), "moderatorId")

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, e.Type, back.Type)
	assert.True(t, ts.Equal(back.Timestamp))
}
