package replication

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishFansOut(t *testing.T) {
	bus := NewBus(4)

	a, cancelA := bus.Subscribe()
	defer cancelA()
	b, cancelB := bus.Subscribe()
	defer cancelB()

	ev := Event{Kind: KindUploaded, FileVersionID: 7, Timestamp: time.Now()}
	bus.Publish(ev)

	assert.Equal(t, ev, <-a)
	assert.Equal(t, ev, <-b)
}

func TestCancelClosesChannel(t *testing.T) {
	bus := NewBus(4)

	ch, cancel := bus.Subscribe()
	require.Equal(t, 1, bus.Len())

	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, bus.Len())

	// Idempotent.
	cancel()
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	bus := NewBus(1)

	slow, cancel := bus.Subscribe()
	defer cancel()

	bus.Publish(Event{Kind: KindUploaded, FileVersionID: 1})
	// Buffer is full now; the next publish drops the subscriber.
	bus.Publish(Event{Kind: KindUploaded, FileVersionID: 2})

	ev, ok := <-slow
	require.True(t, ok)
	assert.Equal(t, int64(1), ev.FileVersionID)

	_, ok = <-slow
	assert.False(t, ok, "channel closed after drop")
	assert.Equal(t, 0, bus.Len())
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(0)
	bus.Publish(Event{Kind: KindDeleted, FileVersionID: 9})
	assert.Equal(t, 0, bus.Len())
}
