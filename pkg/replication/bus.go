// Package replication carries state-change events from writers to
// connected follower streams: every finalized upload, tag move and
// soft delete is published once and fanned out to all subscribers.
// Delivery is at-least-once; followers dedupe by (kind, version id).
package replication

import (
	"sync"
	"time"

	"github.com/qcdn/qcdn/internal/logger"
)

// Kind discriminates replication events.
type Kind int

const (
	KindUploaded Kind = iota
	KindTagged
	KindDeleted
)

func (k Kind) String() string {
	switch k {
	case KindUploaded:
		return "uploaded"
	case KindTagged:
		return "tagged"
	case KindDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is one state change. DirID/FileID are set for uploads, Tag
// for tag moves. Timestamps come from the database rows so a follower
// catching up from history sees the same ordering as a live one.
type Event struct {
	Timestamp     time.Time
	Kind          Kind
	FileVersionID int64
	DirID         int64
	FileID        int64
	Tag           string
}

// DefaultBuffer is the per-subscriber event buffer.
const DefaultBuffer = 128

// Bus is a single-producer-many-consumer broadcast channel. Slow
// consumers are dropped, not backpressured: when a subscriber's
// buffer is full its channel is closed and the follower is expected
// to reconnect with its last-known timestamp.
type Bus struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]chan Event
	buffer int
}

// NewBus creates a bus with the given per-subscriber buffer size;
// size <= 0 means DefaultBuffer.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{
		subs:   make(map[int64]chan Event),
		buffer: buffer,
	}
}

// Subscribe registers a consumer. The returned channel is closed when
// the subscriber is dropped for falling behind or when cancel is
// called. cancel is idempotent.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber without blocking. A
// subscriber whose buffer is full is disconnected.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			logger.Warn("dropping slow replication subscriber", "subscriber", id)
			delete(b.subs, id)
			close(ch)
		}
	}
}

// Len reports the current number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
