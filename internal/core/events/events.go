// Package events carries match telemetry from the arena to its observers:
// the spectate feed, ratings hooks, anything that wants to follow a fight
// without sitting in the frame loop.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kumite/kumite/internal/core/gamestate"
)

type Type string

const (
	TypeMatchStarted Type = "match_started"
	TypeFrame        Type = "frame"
	TypeMatchEnded   Type = "match_ended"
)

// Event is one telemetry record. Snapshot is always from player one's
// corner; Actions are catalog ids in player order.
type Event struct {
	Type      Type                `json:"type"`
	MatchID   string              `json:"match_id"`
	Agents    [2]string           `json:"agents"`
	Frame     uint64              `json:"frame,omitempty"`
	Snapshot  *gamestate.Snapshot `json:"snapshot,omitempty"`
	Actions   [2]int              `json:"actions"`
	Winner    int                 `json:"winner,omitempty"`
	Timestamp time.Time           `json:"ts"`
}

// Hub fans events out to subscribers. Publishing never blocks: a
// subscriber that falls behind loses events instead of stalling the match
// loop, which is the right trade for frame telemetry.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan Event)}
}

// Subscribe registers a new subscriber with the given channel buffer and
// returns its channel plus a cancel func. Cancel closes the channel.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	id := uuid.NewString()

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber able to take it right now.
func (h *Hub) Publish(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close cancels every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub)
	}
}
