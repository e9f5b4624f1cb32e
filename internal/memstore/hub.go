// internal/memstore/hub.go
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/kokodi/internal/game"
)

// subscriberBuffer bounds how far a slow subscriber may lag before events are dropped for it.
const subscriberBuffer = 16

// Hub fans turn results out to in-process subscribers of a session.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[chan game.TurnResult]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[chan game.TurnResult]struct{})}
}

// PublishTurn delivers result to every current subscriber of its session
// without blocking; a subscriber with a full buffer misses the event.
func (h *Hub) PublishTurn(_ context.Context, result game.TurnResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[result.SessionID] {
		select {
		case ch <- result:
		default:
		}
	}
	return nil
}

// Subscribe streams turn results of one session until ctx is done.
func (h *Hub) Subscribe(ctx context.Context, sessionID uuid.UUID) (<-chan game.TurnResult, error) {
	ch := make(chan game.TurnResult, subscriberBuffer)
	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan game.TurnResult]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs[sessionID], ch)
		if len(h.subs[sessionID]) == 0 {
			delete(h.subs, sessionID)
		}
		close(ch)
		h.mu.Unlock()
	}()
	return ch, nil
}
