package upload

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Gatekeeper serializes work per listing: at most one holder per key at any
// instant. Waiters are not served in arrival order.
type Gatekeeper struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
}

type slot struct {
	done chan struct{}
}

// Token is the proof of holding a listing's slot.
type Token struct {
	gk        *Gatekeeper
	listingID uuid.UUID
	slot      *slot
	once      sync.Once
}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{slots: make(map[uuid.UUID]*slot)}
}

// Acquire blocks until the slot for listingID is free and takes it. It
// returns ctx.Err() if ctx ends first.
func (g *Gatekeeper) Acquire(ctx context.Context, listingID uuid.UUID) (*Token, error) {
	for {
		g.mu.Lock()
		held, busy := g.slots[listingID]
		if !busy {
			s := &slot{done: make(chan struct{})}
			g.slots[listingID] = s
			g.mu.Unlock()
			return &Token{gk: g, listingID: listingID, slot: s}, nil
		}
		g.mu.Unlock()

		select {
		case <-held.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Release frees the slot held by t and wakes its waiters. Releasing nil or
// an already released token does nothing.
func (g *Gatekeeper) Release(t *Token) {
	if t == nil || t.gk != g {
		return
	}
	t.once.Do(func() {
		g.mu.Lock()
		if cur, ok := g.slots[t.listingID]; ok && cur == t.slot {
			delete(g.slots, t.listingID)
		}
		g.mu.Unlock()
		close(t.slot.done)
	})
}

func (t *Token) Release() {
	if t == nil {
		return
	}
	t.gk.Release(t)
}

func (t *Token) ListingID() uuid.UUID {
	return t.listingID
}

// InFlight reports how many listings currently hold a slot.
func (g *Gatekeeper) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.slots)
}
