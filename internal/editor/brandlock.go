package editor

import (
	"context"
	"sync"
)

// brandLocks serializes draft writes, saves and refreshes per brand within
// this process.
type brandLocks struct {
	mu    sync.Mutex
	slots map[string]*brandSlot
}

type brandSlot struct {
	ch    chan struct{}
	users int
}

func newBrandLocks() *brandLocks {
	return &brandLocks{slots: make(map[string]*brandSlot)}
}

// lock blocks until the brand is free or ctx is done.
func (b *brandLocks) lock(ctx context.Context, brandID string) (func(), error) {
	b.mu.Lock()
	slot, ok := b.slots[brandID]
	if !ok {
		slot = &brandSlot{ch: make(chan struct{}, 1)}
		b.slots[brandID] = slot
	}
	slot.users++
	b.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		b.done(brandID, slot)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			b.done(brandID, slot)
		})
	}, nil
}

func (b *brandLocks) done(brandID string, slot *brandSlot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	slot.users--
	if slot.users == 0 {
		delete(b.slots, brandID)
	}
}

func (b *brandLocks) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slots)
}
