package service

import (
	"sync"

	"github.com/google/uuid"
)

// toolLockRegistry serializes rental admission per tool. The lock for a tool
// is held across the availability check and the write, so two concurrent
// bookings of the same tool cannot both pass the check. Operations on
// different tools proceed in parallel.
type toolLockRegistry struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newToolLockRegistry() *toolLockRegistry {
	return &toolLockRegistry{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the lock for the tool and returns the unlock function.
func (r *toolLockRegistry) Lock(toolID uuid.UUID) func() {
	r.mu.Lock()
	lock, ok := r.locks[toolID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[toolID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
