package ledger

import (
	"fmt"
	"math"
	"sync"
)

// IdentityAllocator issues strictly increasing int64 ids per entity kind.
// An id is never handed out twice, including ids of soft-deleted entities.
type IdentityAllocator struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewIdentityAllocator() *IdentityAllocator {
	return &IdentityAllocator{last: make(map[string]int64)}
}

// Next returns the next id for kind. The allocation is the atomic unit:
// two concurrent callers never receive the same id.
func (a *IdentityAllocator) Next(kind string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.last[kind] == math.MaxInt64 {
		// Counter exhaustion is a fatal configuration error, not a
		// recoverable condition.
		panic(fmt.Sprintf("ledger: identity counter overflow for kind %q", kind))
	}
	a.last[kind]++
	return a.last[kind]
}

// Advance moves the counter for kind up to at least id. Called when
// hydrating persisted entities so their ids are never reissued.
func (a *IdentityAllocator) Advance(kind string, id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id > a.last[kind] {
		a.last[kind] = id
	}
}

// Current returns the highest id issued or seen for kind.
func (a *IdentityAllocator) Current(kind string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last[kind]
}
