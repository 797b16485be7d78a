package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityAllocator_StrictlyIncreasing(t *testing.T) {
	a := NewIdentityAllocator()

	prev := int64(0)
	for i := 0; i < 100; i++ {
		id := a.Next("account")
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestIdentityAllocator_KindsAreIndependent(t *testing.T) {
	a := NewIdentityAllocator()

	assert.Equal(t, int64(1), a.Next("account"))
	assert.Equal(t, int64(2), a.Next("account"))
	assert.Equal(t, int64(1), a.Next("client"))
	assert.Equal(t, int64(3), a.Next("account"))
}

func TestIdentityAllocator_Advance(t *testing.T) {
	a := NewIdentityAllocator()
	a.Advance("card", 40)

	assert.Equal(t, int64(41), a.Next("card"))

	// Advancing backwards is a no-op.
	a.Advance("card", 5)
	assert.Equal(t, int64(42), a.Next("card"))
}

func TestIdentityAllocator_ConcurrentNextNeverRepeats(t *testing.T) {
	a := NewIdentityAllocator()

	const goroutines = 50
	const perGoroutine = 200

	var mu sync.Mutex
	seen := make(map[int64]bool, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id := a.Next("txn")
				mu.Lock()
				require.False(t, seen[id], "id %d issued twice", id)
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
	assert.Equal(t, int64(goroutines*perGoroutine), a.Current("txn"))
}
