package ledger

import (
	"bytes"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// walletLocker provides per-wallet mutual exclusion for the
// validate+apply critical section. Locks are always acquired in
// ascending wallet-id order so two concurrent transfers referencing the
// same wallet pair in opposite order cannot deadlock.
type walletLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newWalletLocker() *walletLocker {
	return &walletLocker{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// lock acquires the mutex of every given wallet and returns a function
// releasing them in reverse order.
func (l *walletLocker) lock(ids ...uuid.UUID) func() {
	ordered := orderWalletIDs(ids)

	acquired := make([]*sync.Mutex, 0, len(ordered))
	for _, id := range ordered {
		mu := l.mutexFor(id)
		mu.Lock()
		acquired = append(acquired, mu)
	}

	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
}

func (l *walletLocker) mutexFor(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	mu, ok := l.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		l.locks[id] = mu
	}
	return mu
}

// orderWalletIDs returns the ids deduplicated and sorted ascending by
// their byte representation.
func orderWalletIDs(ids []uuid.UUID) []uuid.UUID {
	ordered := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			ordered = append(ordered, id)
		}
	}

	sort.Slice(ordered, func(i, j int) bool {
		return bytes.Compare(ordered[i][:], ordered[j][:]) < 0
	})

	return ordered
}
