package ledger

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderWalletIDs_SortsAndDeduplicates(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	ordered := orderWalletIDs([]uuid.UUID{b, a, b, a})
	require.Len(t, ordered, 2)
	assert.True(t, bytes.Compare(ordered[0][:], ordered[1][:]) < 0)

	// Same set in either input order yields the same acquisition order.
	reversed := orderWalletIDs([]uuid.UUID{a, b})
	assert.Equal(t, ordered, reversed)
}

func TestWalletLocker_ReusesMutexPerWallet(t *testing.T) {
	locker := newWalletLocker()
	id := uuid.New()

	first := locker.mutexFor(id)
	second := locker.mutexFor(id)
	assert.Same(t, first, second)
}

func TestWalletLocker_UnlockReleasesAll(t *testing.T) {
	locker := newWalletLocker()
	a := uuid.New()
	b := uuid.New()

	unlock := locker.lock(a, b)
	unlock()

	// Relocking immediately must not block.
	done := make(chan struct{})
	go func() {
		unlock := locker.lock(b, a)
		unlock()
		close(done)
	}()
	<-done
}
