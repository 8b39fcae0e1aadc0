package barrier

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAwaitReleasesTogether(t *testing.T) {
	const parties = 8
	b := New(parties)
	var passed, lasts int32
	var wg sync.WaitGroup
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Await(nil) {
				atomic.AddInt32(&lasts, 1)
			}
			atomic.AddInt32(&passed, 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(parties), passed)
	assert.Equal(t, int32(1), lasts)
	assert.Equal(t, uint64(1), b.Generation())
}

func TestOnLastRunsBeforeRelease(t *testing.T) {
	const parties = 5
	b := New(parties)
	var flag int32
	var wg sync.WaitGroup
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Await(func(*Barrier) { atomic.StoreInt32(&flag, 1) })
			assert.Equal(t, int32(1), atomic.LoadInt32(&flag))
		}()
	}
	wg.Wait()
}

func TestReconfigureOnce(t *testing.T) {
	b := New(4)
	var calls int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Await(func(b *Barrier) {
				atomic.AddInt32(&calls, 1)
				b.SetPartiesLocked(3)
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls)
	assert.Equal(t, 3, b.Parties())

	// The next cycle completes with three parties.
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Await(nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(2), b.Generation())
}

func TestReuseAcrossCycles(t *testing.T) {
	const parties, cycles = 3, 50
	b := New(parties)
	counts := make([]int32, cycles)
	var wg sync.WaitGroup
	for p := 0; p < parties; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := 0; c < cycles; c++ {
				atomic.AddInt32(&counts[c], 1)
				b.Await(func(*Barrier) {
					// every party of cycle c has checked in
					assert.Equal(t, int32(parties), atomic.LoadInt32(&counts[c]))
				})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(cycles), b.Generation())
}

func TestSingleParty(t *testing.T) {
	b := New(0)
	assert.Equal(t, 1, b.Parties())
	assert.True(t, b.Await(func(b *Barrier) { b.SetPartiesLocked(2) }))
	assert.Equal(t, 2, b.Parties())
}
