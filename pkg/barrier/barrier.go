// Package barrier provides a re-armable multi-party rendezvous point.
package barrier

import "sync"

// Barrier blocks callers of Await until the configured number of parties
// have arrived, then releases all of them together and re-arms itself for
// the next cycle.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	arrived    int
	generation uint64
}

// New creates a barrier requiring `parties` arrivals per cycle.
func New(parties int) *Barrier {
	if parties < 1 {
		parties = 1
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Await blocks until every party of the current cycle has arrived.
//
// The last arrival runs onLast (if not nil) while holding the barrier lock,
// after all peers have reached the barrier and before any of them is
// released. onLast may call SetPartiesLocked to change the arity of the
// next cycle. Await reports whether the caller was the last arrival.
func (b *Barrier) Await(onLast func(b *Barrier)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.generation
	b.arrived++
	if b.arrived >= b.parties {
		if onLast != nil {
			onLast(b)
		}
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()
		return true
	}

	// Wakeups that do not advance the generation are spurious.
	for gen == b.generation {
		b.cond.Wait()
	}
	return false
}

// SetPartiesLocked changes the arity of the next cycle. It must only be
// called from inside an onLast callback.
func (b *Barrier) SetPartiesLocked(parties int) {
	if parties < 1 {
		parties = 1
	}
	b.parties = parties
}

func (b *Barrier) Parties() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parties
}

// Generation returns the number of completed cycles.
func (b *Barrier) Generation() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}

