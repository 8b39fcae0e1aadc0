// Package fault provides the behaviors a general may follow when choosing
// the value it puts on outgoing messages. Honest generals relay their own
// round decision; traitors may lie, alternate or flip coins.
package fault

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
)

const (
	BehaviorHonest     = "honest"
	BehaviorLiar       = "liar"
	BehaviorAlternator = "alternator"
	BehaviorRandom     = "random"
)

// Behavior picks the value of the seq-th message a general sends in a round,
// given the value an honest general would send.
type Behavior interface {
	Name() string
	Faulty() bool
	Relay(honest bool, round, seq int) bool
}

type Honest struct{}

func (Honest) Name() string {
	return BehaviorHonest
}

func (Honest) Faulty() bool {
	return false
}

func (Honest) Relay(honest bool, round, seq int) bool {
	return honest
}

// Liar always sends the opposite value.
type Liar struct{}

func (Liar) Name() string {
	return BehaviorLiar
}

func (Liar) Faulty() bool {
	return true
}

func (Liar) Relay(honest bool, round, seq int) bool {
	return !honest
}

// Alternator flips between the honest value and its negation from one
// outgoing message to the next. Every receiver reads the same round
// mailbox, so the values differ across messages but never across peers:
// this is not per-receiver equivocation. As commander it issues the honest
// order, that message being the first of round 0.
type Alternator struct{}

func (Alternator) Name() string {
	return BehaviorAlternator
}

func (Alternator) Faulty() bool {
	return true
}

func (Alternator) Relay(honest bool, round, seq int) bool {
	if (seq+round)%2 == 0 {
		return honest
	}
	return !honest
}

// Random flips a seeded coin for every message.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandom(seed uint64, id int) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, uint64(id)+1))}
}

func (r *Random) Name() string {
	return BehaviorRandom
}

func (r *Random) Faulty() bool {
	return true
}

func (r *Random) Relay(honest bool, round, seq int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(2) == 1
}

// ByName builds the behavior for general id.
func ByName(name string, seed uint64, id int) (Behavior, error) {
	switch name {
	case "", BehaviorHonest:
		return Honest{}, nil
	case BehaviorLiar:
		return Liar{}, nil
	case BehaviorAlternator:
		return Alternator{}, nil
	case BehaviorRandom:
		return NewRandom(seed, id), nil
	default:
		return nil, fmt.Errorf("unknown fault behavior %q", name)
	}
}

// Known reports whether name is a supported behavior.
func Known(name string) bool {
	_, err := ByName(name, 0, 0)
	return err == nil
}

// ChooseTraitors picks k distinct ids out of [0,n), sorted ascending.
func ChooseTraitors(n, k int, rng *rand.Rand) ([]int, error) {
	if k < 0 || k > n {
		return nil, fmt.Errorf("cannot choose %d traitors among %d generals", k, n)
	}
	if k == 0 {
		return nil, nil
	}
	chosen := rng.Perm(n)[:k]
	sort.Ints(chosen)
	return chosen, nil
}
