// Package mission coordinates the generals of one OM(m) run. It assigns ids
// and gates every round with two barriers: all active senders deposit
// their messages before anyone receives, and all receivers collect the
// round before anyone sends again.
package mission

import (
	"fmt"
	"sync"

	"github.com/meta-node-blockchain/om-generals/pkg/barrier"
	"github.com/meta-node-blockchain/om-generals/pkg/logger"
	"github.com/meta-node-blockchain/om-generals/pkg/message"
	"github.com/meta-node-blockchain/om-generals/pkg/trace"
)

const CommanderID = 0

type Option func(*Mission)

// WithSink sets the trace sink receiving registration events.
func WithSink(sink trace.Sink) Option {
	return func(m *Mission) { m.sink = sink }
}

type Mission struct {
	n, m int

	mu         sync.Mutex
	nextID     int
	registered []int
	round      int
	mailbox    []message.Message
	delivered  []message.Message
	total      int

	roster   *barrier.Barrier
	sendGate *barrier.Barrier
	recvGate *barrier.Barrier

	sink trace.Sink
}

// New validates m >= 0 and n > 3m and returns a mission ready for
// registration.
func New(n, m int, opts ...Option) (*Mission, error) {
	if m < 0 || n <= 3*m {
		return nil, &ConfigurationError{N: n, M: m}
	}
	ms := &Mission{
		n:          n,
		m:          m,
		registered: make([]int, 0, n),
		roster:     barrier.New(n),
		sendGate:   barrier.New(n),
		recvGate:   barrier.New(n - 1),
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms, nil
}

func (ms *Mission) N() int { return ms.n }

func (ms *Mission) M() int { return ms.m }

// NumRounds is m+1.
func (ms *Mission) NumRounds() int { return ms.m + 1 }

// Register assigns the next id and blocks until all n generals have
// reported for duty.
func (ms *Mission) Register() (int, error) {
	ms.mu.Lock()
	if ms.nextID >= ms.n {
		ms.mu.Unlock()
		return -1, ErrMissionFull
	}
	id := ms.nextID
	ms.nextID++
	ms.registered = append(ms.registered, id)
	ms.mu.Unlock()

	logger.Debug("General %d reported for duty", id)
	trace.Emit(ms.sink, trace.Event{ParticipantID: id, Phase: trace.PhaseRegister})

	if ms.roster.Await(nil) {
		logger.Info("All %d generals reported, %d rounds to run", ms.n, ms.NumRounds())
	}
	return id, nil
}

// Registered returns the ids assigned so far.
func (ms *Mission) Registered() []int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]int(nil), ms.registered...)
}

func (ms *Mission) checkCall(id, round int) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if id < 0 || id >= ms.nextID {
		return fmt.Errorf("%w: %d", ErrUnknownGeneral, id)
	}
	if round != ms.round || round >= ms.NumRounds() {
		return fmt.Errorf("%w: general %d called for round %d during round %d", ErrRoundMismatch, id, round, ms.round)
	}
	return nil
}

// SendRound deposits msgs into the round mailbox and waits until every
// active sender of the round has done the same. Every general sends in
// round 0; the commander withdraws afterwards, so later rounds wait for
// n-1 senders.
func (ms *Mission) SendRound(senderID, round int, msgs []message.Message) error {
	if err := ms.checkCall(senderID, round); err != nil {
		return err
	}
	if senderID == CommanderID && round > 0 {
		return ErrCommanderWithdrawn
	}

	ms.mu.Lock()
	for _, msg := range msgs {
		ms.mailbox = append(ms.mailbox, msg.Clone())
	}
	ms.mu.Unlock()

	ms.sendGate.Await(func(b *barrier.Barrier) {
		if round == 0 {
			b.SetPartiesLocked(ms.n - 1)
		}
	})
	return nil
}

// ReceiveRound waits for every lieutenant and then returns the complete
// mailbox of the round. The last arrival moves the mailbox out and opens
// the next round before anyone is released.
func (ms *Mission) ReceiveRound(receiverID, round int) ([]message.Message, error) {
	if err := ms.checkCall(receiverID, round); err != nil {
		return nil, err
	}
	if receiverID == CommanderID {
		return nil, ErrCommanderWithdrawn
	}

	ms.recvGate.Await(func(*barrier.Barrier) {
		ms.mu.Lock()
		defer ms.mu.Unlock()
		ms.delivered = ms.mailbox
		ms.mailbox = nil
		ms.total += len(ms.delivered)
		ms.round++
		logger.Debug("Round %d closed with %d messages", round, len(ms.delivered))
	})

	// The snapshot cannot be replaced before this receiver takes part in
	// the next receive barrier.
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]message.Message(nil), ms.delivered...), nil
}

// Round is the round currently open for sending.
func (ms *Mission) Round() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.round
}

// Delivered is the number of messages handed out across all closed rounds,
// counted once per round.
func (ms *Mission) Delivered() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.total
}
