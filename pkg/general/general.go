// Package general implements one participant of the OM(m) protocol. Each
// General runs on its own goroutine and talks to its peers only through a
// Coordinator.
package general

import (
	"fmt"
	"strings"

	"github.com/meta-node-blockchain/om-generals/pkg/decisiontree"
	"github.com/meta-node-blockchain/om-generals/pkg/fault"
	"github.com/meta-node-blockchain/om-generals/pkg/logger"
	"github.com/meta-node-blockchain/om-generals/pkg/message"
	"github.com/meta-node-blockchain/om-generals/pkg/trace"
)

type Role int

const (
	Commander Role = iota
	Lieutenant
)

func (r Role) String() string {
	if r == Commander {
		return "commander"
	}
	return "lieutenant"
}

// Coordinator is the synchronous network a General runs against.
type Coordinator interface {
	Register() (int, error)
	NumRounds() int
	SendRound(senderID, round int, msgs []message.Message) error
	ReceiveRound(receiverID, round int) ([]message.Message, error)
}

type Option func(*General)

// WithBehavior decides, once the id is known, how the general picks the
// values it sends. Generals are honest by default.
func WithBehavior(fn func(id int) fault.Behavior) Option {
	return func(g *General) { g.behaviorFor = fn }
}

func WithSink(sink trace.Sink) Option {
	return func(g *General) { g.sink = sink }
}

type General struct {
	coord       Coordinator
	order       bool
	behaviorFor func(id int) fault.Behavior
	sink        trace.Sink

	id                int
	role              Role
	behavior          fault.Behavior
	tree              *decisiontree.Tree
	lastRoundDecision bool
	decision          bool
	finished          bool
}

// New creates a general. order is only used if the general is assigned
// the commander's id.
func New(coord Coordinator, order bool, opts ...Option) *General {
	g := &General{
		coord: coord,
		order: order,
		id:    -1,
		tree:  decisiontree.New(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *General) ID() int { return g.id }

func (g *General) Role() Role { return g.role }

func (g *General) Faulty() bool {
	return g.behavior != nil && g.behavior.Faulty()
}

// Decision returns the final value once Run has completed.
func (g *General) Decision() (bool, bool) {
	return g.decision, g.finished
}

// Tree exposes the decision tree built during Run.
func (g *General) Tree() *decisiontree.Tree { return g.tree }

// Run reports for duty and plays every round. It returns the general's
// final decision. The commander returns after sending its order.
func (g *General) Run() (bool, error) {
	id, err := g.coord.Register()
	if err != nil {
		return false, fmt.Errorf("register: %w", err)
	}
	g.id = id
	g.role = Lieutenant
	if id == 0 {
		g.role = Commander
	}
	g.behavior = fault.Honest{}
	if g.behaviorFor != nil {
		if b := g.behaviorFor(id); b != nil {
			g.behavior = b
		}
	}
	logger.Debug("General %d is %s (%s)", g.id, g.role, g.behavior.Name())

	if g.role == Commander {
		err = g.command()
	} else {
		err = g.serve()
	}
	if err != nil {
		return false, err
	}
	g.finished = true
	g.emit(g.coord.NumRounds()-1, trace.PhaseFinal, map[string]interface{}{
		"decision": g.decision,
		"faulty":   g.Faulty(),
	})
	return g.decision, nil
}

// command sends the order in round 0 and withdraws.
func (g *General) command() error {
	issued := g.behavior.Relay(g.order, 0, 0)
	orders := []message.Message{message.New(g.id, issued)}
	g.emit(0, trace.PhaseSend, map[string]interface{}{"messages": 1, "value": issued})
	if err := g.coord.SendRound(g.id, 0, orders); err != nil {
		return fmt.Errorf("commander send: %w", err)
	}
	g.decision = g.order
	return nil
}

// serve runs the lieutenant state machine for all rounds and folds the tree.
func (g *General) serve() error {
	var received []message.Message
	for round := 0; round < g.coord.NumRounds(); round++ {
		out := g.relay(received, round)
		g.emit(round, trace.PhaseSend, map[string]interface{}{"messages": len(out)})
		if err := g.coord.SendRound(g.id, round, out); err != nil {
			return fmt.Errorf("general %d send round %d: %w", g.id, round, err)
		}

		msgs, err := g.coord.ReceiveRound(g.id, round)
		if err != nil {
			return fmt.Errorf("general %d receive round %d: %w", g.id, round, err)
		}
		g.emit(round, trace.PhaseReceive, map[string]interface{}{"messages": len(msgs)})

		if err := g.tree.InsertRound(msgs, round); err != nil {
			return fmt.Errorf("general %d round %d: %w", g.id, round, err)
		}
		g.lastRoundDecision = decisiontree.MajorityOf(msgs)
		g.emit(round, trace.PhaseDecide, map[string]interface{}{"provisional": g.lastRoundDecision})
		received = msgs
	}

	decision, err := g.tree.Finalize()
	if err != nil {
		return fmt.Errorf("general %d finalize: %w", g.id, err)
	}
	g.decision = decision
	logger.Debug("General %d decided %v over %d messages, depth %d", g.id, decision, g.tree.Size(), g.tree.Depth())
	if logger.Enabled(logger.FLAG_TRACE) {
		g.tree.Walk(func(msg message.Message, depth int) {
			logger.Trace("General %d tree %s%s", g.id, strings.Repeat("  ", depth), msg)
		})
	}
	return nil
}

// relay forwards every message of the previous round that another general
// sent, stamping it with this general's id and its round decision.
func (g *General) relay(received []message.Message, round int) []message.Message {
	if round == 0 {
		return nil
	}
	out := make([]message.Message, 0, len(received))
	for _, msg := range received {
		if msg.SenderID() == g.id {
			continue
		}
		value := g.behavior.Relay(g.lastRoundDecision, round, len(out))
		out = append(out, msg.Forward(g.id, value))
	}
	return out
}

func (g *General) emit(round int, phase trace.Phase, payload map[string]interface{}) {
	trace.Emit(g.sink, trace.Event{
		ParticipantID: g.id,
		Round:         round,
		Phase:         phase,
		Payload:       payload,
	})
}
