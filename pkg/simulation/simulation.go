// Package simulation wires a mission, its generals and their fault
// behaviors into one run and reports the outcome.
package simulation

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/meta-node-blockchain/om-generals/pkg/archive"
	"github.com/meta-node-blockchain/om-generals/pkg/config"
	"github.com/meta-node-blockchain/om-generals/pkg/decisionboard"
	"github.com/meta-node-blockchain/om-generals/pkg/fault"
	"github.com/meta-node-blockchain/om-generals/pkg/general"
	"github.com/meta-node-blockchain/om-generals/pkg/logger"
	"github.com/meta-node-blockchain/om-generals/pkg/mission"
	"github.com/meta-node-blockchain/om-generals/pkg/trace"
)

type Options struct {
	MissionID string
	Generals  int
	Faults    int
	Order     bool
	// Traitors lists the faulty ids. When nil, TraitorCount ids are drawn
	// at random from Seed.
	Traitors     []int
	TraitorCount int
	Behavior     string
	Seed         uint64
	Sink         trace.Sink
}

// OptionsFromConfig maps a mission config onto run options.
func OptionsFromConfig(cfg *config.MissionConfig) Options {
	return Options{
		Generals:     cfg.Generals,
		Faults:       cfg.Faults,
		Order:        cfg.Order,
		TraitorCount: cfg.Traitors,
		Behavior:     cfg.Behavior,
		Seed:         cfg.Seed,
	}
}

type Outcome struct {
	MissionID       string
	N, M            int
	Order           bool
	Behavior        string
	Traitors        []int
	CommanderFaulty bool
	Entries         []decisionboard.Entry
	Decisions       map[int]bool
	// Agreement: all loyal lieutenants decided the same value.
	Agreement bool
	// Validity: with a loyal commander, every loyal lieutenant decided its
	// order. Vacuously true when the commander is a traitor.
	Validity bool
	Decision bool
	Messages int
	Elapsed  time.Duration
}

// Run executes one mission to completion. It fails before any general
// starts if the mission configuration is rejected.
func Run(opts Options) (*Outcome, error) {
	if opts.MissionID == "" {
		opts.MissionID = uuid.NewString()
	}
	ms, err := mission.New(opts.Generals, opts.Faults, mission.WithSink(opts.Sink))
	if err != nil {
		return nil, err
	}

	traitors := opts.Traitors
	if traitors == nil {
		rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
		traitors, err = fault.ChooseTraitors(opts.Generals, opts.TraitorCount, rng)
		if err != nil {
			return nil, err
		}
	}
	isTraitor := make(map[int]bool, len(traitors))
	for _, id := range traitors {
		if id < 0 || id >= opts.Generals {
			return nil, fmt.Errorf("traitor id %d outside [0,%d)", id, opts.Generals)
		}
		isTraitor[id] = true
	}
	behaviorFor := func(id int) fault.Behavior {
		if !isTraitor[id] {
			return fault.Honest{}
		}
		b, err := fault.ByName(opts.Behavior, opts.Seed, id)
		if err != nil {
			logger.Warn("General %d: %v, staying honest", id, err)
			return fault.Honest{}
		}
		return b
	}

	logger.Info("Mission %s: %d generals, fault bound %d, order %v, traitors %v (%s)",
		opts.MissionID, opts.Generals, opts.Faults, opts.Order, traitors, opts.Behavior)

	board := decisionboard.NewBoard()
	start := time.Now()
	var eg errgroup.Group
	for i := 0; i < opts.Generals; i++ {
		g := general.New(ms, opts.Order,
			general.WithBehavior(behaviorFor),
			general.WithSink(opts.Sink),
		)
		eg.Go(func() error {
			decision, err := g.Run()
			if err != nil {
				return err
			}
			board.Publish(decisionboard.Entry{
				ID:       g.ID(),
				Decision: decision,
				Faulty:   g.Faulty(),
				Messages: g.Tree().Size(),
			})
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("mission %s: %w", opts.MissionID, err)
	}

	out := &Outcome{
		MissionID:       opts.MissionID,
		N:               opts.Generals,
		M:               opts.Faults,
		Order:           opts.Order,
		Behavior:        opts.Behavior,
		Traitors:        traitors,
		CommanderFaulty: isTraitor[mission.CommanderID],
		Entries:         board.List(),
		Decisions:       make(map[int]bool, opts.Generals),
		Messages:        ms.Delivered(),
		Elapsed:         time.Since(start),
	}
	for _, e := range out.Entries {
		out.Decisions[e.ID] = e.Decision
	}
	out.Agreement, out.Decision = board.Agreement(mission.CommanderID)
	out.Validity = true
	if !out.CommanderFaulty {
		for _, e := range out.Entries {
			if e.ID != mission.CommanderID && !e.Faulty && e.Decision != opts.Order {
				out.Validity = false
			}
		}
	}
	logger.Info("Mission %s finished in %v: agreement=%v validity=%v decision=%v",
		out.MissionID, out.Elapsed, out.Agreement, out.Validity, out.Decision)
	return out, nil
}

// Record converts the outcome into its archived form.
func (o *Outcome) Record() *archive.Record {
	rec := &archive.Record{
		MissionID: o.MissionID,
		Generals:  uint32(o.N),
		Faults:    uint32(o.M),
		Order:     o.Order,
		Behavior:  o.Behavior,
		Traitors:  make([]uint32, len(o.Traitors)),
		Decisions: make([]archive.GeneralDecision, len(o.Entries)),
		Agreement: o.Agreement,
		Validity:  o.Validity,
		Messages:  uint64(o.Messages),
		CreatedAt: time.Now().Unix(),
	}
	for i, id := range o.Traitors {
		rec.Traitors[i] = uint32(id)
	}
	for i, e := range o.Entries {
		rec.Decisions[i] = archive.GeneralDecision{
			ID:       uint32(e.ID),
			Decision: e.Decision,
			Faulty:   e.Faulty,
			Messages: uint32(e.Messages),
		}
	}
	return rec
}
