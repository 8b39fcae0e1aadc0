// file: cmd/demo/main.go
package main

import (
	"log"

	"github.com/pterm/pterm"

	"github.com/meta-node-blockchain/om-generals/pkg/fault"
	"github.com/meta-node-blockchain/om-generals/pkg/report"
	"github.com/meta-node-blockchain/om-generals/pkg/simulation"
	"github.com/meta-node-blockchain/om-generals/pkg/trace"
)

type scenario struct {
	title string
	opts  simulation.Options
}

func main() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	scenarios := []scenario{
		{"4 generals, 1 tolerated traitor, commander attacks", simulation.Options{Generals: 4, Faults: 1, Order: true}},
		{"7 generals, 2 tolerated traitors, commander retreats", simulation.Options{Generals: 7, Faults: 2, Order: false}},
		{"7 generals, lying commander and lieutenant", simulation.Options{
			Generals: 7, Faults: 2, Order: true, Traitors: []int{0, 4}, Behavior: fault.BehaviorLiar,
		}},
		{"7 generals, two alternating lieutenants", simulation.Options{
			Generals: 7, Faults: 2, Order: true, Traitors: []int{2, 5}, Behavior: fault.BehaviorAlternator,
		}},
	}

	failed := 0
	for _, sc := range scenarios {
		pterm.DefaultSection.Println(sc.title)
		rec := &trace.Recorder{}
		sc.opts.Sink = rec
		out, err := simulation.Run(sc.opts)
		if err != nil {
			log.Fatalf("%s: %v", sc.title, err)
		}
		if err := report.Print(out.Record()); err != nil {
			log.Fatalf("%s: %v", sc.title, err)
		}
		log.Printf("%d trace events, %d sends, %d receives", len(rec.Events()),
			rec.Count(trace.PhaseSend), rec.Count(trace.PhaseReceive))
		if !out.Agreement || !out.Validity {
			failed++
		}
	}
	if failed > 0 {
		log.Fatalf("%d scenarios broke agreement or validity", failed)
	}
	pterm.Success.Println("All scenarios reached agreement")
}
