package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/pterm/pterm"

	"github.com/meta-node-blockchain/om-generals/pkg/archive"
	"github.com/meta-node-blockchain/om-generals/pkg/config"
	"github.com/meta-node-blockchain/om-generals/pkg/logger"
	"github.com/meta-node-blockchain/om-generals/pkg/loggerfile"
	"github.com/meta-node-blockchain/om-generals/pkg/mission"
	"github.com/meta-node-blockchain/om-generals/pkg/report"
	"github.com/meta-node-blockchain/om-generals/pkg/simulation"
	"github.com/meta-node-blockchain/om-generals/pkg/storage"
	"github.com/meta-node-blockchain/om-generals/pkg/trace"
)

const (
	exitOK         = 0
	exitFailure    = 1
	exitBadMission = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "Configuration file, JSON or .toml (defaults are used when empty)")
	n := flag.Int("n", 0, "Number of generals, commander included")
	m := flag.Int("m", 0, "Number of traitors to tolerate")
	order := flag.Bool("order", true, "Commander's order: true attacks, false retreats")
	traitors := flag.Int("traitors", 0, "Number of generals that actually misbehave")
	behavior := flag.String("behavior", "", "Traitor behavior: honest, liar, alternator, random")
	seed := flag.Uint64("seed", 0, "Seed for traitor selection and random behavior")
	verbosity := flag.Int("v", -1, "Log level, 0 (off) to 5 (trace)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.LoadConfigFromFile(*configFile)
		if err != nil {
			log.Printf("Error loading config: %v", err)
			return exitFailure
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.Generals = *n
		case "m":
			cfg.Faults = *m
		case "order":
			cfg.Order = *order
		case "traitors":
			cfg.Traitors = *traitors
		case "behavior":
			cfg.Behavior = *behavior
		case "seed":
			cfg.Seed = *seed
		case "v":
			cfg.LogLevel = *verbosity
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid config: %v", err)
		return exitFailure
	}

	opts := simulation.OptionsFromConfig(cfg)
	opts.MissionID = uuid.NewString()
	logger.SetConfig(&logger.LoggerConfig{
		Flag:       cfg.LogLevel,
		Identifier: opts.MissionID[:8],
		Outputs:    []io.Writer{os.Stdout},
		ErrOutput:  os.Stderr,
		NoColor:    *noColor,
	})
	if *noColor {
		pterm.DisableColor()
	}

	var sinks []trace.Sink
	var console *logger.Sink
	if cfg.Trace.Console {
		console = logger.NewSink(cfg.Trace.RatePerSec, int(cfg.Trace.RatePerSec))
		sinks = append(sinks, console)
	}
	var files *loggerfile.TraceSink
	if cfg.Trace.Dir != "" {
		if cfg.Trace.CleanBefore {
			if err := loggerfile.NewLogCleaner(cfg.Trace.Dir).CleanLogs(); err != nil {
				logger.Warn("Could not clean %s: %v", cfg.Trace.Dir, err)
			}
		}
		loggerfile.SetGlobalLogDir(cfg.Trace.Dir)
		files = loggerfile.NewTraceSink(opts.MissionID)
		defer files.Close()
		sinks = append(sinks, files)
	}
	opts.Sink = trace.Multi(sinks...)

	out, err := simulation.Run(opts)
	if errors.Is(err, mission.ErrInvalidConfiguration) {
		logger.Error("Mission refused: %v", err)
		return exitBadMission
	}
	if err != nil {
		logger.Error("Mission failed: %v", err)
		return exitFailure
	}
	if console != nil && console.Dropped() > 0 {
		logger.Warn("Console trace dropped %d events, raise trace.rate_per_sec to see them", console.Dropped())
	}
	if files != nil {
		for id, path := range files.Paths() {
			logger.Debug("General %d trace: %s", id, path)
		}
	}

	rec := out.Record()
	if err := persist(cfg.Storage, rec); err != nil {
		logger.Error("Could not archive mission %s: %v", rec.MissionID, err)
	}
	if err := report.Print(rec); err != nil {
		logger.Error("Could not render report: %v", err)
	}
	if !out.Agreement || !out.Validity {
		logger.Error("Mission %s broke its guarantees: agreement=%v validity=%v", out.MissionID, out.Agreement, out.Validity)
		return exitFailure
	}
	return exitOK
}

func persist(cfg config.StorageConfig, rec *archive.Record) error {
	db, err := storage.LoadDb(cfg.Path, cfg.Type)
	if err != nil {
		return err
	}
	defer db.Close()
	return archive.NewStore(db).Save(rec)
}
