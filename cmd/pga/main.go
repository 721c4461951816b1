// Command pga drives the evolutionary engine from the command line:
// single-process runs via "run", multi-process island runs via
// "run-islands".
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/pbalcer/pga/internal/engine"
	"github.com/pbalcer/pga/internal/evaluator"
	"github.com/pbalcer/pga/internal/island"
	"github.com/pbalcer/pga/internal/migration"
	"github.com/pbalcer/pga/internal/objective"
	"github.com/pbalcer/pga/internal/poolpga"
	"github.com/pbalcer/pga/pkg/config"
)

func main() {
	cmd := &cli.Command{
		Name:  "pga",
		Usage: "run a parallel genetic algorithm engine",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a JSON config file"},
			&cli.IntFlag{Name: "population-size", Value: 200},
			&cli.IntFlag{Name: "genome-length", Value: 16},
			&cli.IntFlag{Name: "generations", Value: 1000},
			&cli.FloatFlag{Name: "target-score", Usage: "0 disables early stop"},
			&cli.IntFlag{Name: "blocks", Value: 8},
			&cli.IntFlag{Name: "threads", Value: 64},
			&cli.StringFlag{Name: "objective", Value: "sum", Usage: "sum or sphere-min"},
			&cli.BoolFlag{Name: "verbose"},
			&cli.BoolFlag{Name: "progress", Value: true},
		},
		Commands: []*cli.Command{runCommand(), runIslandsCommand()},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("pga: fatal error")
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "evolve a single population in this process",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			configureLogging(cfg)

			eng := engine.Init(1, engine.GridConfig{Blocks: cfg.Blocks, Threads: cfg.Threads})
			defer eng.Deinit()

			obj, err := resolveObjective(cmd.String("objective"))
			if err != nil {
				return err
			}
			eng.SetObjective(obj)

			pop, err := eng.CreatePopulation(cfg.PopulationSize, cfg.GenomeLength, poolpga.RandomInit)
			if err != nil {
				return fmt.Errorf("pga: create population: %w", err)
			}

			var bar *progressbar.ProgressBar
			if cfg.ShowProgress {
				bar = progressbar.Default(int64(cfg.Generations))
				eng.OnGeneration = func(generation int, score []float32) {
					_ = bar.Add(1)
				}
			}

			target := targetScorePtr(cfg.TargetScore)
			if err := eng.Run(pop, cfg.Generations, target); err != nil {
				return fmt.Errorf("pga: run: %w", err)
			}

			genome, score, err := engine.GetBest(pop)
			if err != nil {
				return fmt.Errorf("pga: get best: %w", err)
			}

			log.WithFields(log.Fields{"score": score, "genome_len": len(genome)}).Info("run complete")
			fmt.Printf("best score: %.6f\n", score)

			return nil
		},
	}
}

func runIslandsCommand() *cli.Command {
	return &cli.Command{
		Name:  "run-islands",
		Usage: "evolve a population as one island in a multi-process mesh",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "peers", Usage: "websocket host:port for every island, indexed by rank"},
			&cli.StringFlag{Name: "listen", Usage: "this island's own host:port"},
			&cli.IntFlag{Name: "rank", Usage: "this island's rank among peers"},
			&cli.IntFlag{Name: "migration-interval", Value: 10},
			&cli.IntFlag{Name: "migrant-count", Value: 2},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			cfg.Peers = cmd.StringSlice("peers")
			cfg.ListenAddr = cmd.String("listen")
			cfg.Rank = int(cmd.Int("rank"))
			cfg.MigrationInterval = int(cmd.Int("migration-interval"))
			cfg.MigrantCount = int(cmd.Int("migrant-count"))

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("pga: invalid config: %w", err)
			}

			configureLogging(cfg)

			eng := engine.Init(1, engine.GridConfig{Blocks: cfg.Blocks, Threads: cfg.Threads})
			defer eng.Deinit()

			obj, err := resolveObjective(cmd.String("objective"))
			if err != nil {
				return err
			}
			eng.SetObjective(obj)

			pop, err := eng.CreatePopulation(cfg.PopulationSize, cfg.GenomeLength, poolpga.RandomInit)
			if err != nil {
				return fmt.Errorf("pga: create population: %w", err)
			}

			transport, err := migration.DialMesh(cfg.Rank, cfg.ListenAddr, cfg.Peers, 30*time.Second)
			if err != nil {
				return fmt.Errorf("pga: dial mesh: %w", err)
			}
			defer transport.Close()

			var bar *progressbar.ProgressBar
			if cfg.ShowProgress {
				bar = progressbar.Default(int64(cfg.Generations))
				eng.OnGeneration = func(generation int, score []float32) {
					_ = bar.Add(1)
				}
			}

			runner := island.NewRunner(eng, pop, transport, island.Config{
				Generations:       cfg.Generations,
				MigrationInterval: cfg.MigrationInterval,
				MigrantCount:      cfg.MigrantCount,
				TargetScore:       targetScorePtr(cfg.TargetScore),
			}, nil, nil)

			genome, score, err := runner.Run()
			if err != nil {
				return fmt.Errorf("pga: run: %w", err)
			}

			log.WithFields(log.Fields{
				"rank":  cfg.Rank,
				"score": score,
				"sent":  runner.Migration().Sent,
				"recv":  runner.Migration().Received,
			}).Info("island run complete")
			fmt.Printf("rank %d best score: %.6f genome: %v\n", cfg.Rank, score, genome)

			return nil
		},
	}
}

func loadConfig(cmd *cli.Command) (config.Config, error) {
	if path := cmd.String("config"); path != "" {
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}

		return cfg, cfg.Validate()
	}

	cfg := config.Default()
	cfg.PopulationSize = int(cmd.Int("population-size"))
	cfg.GenomeLength = int(cmd.Int("genome-length"))
	cfg.Generations = int(cmd.Int("generations"))
	cfg.TargetScore = cmd.Float("target-score")
	cfg.Blocks = int(cmd.Int("blocks"))
	cfg.Threads = int(cmd.Int("threads"))
	cfg.Verbose = cmd.Bool("verbose")
	cfg.ShowProgress = cmd.Bool("progress")

	return cfg, cfg.Validate()
}

func configureLogging(cfg config.Config) {
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func resolveObjective(name string) (evaluator.ObjectiveFunc, error) {
	switch name {
	case "sum":
		return objective.Sum, nil
	case "sphere-min":
		return objective.SphereMin, nil
	default:
		return nil, fmt.Errorf("pga: unknown objective %q", name)
	}
}

func targetScorePtr(v float64) *float32 {
	if v == 0 {
		return nil
	}

	f := float32(v)

	return &f
}
