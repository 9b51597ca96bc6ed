package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lander/internal/config"
	"github.com/mesh-intelligence/lander/internal/evolve"
	"github.com/mesh-intelligence/lander/internal/paths"
	"github.com/mesh-intelligence/lander/pkg/darwin"
	"github.com/mesh-intelligence/lander/pkg/fitness"
	"github.com/mesh-intelligence/lander/pkg/types"
)

type evolveFlags struct {
	generations int
	population  int
	workers     int
	seed        uint64
	controller  string
	name        string
	traceOut    string
	traceDir    string
}

func newEvolveCmd() *cobra.Command {
	var ef evolveFlags
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Evolve a controller and archive its champions",
		Long: `Evolve breeds a population of thrust conditions or full control programs,
scoring every generation in parallel. Each improvement on the best score is
archived as a champion and its flight trace is written to the trace
directory. Interrupting the command stops the run and marks it aborted.

Flags override the evolution section of config.yaml.

Example:
  lander evolve --generations 50 --population 500 --seed 7
  lander evolve --controller program --trace-out records.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvolve(cmd, ef)
		},
	}
	cmd.Flags().IntVar(&ef.generations, "generations", 0, "generations to run (0 runs until interrupted)")
	cmd.Flags().IntVar(&ef.population, "population", 0, "population size")
	cmd.Flags().IntVar(&ef.workers, "workers", 0, "parallel scoring workers (0 means GOMAXPROCS)")
	cmd.Flags().Uint64Var(&ef.seed, "seed", 0, "random seed (0 seeds from the clock)")
	cmd.Flags().StringVar(&ef.controller, "controller", "", "controller kind: condition or program")
	cmd.Flags().StringVar(&ef.name, "name", "", "label stored with the run")
	cmd.Flags().StringVar(&ef.traceOut, "trace-out", "", "append a JSON record per improvement, and every output.save_every generations, to this file")
	cmd.Flags().StringVar(&ef.traceDir, "trace-dir", "", "directory for champion traces (default: <data-dir>/traces)")
	return cmd
}

// settings merges the flags that were set into the loaded configuration.
func (ef evolveFlags) settings(cmd *cobra.Command) config.Config {
	cfg := config.Default()
	if loaded != nil {
		cfg = *loaded
	}
	f := cmd.Flags()
	if f.Changed("generations") {
		cfg.Evolution.Generations = ef.generations
	}
	if f.Changed("population") {
		cfg.Evolution.PopulationSize = ef.population
	}
	if f.Changed("workers") {
		cfg.Evolution.Workers = ef.workers
	}
	if f.Changed("seed") {
		cfg.Evolution.Seed = ef.seed
	}
	if f.Changed("controller") {
		cfg.Evolution.Controller = ef.controller
	}
	if f.Changed("trace-dir") {
		cfg.Output.TraceDir = ef.traceDir
	}
	return cfg
}

func runEvolve(cmd *cobra.Command, ef evolveFlags) error {
	cfg := ef.settings(cmd)
	if err := cfg.Validate(); err != nil {
		return userError(err)
	}

	archive, dir, err := attachArchive()
	if err != nil {
		return err
	}
	defer archive.Detach()

	records, err := evolve.OpenRecords(ef.traceOut)
	if err != nil {
		return sysError(fmt.Errorf("open trace output: %w", err))
	}
	if records != nil {
		defer records.Close()
	}

	traceDir := cfg.Output.TraceDir
	if traceDir == "" {
		traceDir = paths.TraceDir(dir)
	}
	opts := evolve.Options{
		Name:           ef.name,
		PopulationSize: cfg.Evolution.PopulationSize,
		Generations:    cfg.Evolution.Generations,
		Workers:        cfg.Evolution.Workers,
		Seed:           cfg.Evolution.Seed,
		Params:         cfg.Evolution.Params(),
		SaveEvery:      cfg.Output.SaveEvery,
		TraceDir:       traceDir,
		Compress:       cfg.Output.Compress,
	}
	if records != nil {
		opts.Records = records
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var summary evolveSummary
	switch cfg.Evolution.Controller {
	case types.ControllerProgram:
		runner := evolve.NewProgramRunner(fitness.SurvivalScorer{World: cfg.World, Trials: cfg.Evolution.Trials})
		runner.Archive = archive
		res, err := runner.Run(ctx, opts)
		summary = summarize(res)
		if err = evolveError(err); err != nil {
			return err
		}
	default:
		runner := evolve.NewConditionRunner(fitness.NewLandingScorer(cfg.World, cfg.Evolution.Trials))
		runner.Archive = archive
		res, err := runner.Run(ctx, opts)
		summary = summarize(res)
		if err = evolveError(err); err != nil {
			return err
		}
	}

	if flags.jsonMode {
		return printJSON(cmd, summary)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run: %s\nseed: %d\ngenerations: %d\nbest: %s\nscore: %.4f (generation %d)\n",
		summary.RunID, summary.Seed, summary.Generations, summary.Best, summary.Score, summary.Generation)
	return nil
}

// evolveError classifies a run error. An interrupt ends the run normally.
func evolveError(err error) error {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, evolve.ErrInvalidOptions), errors.Is(err, darwin.ErrInvalidParams):
		return userError(err)
	}
	return sysError(err)
}

type evolveSummary struct {
	RunID       string  `json:"run_id"`
	Seed        uint64  `json:"seed"`
	Generations int     `json:"generations"`
	Generation  int     `json:"generation"`
	Score       float64 `json:"score"`
	Best        string  `json:"best"`
}

func summarize[T darwin.Genome[T]](res evolve.Result[T]) evolveSummary {
	s := evolveSummary{
		RunID:       res.RunID,
		Seed:        res.Seed,
		Generations: res.Generations,
		Generation:  res.Generation,
		Score:       res.Score.Total(),
	}
	if len(res.Score.Scores()) > 0 {
		s.Best = res.Best.Source()
	}
	return s
}
