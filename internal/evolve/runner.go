// Package evolve drives an evolution run: it breeds generations, tracks the
// best individual, archives champions and writes generation records.
package evolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/lander/pkg/ast"
	"github.com/mesh-intelligence/lander/pkg/darwin"
	"github.com/mesh-intelligence/lander/pkg/trace"
	"github.com/mesh-intelligence/lander/pkg/types"
)

// ErrInvalidOptions is returned by Run for unusable options.
var ErrInvalidOptions = errors.New("invalid run options")

// Options configures a run.
type Options struct {
	Name           string
	PopulationSize int
	Generations    int // 0 runs until ctx is done
	Workers        int // 0 means GOMAXPROCS
	Seed           uint64
	Params         darwin.Params

	// Records receives one JSON line per improvement, and every SaveEvery
	// generations when SaveEvery > 0.
	Records   io.Writer
	SaveEvery int

	// TraceDir receives the flight trace and source of each champion.
	TraceDir string
	Compress bool
}

// Runner evolves individuals of type T.
type Runner[T darwin.Genome[T]] struct {
	Controller string // types.ControllerCondition or types.ControllerProgram
	Scorer     darwin.Scorer[T]
	New        func(gen *ast.Generator) T

	// Archive, when set and attached, records the run and its champions.
	Archive types.Archive
}

// Result summarises a run.
type Result[T darwin.Genome[T]] struct {
	RunID       string // empty without an archive
	Best        T      // simplified best individual
	Score       darwin.ScoreCard
	Generation  int // generation Best was found in
	Generations int // generations scored
	Seed        uint64
}

// NewConditionRunner evolves thrust conditions.
func NewConditionRunner(s darwin.Scorer[*ast.Condition]) *Runner[*ast.Condition] {
	return &Runner[*ast.Condition]{
		Controller: types.ControllerCondition,
		Scorer:     s,
		New:        (*ast.Generator).Condition,
	}
}

// NewProgramRunner evolves full control programs.
func NewProgramRunner(s darwin.Scorer[*ast.Program]) *Runner[*ast.Program] {
	return &Runner[*ast.Program]{
		Controller: types.ControllerProgram,
		Scorer:     s,
		New:        (*ast.Generator).Program,
	}
}

// Run evolves until opts.Generations generations are scored or ctx is done.
// On cancellation it returns the best result so far together with the
// context's error, and marks the archived run aborted.
func (r *Runner[T]) Run(ctx context.Context, opts Options) (Result[T], error) {
	var res Result[T]
	if opts.PopulationSize < 1 || opts.Generations < 0 || opts.SaveEvery < 0 {
		return res, fmt.Errorf("%w: population %d, generations %d, save every %d",
			ErrInvalidOptions, opts.PopulationSize, opts.Generations, opts.SaveEvery)
	}
	if err := opts.Params.Validate(); err != nil {
		return res, err
	}

	res.Seed = opts.Seed
	if res.Seed == 0 {
		res.Seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(res.Seed, res.Seed>>1|1))

	rec, err := r.startRun(opts, res.Seed)
	if err != nil {
		return res, err
	}
	if rec != nil {
		res.RunID = rec.run.RunID
	}
	log := slog.With("run", res.RunID, "controller", r.Controller)
	log.Info("run started", "seed", res.Seed, "population", opts.PopulationSize)

	gen := ast.NewGenerator(rng, opts.Params.MaxDepth)
	gen.Sensors = opts.Params.Sensors
	pop := darwin.RandomPopulation(opts.PopulationSize, func() T { return r.New(gen) })

	var keeper darwin.OptimumKeeper[T]
	for {
		if err := pop.Score(ctx, r.Scorer, opts.Workers, rng); err != nil {
			return r.stop(res, rec, &keeper, err)
		}
		winner, card, err := pop.Winner()
		if err != nil {
			return r.stop(res, rec, &keeper, err)
		}
		res.Generations = pop.Generation + 1

		improved := keeper.Improved(winner, card, pop.Generation)
		if improved {
			best, _, _, _ := keeper.Best()
			log.Info("new champion", "generation", pop.Generation, "score", card.Total(), "source", best.Source())
			if err := r.champion(rec, best, card, pop.Generation, opts); err != nil {
				return r.stop(res, rec, &keeper, err)
			}
		} else {
			log.Debug("generation scored", "generation", pop.Generation, "score", card.Total())
		}

		if opts.Records != nil && (improved || (opts.SaveEvery > 0 && pop.Generation%opts.SaveEvery == 0)) {
			out, err := trace.NewOutput(pop.Generation, winner, card)
			if err == nil {
				err = out.WriteJSONLine(opts.Records)
			}
			if err != nil {
				return r.stop(res, rec, &keeper, fmt.Errorf("writing generation record: %w", err))
			}
		}

		if rec != nil {
			if err := rec.advance(card.Total()); err != nil {
				return r.stop(res, rec, &keeper, err)
			}
		}

		if opts.Generations > 0 && res.Generations >= opts.Generations {
			break
		}
		if pop, err = pop.Evolve(ctx, opts.Params, rng); err != nil {
			return r.stop(res, rec, &keeper, err)
		}
	}

	res = fill(res, &keeper)
	if rec != nil {
		if err := rec.finish(); err != nil {
			return res, err
		}
	}
	log.Info("run finished", "generations", res.Generations, "score", res.Score.Total(), "best", res.Best.Source())
	return res, nil
}

// stop ends the run after err. Cancellation aborts the archived run.
func (r *Runner[T]) stop(res Result[T], rec *runRecord, keeper *darwin.OptimumKeeper[T], err error) (Result[T], error) {
	res = fill(res, keeper)
	if rec != nil {
		if abortErr := rec.abort(); abortErr != nil {
			err = errors.Join(err, abortErr)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.Info("run interrupted", "run", res.RunID, "generations", res.Generations)
	}
	return res, err
}

func fill[T darwin.Genome[T]](res Result[T], keeper *darwin.OptimumKeeper[T]) Result[T] {
	if best, card, generation, ok := keeper.Best(); ok {
		res.Best, res.Score, res.Generation = best, card, generation
	}
	return res
}

// champion archives best and writes its trace files.
func (r *Runner[T]) champion(rec *runRecord, best T, card darwin.ScoreCard, generation int, opts Options) error {
	if rec != nil {
		if err := rec.champion(best, card, generation); err != nil {
			return err
		}
	}
	if opts.TraceDir == "" {
		return nil
	}

	if err := trace.SaveSource(filepath.Join(opts.TraceDir, "best.src"), best); err != nil {
		return err
	}
	t := card.Trace()
	if t == nil {
		return nil
	}
	name := fmt.Sprintf("gen-%05d.json", generation)
	if opts.Compress {
		name += trace.CompressedExt
	}
	return trace.Save(filepath.Join(opts.TraceDir, name), t)
}

// runRecord mirrors the archived Run of an evolution.
type runRecord struct {
	runs      types.Table
	champions types.Table
	run       *types.Run
}

func (r *Runner[T]) startRun(opts Options, seed uint64) (*runRecord, error) {
	if r.Archive == nil {
		return nil, nil
	}
	runs, err := r.Archive.GetTable(types.RunsTable)
	if err != nil {
		return nil, err
	}
	champions, err := r.Archive.GetTable(types.ChampionsTable)
	if err != nil {
		return nil, err
	}

	params, err := paramsMap(opts)
	if err != nil {
		return nil, err
	}
	run := &types.Run{
		Name:       opts.Name,
		Seed:       seed,
		Controller: r.Controller,
		Params:     params,
	}
	if _, err := runs.Set("", run); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}
	return &runRecord{runs: runs, champions: champions, run: run}, nil
}

// paramsMap flattens the options worth keeping with the run.
func paramsMap(opts Options) (map[string]any, error) {
	var sensors []string
	for _, s := range opts.Params.Sensors {
		sensors = append(sensors, s.String())
	}
	data, err := json.Marshal(struct {
		darwin.Params
		PopulationSize int      `json:"population_size"`
		Generations    int      `json:"generations"`
		Sensors        []string `json:"sensors,omitempty"`
	}{opts.Params, opts.PopulationSize, opts.Generations, sensors})
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (rr *runRecord) advance(best float64) error {
	if err := rr.run.Advance(best); err != nil {
		return err
	}
	_, err := rr.runs.Set(rr.run.RunID, rr.run)
	return err
}

func (rr *runRecord) finish() error {
	if err := rr.run.Finish(); err != nil {
		return err
	}
	_, err := rr.runs.Set(rr.run.RunID, rr.run)
	return err
}

func (rr *runRecord) abort() error {
	if err := rr.run.Abort(); err != nil {
		return err
	}
	_, err := rr.runs.Set(rr.run.RunID, rr.run)
	return err
}

func (rr *runRecord) champion(best ast.Node, card darwin.ScoreCard, generation int) error {
	program, err := json.Marshal(best)
	if err != nil {
		return fmt.Errorf("encoding champion: %w", err)
	}
	var scores []types.ScoreComponent
	for _, s := range card.Scores() {
		scores = append(scores, types.ScoreComponent{Name: s.Name, Value: s.Value})
	}
	_, err = rr.champions.Set("", &types.Champion{
		RunID:      rr.run.RunID,
		Generation: generation,
		Source:     best.Source(),
		Program:    program,
		Score:      card.Total(),
		Scores:     scores,
	})
	if err != nil {
		return fmt.Errorf("recording champion: %w", err)
	}
	return nil
}

// OpenRecords opens the generation record file at path for appending,
// creating the file and its directory. An empty path returns a nil writer.
func OpenRecords(path string) (io.WriteCloser, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
