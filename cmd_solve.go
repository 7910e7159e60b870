package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmccarv/subsolve/internal/config"
	"github.com/jmccarv/subsolve/internal/ngram"
	"github.com/jmccarv/subsolve/internal/solver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var solveFlags struct {
	corpus     string
	iterations int
	population int
	keep       int
	children   int
	workers    int
	attempts   int
	seed       int64
	topN       int
	maxRuntime time.Duration
	outDir     string
	showKey    bool
}

var solveCmd = &cobra.Command{
	Use:   "solve [CRYPTOGRAM FILE]",
	Short: "Recover the plaintext of cryptograms",
	Long: `Read cryptograms, one per line, from CRYPTOGRAM FILE or stdin and print
the most likely decodings of each. Blank lines and lines starting with '#'
are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.StringVarP(&solveFlags.corpus, "corpus", "f", "", "Training corpus")
	f.IntVarP(&solveFlags.iterations, "iterations", "n", 0, "Generations per attempt")
	f.IntVar(&solveFlags.population, "population", 0, "Initial population size")
	f.IntVar(&solveFlags.keep, "keep", 0, "Survivors kept per generation")
	f.IntVar(&solveFlags.children, "children", 0, "Children per survivor")
	f.IntVarP(&solveFlags.workers, "parallel", "p", 0, "Number of worker goroutines")
	f.IntVarP(&solveFlags.attempts, "attempts", "a", 0, "Independent attempts per cryptogram")
	f.Int64Var(&solveFlags.seed, "seed", 0, "Seed of the first attempt")
	f.IntVar(&solveFlags.topN, "topn", 0, "Display top N decodings of each cryptogram")
	f.DurationVarP(&solveFlags.maxRuntime, "max-runtime", "r", 0, "Quit each cryptogram after this amount of time. Ex: 30s or 1m")
	f.StringVarP(&solveFlags.outDir, "out-dir", "o", "", "Write every attempt's decoding to this directory")
	f.BoolVarP(&solveFlags.showKey, "key", "k", false, "Show the key of every decoding")
}

// applySolveFlags copies the flags given on the command line over cfg.
func applySolveFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("corpus") {
		cfg.Corpus = solveFlags.corpus
	}
	if f.Changed("iterations") {
		cfg.Search.Iterations = solveFlags.iterations
	}
	if f.Changed("population") {
		cfg.Search.Population = solveFlags.population
	}
	if f.Changed("keep") {
		cfg.Search.Keep = solveFlags.keep
	}
	if f.Changed("children") {
		cfg.Search.Children = solveFlags.children
	}
	if f.Changed("parallel") {
		cfg.Search.Workers = solveFlags.workers
	}
	if f.Changed("attempts") {
		cfg.Attempts = solveFlags.attempts
	}
	if f.Changed("seed") {
		cfg.Seed = solveFlags.seed
	}
	if f.Changed("topn") {
		cfg.TopN = solveFlags.topN
	}
	if f.Changed("max-runtime") {
		cfg.MaxRuntime = solveFlags.maxRuntime.String()
	}
	if f.Changed("out-dir") {
		cfg.OutputDir = solveFlags.outDir
	}
}

func runSolve(cmd *cobra.Command, args []string) error {
	applySolveFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	maxRuntime, _ := cfg.GetMaxRuntime()

	start := time.Now()
	model, err := ngram.TrainFile(cfg.Corpus)
	if err != nil {
		return err
	}
	logger.Info("Language model trained",
		zap.String("corpus", cfg.Corpus),
		zap.Int("words", model.Words()),
		zap.Duration("elapsed", time.Since(start)))

	var cgFile io.ReadCloser
	if len(args) > 0 {
		if cgFile, err = os.Open(args[0]); err != nil {
			return err
		}
	} else {
		cgFile = os.Stdin
	}
	defer cgFile.Close()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT)
	defer signal.Stop(sigs)

	slv := solver.New(model, cfg.SolverConfig(), solver.WithLogger(logger))
	out := cmd.OutOrStdout()

	return readCryptograms(cgFile, func(cg cryptogram) error {
		ctx, cancelFunc := context.WithCancel(cmd.Context())
		defer cancelFunc()
		if maxRuntime > 0 {
			var cancelTimeout context.CancelFunc
			ctx, cancelTimeout = context.WithTimeout(ctx, maxRuntime)
			defer cancelTimeout()
		}

		go func() {
			select {
			case <-sigs:
				cancelFunc()
			case <-ctx.Done():
				return
			}
		}()

		return solveCryptogram(ctx, out, slv, cg)
	})
}

func solveCryptogram(ctx context.Context, out io.Writer, slv *solver.Solver, cg cryptogram) error {
	log := logger.With(zap.Int("line", cg.lno))
	log.Debug("Solving cryptogram", zap.Int("letters", cg.nrLetters))

	start := time.Now()
	fmt.Fprintf(out, "\n%v\n", cg)

	attempts, err := slv.Solve(ctx, cg.text)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warn("Search stopped early, showing best keys so far", zap.Error(err))
	case err != nil:
		return err
	}

	ss := solver.NewResultSet(cfg.TopN)
	for _, a := range attempts {
		ss.Add(a)
	}
	ss.Dump(out, solveFlags.showKey)
	fmt.Fprintln(out, "Evaluated", len(attempts), "attempts in", time.Since(start))

	if cfg.OutputDir != "" {
		if err := solver.WriteAttempts(cfg.OutputDir, cg.lno, attempts); err != nil {
			return err
		}
		log.Info("Decodings written", zap.String("dir", cfg.OutputDir))
	}

	return nil
}
