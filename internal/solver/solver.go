// Package solver decodes ciphertext by running several independent searches
// and ranking what they found.
package solver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmccarv/subsolve/internal/cipher"
	"github.com/jmccarv/subsolve/internal/ngram"
	"github.com/jmccarv/subsolve/internal/search"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	Search     search.Config
	Iterations int

	// Attempts is the number of independent searches per ciphertext.
	Attempts int

	// Parallel bounds how many attempts run at once.
	Parallel int

	// Seed is the seed of the first attempt; attempt n uses Seed+n. Zero
	// picks a time based seed.
	Seed int64
}

type Solver struct {
	scorer *search.Scorer
	cfg    Config
	log    *zap.Logger
}

type Option func(s *Solver)

func WithLogger(log *zap.Logger) Option {
	return func(s *Solver) {
		s.log = log
	}
}

func New(model *ngram.Model, cfg Config, opts ...Option) *Solver {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.Parallel < 1 {
		cfg.Parallel = 1
	}

	s := &Solver{scorer: search.NewScorer(model), cfg: cfg}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Attempt is the outcome of one search.
type Attempt struct {
	N       int
	Seed    int64
	Result  search.Result
	Decoded string
}

// Solve runs the configured number of attempts on ciphertext and returns
// them in attempt order. If ctx is cancelled the attempts hold the best keys
// found before cancellation and the context error is returned with them.
func (s *Solver) Solve(ctx context.Context, ciphertext string) ([]Attempt, error) {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	attempts := make([]Attempt, s.cfg.Attempts)

	var g errgroup.Group
	g.SetLimit(s.cfg.Parallel)
	for n := range attempts {
		a := &attempts[n]
		a.N = n + 1
		a.Seed = seed + int64(n)

		g.Go(func() error {
			log := s.log.With(zap.Int("attempt", a.N), zap.Int64("seed", a.Seed))

			e, err := search.New(s.scorer, s.cfg.Search, search.WithSeed(a.Seed), search.WithLogger(log))
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := e.Run(ctx, ciphertext, s.cfg.Iterations)
			a.Result = res
			a.Decoded = cipher.Apply(ciphertext, res.Key)

			log.Info("attempt finished",
				zap.Float64("score", res.Score),
				zap.Int("generations", res.Generations),
				zap.Duration("elapsed", time.Since(start)))
			return err
		})
	}

	err := g.Wait()
	return attempts, err
}

// Best returns the highest scoring attempt. The first one wins ties.
func Best(attempts []Attempt) (Attempt, bool) {
	if len(attempts) == 0 {
		return Attempt{}, false
	}
	best := attempts[0]
	for _, a := range attempts[1:] {
		if a.Result.Score > best.Result.Score {
			best = a
		}
	}
	return best, true
}

// WriteAttempts saves the decoded text of every attempt for the cryptogram
// on input line lno to its own file in dir.
func WriteAttempts(dir string, lno int, attempts []Attempt) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("solver: creating output directory: %w", err)
	}

	for _, a := range attempts {
		path := filepath.Join(dir, fmt.Sprintf("decoded_%d_%d.txt", lno, a.N))
		if err := os.WriteFile(path, []byte(a.Decoded), 0644); err != nil {
			return fmt.Errorf("solver: writing attempt %d: %w", a.N, err)
		}
	}
	return nil
}
