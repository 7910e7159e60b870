/*
Package search recovers a substitution key by evolving a population of
candidate keys, using a language model's likelihood of the decoded text as
fitness.

Each generation every surviving key produces mutated children by swapping
two of its letters, the whole pool is scored, and only the best keys
survive. Parents stay in the pool unchanged, so the best score never drops
from one generation to the next.
*/
package search

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/jmccarv/subsolve/internal/alphabet"
	"github.com/jmccarv/subsolve/internal/cipher"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	DefaultPopulation = 20
	DefaultKeep       = 5
	DefaultChildren   = 3
	DefaultIterations = 1000

	// progress is logged every this many generations
	progressEvery = 100
)

type Config struct {
	// Population is the number of random keys the search starts from.
	Population int

	// Keep is the number of keys that survive each selection.
	Keep int

	// Children is the number of mutated copies each survivor produces.
	Children int

	// Workers bounds the number of goroutines scoring candidates.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		Population: DefaultPopulation,
		Keep:       DefaultKeep,
		Children:   DefaultChildren,
		Workers:    1,
	}
}

// Candidate is a key and the fitness of the text it decodes. Keys that have
// not been scored yet carry a score of -Inf.
type Candidate struct {
	Key   cipher.Key
	Score float64
}

type Result struct {
	Key   cipher.Key
	Score float64

	// Generations is the number of generations completed.
	Generations int

	// History holds the best score after the initial selection followed by
	// the best score after each generation.
	History []float64
}

type Engine struct {
	cfg    Config
	scorer *Scorer
	rng    *rand.Rand
	log    *zap.Logger
	pop    []Candidate
}

type Option func(e *Engine)

// WithRand sets the random source used to build and mutate keys.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithSeed seeds a private random source, making the search reproducible.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates an engine with a population of cfg.Population random keys.
func New(scorer *Scorer, cfg Config, opts ...Option) (*Engine, error) {
	if scorer == nil {
		return nil, fmt.Errorf("search: nil scorer")
	}
	if cfg.Population < 1 {
		return nil, fmt.Errorf("search: population must be at least 1, got %d", cfg.Population)
	}
	if cfg.Keep < 1 {
		return nil, fmt.Errorf("search: keep must be at least 1, got %d", cfg.Keep)
	}
	if cfg.Children < 0 {
		return nil, fmt.Errorf("search: children must not be negative, got %d", cfg.Children)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	e := &Engine{cfg: cfg, scorer: scorer}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}

	e.pop = make([]Candidate, cfg.Population)
	for i := range e.pop {
		e.pop[i] = Candidate{Key: cipher.RandomKey(e.rng), Score: math.Inf(-1)}
	}

	return e, nil
}

// Population returns a copy of the current population in rank order (after
// a Select) or creation order.
func (e *Engine) Population() []Candidate {
	pop := make([]Candidate, len(e.pop))
	copy(pop, e.pop)
	return pop
}

// Best returns the highest scoring candidate in the population.
func (e *Engine) Best() Candidate {
	best := e.pop[0]
	for _, c := range e.pop[1:] {
		if c.Score > best.Score {
			best = c
		}
	}
	return best
}

// Evaluate scores every candidate against ciphertext. Candidates are scored
// concurrently; each worker only writes its own candidate's score.
func (e *Engine) Evaluate(ciphertext string) {
	p := pool.New().WithMaxGoroutines(e.cfg.Workers)
	for i := range e.pop {
		c := &e.pop[i]
		p.Go(func() {
			c.Score = e.scorer.Evaluate(c.Key, ciphertext)
		})
	}
	p.Wait()
}

// Select orders the population by descending score and drops everything
// after the first keep candidates. Equal scores keep their current order.
func (e *Engine) Select(keep int) {
	sort.SliceStable(e.pop, func(i, j int) bool { return e.pop[i].Score > e.pop[j].Score })
	if keep < len(e.pop) {
		e.pop = e.pop[:keep]
	}
}

// Reproduce appends children mutated copies of every current candidate. Each
// copy has two uniformly chosen positions swapped; both positions may be the
// same, leaving the copy unchanged. The parents themselves are kept as they
// are.
func (e *Engine) Reproduce(children int) {
	parents := len(e.pop)
	for p := 0; p < parents; p++ {
		for n := 0; n < children; n++ {
			child := e.pop[p].Key
			child.Swap(e.rng.Intn(alphabet.Size), e.rng.Intn(alphabet.Size))
			e.pop = append(e.pop, Candidate{Key: child, Score: math.Inf(-1)})
		}
	}
}

// Run evaluates and selects the initial population, then runs iterations
// generations of reproduce, evaluate and select. The best key after the last
// selection is returned.
//
// ctx is checked between generations. If it is done, Run returns the best
// result so far together with ctx.Err().
func (e *Engine) Run(ctx context.Context, ciphertext string, iterations int) (Result, error) {
	ciphertext = alphabet.Normalize(ciphertext)

	e.Evaluate(ciphertext)
	e.Select(e.cfg.Keep)

	res := Result{History: make([]float64, 0, max(iterations, 0)+1)}
	res.History = append(res.History, e.pop[0].Score)

	for g := 0; g < iterations; g++ {
		if err := ctx.Err(); err != nil {
			e.log.Debug("search cancelled", zap.Int("generation", g), zap.Error(err))
			return e.result(res), err
		}

		e.Reproduce(e.cfg.Children)
		e.Evaluate(ciphertext)
		e.Select(e.cfg.Keep)

		res.Generations++
		res.History = append(res.History, e.pop[0].Score)

		if g%progressEvery == 0 {
			e.log.Debug("search progress",
				zap.Int("generation", g),
				zap.Int("iterations", iterations),
				zap.Float64("best", e.pop[0].Score))
		}
	}

	return e.result(res), nil
}

func (e *Engine) result(res Result) Result {
	res.Key = e.pop[0].Key
	res.Score = e.pop[0].Score
	return res
}
