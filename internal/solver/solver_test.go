package solver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmccarv/subsolve/internal/cipher"
	"github.com/jmccarv/subsolve/internal/ngram"
	"github.com/jmccarv/subsolve/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newSolver(t *testing.T, cfg Config) *Solver {
	t.Helper()
	m, err := ngram.Train(strings.NewReader(strings.Repeat("the cat\nthe cat sat\n", 10)))
	require.NoError(t, err)
	return New(m, cfg)
}

func defaultConfig() Config {
	return Config{
		Search:     search.DefaultConfig(),
		Iterations: 500,
		Attempts:   16,
		Parallel:   4,
		Seed:       1,
	}
}

func TestSolve(t *testing.T) {
	secret, err := cipher.ParseKey("mnbvcxzlkjhgfdsapoiuytrewq")
	require.NoError(t, err)
	ct := cipher.Apply("The cat.", secret)

	attempts, err := newSolver(t, defaultConfig()).Solve(context.Background(), ct)
	require.NoError(t, err)
	require.Len(t, attempts, 16)

	for i, a := range attempts {
		assert.Equal(t, i+1, a.N)
		assert.Equal(t, int64(1+i), a.Seed)
		assert.Equal(t, 500, a.Result.Generations)
		assert.Equal(t, cipher.Apply(ct, a.Result.Key), a.Decoded)
	}

	best, ok := Best(attempts)
	require.True(t, ok)
	assert.Equal(t, "the cat ", best.Decoded)
}

func TestSolveReproducible(t *testing.T) {
	cfg := defaultConfig()
	cfg.Attempts = 3
	cfg.Iterations = 50
	ct := "xli gex"

	a, err := newSolver(t, cfg).Solve(context.Background(), ct)
	require.NoError(t, err)
	cfg.Parallel = 1
	b, err := newSolver(t, cfg).Solve(context.Background(), ct)
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].Result.Key, b[i].Result.Key)
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts, err := newSolver(t, defaultConfig()).Solve(ctx, "xli gex")
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, attempts, 16)
	for _, a := range attempts {
		assert.NoError(t, a.Result.Key.Valid())
		assert.Len(t, a.Decoded, len("xli gex"))
	}
}

func TestSolveBadConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Search.Keep = 0
	_, err := newSolver(t, cfg).Solve(context.Background(), "xli gex")
	require.Error(t, err)
}

func TestBestEmpty(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)
}

func attempt(n int, score float64, decoded string) Attempt {
	return Attempt{N: n, Result: search.Result{Key: cipher.Identity(), Score: score}, Decoded: decoded}
}

func TestResultSet(t *testing.T) {
	rs := NewResultSet(2)

	assert.True(t, rs.Add(attempt(1, -10, "a")))
	assert.False(t, rs.Add(attempt(2, -1, "a")), "duplicate text")
	assert.True(t, rs.Add(attempt(3, -5, "b")))
	assert.False(t, rs.Add(attempt(4, -20, "c")), "worse than a full set")
	assert.True(t, rs.Add(attempt(5, -2, "d")))

	got := rs.Attempts()
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].N)
	assert.Equal(t, 3, got[1].N)

	var buf bytes.Buffer
	rs.Dump(&buf, true)
	assert.Contains(t, buf.String(), "decoded abcdefghijklmnopqrstuvwxyz")
	assert.Contains(t, buf.String(), "Attempt: 5  Score: -2.0000  d")
}

func TestWriteAttempts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	err := WriteAttempts(dir, 7, []Attempt{attempt(1, 0, "the cat"), attempt(2, 0, "the sat")})
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "decoded_7_2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "the sat", string(b))
}
