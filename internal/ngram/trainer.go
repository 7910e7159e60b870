package ngram

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/jmccarv/subsolve/internal/alphabet"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Every count starts at this weight so that no letter or letter pair ever
// ends up with zero probability.
const DefaultSmoothing = 1

// Longest corpus line the trainer will read.
const maxLineSize = 16 * 1024 * 1024

// Trainer accumulates letter counts from a corpus. It is not safe for
// concurrent use. Compile turns the counts into an immutable Model.
type Trainer struct {
	smoothing float64
	unigram   []float64
	bigram    *mat.Dense
	words     int
}

type TrainerOption func(t *Trainer)

// TrainerSmoothing sets the initial weight of every count.
func TrainerSmoothing(w float64) TrainerOption {
	return func(t *Trainer) {
		t.smoothing = w
	}
}

func NewTrainer(opts ...TrainerOption) *Trainer {
	t := &Trainer{smoothing: DefaultSmoothing}
	for _, o := range opts {
		o(t)
	}

	t.unigram = make([]float64, alphabet.Size)
	for i := range t.unigram {
		t.unigram[i] = t.smoothing
	}

	cells := make([]float64, alphabet.Size*alphabet.Size)
	for i := range cells {
		cells[i] = t.smoothing
	}
	t.bigram = mat.NewDense(alphabet.Size, alphabet.Size, cells)

	return t
}

// AddWord counts a single word made of lowercase letters. Any other byte
// splits the word.
func (t *Trainer) AddWord(word string) {
	first := true
	last := 0
	for i := 0; i < len(word); i++ {
		idx := alphabet.Index(word[i])
		if idx < 0 {
			first = true
			continue
		}
		if first {
			t.unigram[idx]++
			t.words++
			first = false
		} else {
			t.bigram.Set(last, idx, t.bigram.At(last, idx)+1)
		}
		last = idx
	}
}

// AddLine normalises a line of raw text and counts every word in it.
// Blank lines are ignored.
func (t *Trainer) AddLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	for _, w := range alphabet.Words(alphabet.Normalize(line)) {
		t.AddWord(w)
	}
}

// Add reads rdr line by line and counts every line.
func (t *Trainer) Add(rdr io.Reader) error {
	s := bufio.NewScanner(rdr)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for s.Scan() {
		t.AddLine(s.Text())
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("ngram: reading corpus: %w", err)
	}
	return nil
}

// Words returns the number of words counted so far.
func (t *Trainer) Words() int {
	return t.words
}

// Compile normalises a snapshot of the counts into a Model. The trainer
// may keep accumulating afterwards without affecting the returned Model.
func (t *Trainer) Compile() (*Model, error) {
	m := &Model{words: t.words}

	uni := make([]float64, alphabet.Size)
	copy(uni, t.unigram)
	if err := normalize(uni); err != nil {
		return nil, fmt.Errorf("ngram: unigram table: %w", err)
	}
	copy(m.unigram[:], uni)

	bi := mat.DenseCopyOf(t.bigram)
	for i := 0; i < alphabet.Size; i++ {
		row := bi.RawRowView(i)
		if err := normalize(row); err != nil {
			return nil, fmt.Errorf("ngram: bigram row %q: %w", alphabet.Letter(i), err)
		}
		copy(m.bigram[i][:], row)
	}

	for i := 0; i < alphabet.Size; i++ {
		m.logUnigram[i] = math.Log(m.unigram[i])
		for j := 0; j < alphabet.Size; j++ {
			m.logBigram[i][j] = math.Log(m.bigram[i][j])
		}
	}

	return m, nil
}

// normalize scales v in place so that it sums to 1.
func normalize(v []float64) error {
	s := floats.Sum(v)
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return fmt.Errorf("cannot normalise counts summing to %v", s)
	}
	floats.Scale(1/s, v)
	return nil
}

// Train builds a Model from every line of rdr.
func Train(rdr io.Reader, opts ...TrainerOption) (*Model, error) {
	t := NewTrainer(opts...)
	if err := t.Add(rdr); err != nil {
		return nil, err
	}
	return t.Compile()
}

// TrainFile builds a Model from the corpus stored at path.
func TrainFile(path string, opts ...TrainerOption) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ngram: opening corpus: %w", err)
	}
	defer f.Close()

	return Train(f, opts...)
}
