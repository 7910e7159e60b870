/*
Package ngram implements a letter bigram language model.

A model is built once from a corpus and never changes afterwards:

	t := ngram.NewTrainer()
	err := t.Add(corpus)
	model, err := t.Compile()

The unigram table holds the probability of a letter starting a word and
each row of the bigram table holds the probability of the next letter given
the current one. Both are smoothed so no probability is ever zero.

Score returns the natural log likelihood of a text, which makes scores of
texts with the same length directly comparable. A Model is safe for
concurrent use.
*/
package ngram

import (
	"sort"

	"github.com/jmccarv/subsolve/internal/alphabet"
	"gonum.org/v1/gonum/mat"
)

type Model struct {
	unigram    [alphabet.Size]float64
	bigram     [alphabet.Size][alphabet.Size]float64
	logUnigram [alphabet.Size]float64
	logBigram  [alphabet.Size][alphabet.Size]float64
	words      int
}

// Score returns the log likelihood of normalised text: the log unigram
// probability of the first letter of every word plus the log bigram
// probability of every following letter given the one before it. Bytes that
// are not lowercase letters separate words. Empty text scores 0.
func (m *Model) Score(text string) float64 {
	var logProb float64

	first := true
	last := 0
	for i := 0; i < len(text); i++ {
		idx := alphabet.Index(text[i])
		if idx < 0 {
			first = true
			continue
		}
		if first {
			logProb += m.logUnigram[idx]
			first = false
		} else {
			logProb += m.logBigram[last][idx]
		}
		last = idx
	}

	return logProb
}

// WordScore is Score for a single word.
func (m *Model) WordScore(word string) float64 {
	return m.Score(word)
}

// Unigram returns a copy of the unigram probabilities in alphabet order.
func (m *Model) Unigram() []float64 {
	u := make([]float64, alphabet.Size)
	copy(u, m.unigram[:])
	return u
}

// Bigram returns a copy of the bigram table. Cell (i, j) is the
// probability of letter j following letter i.
func (m *Model) Bigram() mat.Matrix {
	d := mat.NewDense(alphabet.Size, alphabet.Size, nil)
	for i := range m.bigram {
		d.SetRow(i, m.bigram[i][:])
	}
	return d
}

// Words returns the number of corpus words the model was trained on.
func (m *Model) Words() int {
	return m.words
}

type LetterFreq struct {
	Letter byte
	Pct    float64
}

// LetterFreqs lists the word-initial letter probabilities, most frequent
// first.
func (m *Model) LetterFreqs() []LetterFreq {
	freq := make([]LetterFreq, alphabet.Size)
	for i := range freq {
		freq[i] = LetterFreq{Letter: alphabet.Letter(i), Pct: m.unigram[i]}
	}
	sort.SliceStable(freq, func(i, j int) bool { return freq[i].Pct > freq[j].Pct })
	return freq
}
