package search

import (
	"github.com/jmccarv/subsolve/internal/cipher"
	"github.com/jmccarv/subsolve/internal/ngram"
)

// Scorer rates a candidate key by how much the text it decodes looks like
// the language the model was trained on. Higher is better.
type Scorer struct {
	model *ngram.Model
}

func NewScorer(model *ngram.Model) *Scorer {
	return &Scorer{model: model}
}

// Evaluate returns the model's log likelihood of ciphertext decoded with key.
func (s *Scorer) Evaluate(key cipher.Key, ciphertext string) float64 {
	return s.model.Score(cipher.Apply(ciphertext, key))
}

func (s *Scorer) Model() *ngram.Model {
	return s.model
}
