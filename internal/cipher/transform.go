package cipher

import (
	"github.com/jmccarv/subsolve/internal/alphabet"
)

// Apply normalises text and replaces every letter with its target under k.
// Separators pass through unchanged.
func Apply(text string, k Key) string {
	b := []byte(alphabet.Normalize(text))
	for i, c := range b {
		if idx := alphabet.Index(c); idx >= 0 {
			b[i] = k[idx]
		}
	}
	return string(b)
}

// ApplyMap is Apply for a partial mapping. Letters missing from m pass
// through unchanged.
func ApplyMap(text string, m map[byte]byte) string {
	b := []byte(alphabet.Normalize(text))
	for i, c := range b {
		if x, ok := m[c]; ok {
			b[i] = x
		}
	}
	return string(b)
}
