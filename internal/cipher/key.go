// Package cipher implements monoalphabetic substitution keys and the
// transform that applies them to text.
package cipher

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/jmccarv/subsolve/internal/alphabet"
)

var ErrInvalidKey = errors.New("cipher: invalid key")

// Key maps every ciphertext letter to a plaintext letter: k[i] is the
// letter that alphabet.Letter(i) decodes to. A Key is a permutation of the
// alphabet.
type Key [alphabet.Size]byte

// Identity returns the key that maps every letter to itself.
func Identity() Key {
	var k Key
	copy(k[:], alphabet.Letters)
	return k
}

// RandomKey returns a uniformly random permutation drawn from rng.
func RandomKey(rng *rand.Rand) Key {
	k := Identity()
	rng.Shuffle(len(k), func(i, j int) { k[i], k[j] = k[j], k[i] })
	return k
}

// Swap exchanges the targets of positions i and j. Swapping a position with
// itself is a no-op.
func (k *Key) Swap(i, j int) {
	k[i], k[j] = k[j], k[i]
}

// Inverse returns the key that undoes k. k must be valid.
func (k Key) Inverse() Key {
	var inv Key
	for i, c := range k {
		inv[alphabet.Index(c)] = alphabet.Letter(i)
	}
	return inv
}

// Valid reports whether k is a permutation of the alphabet.
func (k Key) Valid() error {
	var seen [alphabet.Size]bool
	for i, c := range k {
		idx := alphabet.Index(c)
		if idx < 0 {
			return fmt.Errorf("%w: %c maps to non-letter %q", ErrInvalidKey, alphabet.Letter(i), c)
		}
		if seen[idx] {
			return fmt.Errorf("%w: %c is the target of more than one letter", ErrInvalidKey, c)
		}
		seen[idx] = true
	}
	return nil
}

// Map returns k as a letter to letter mapping.
func (k Key) Map() map[byte]byte {
	m := make(map[byte]byte, len(k))
	for i, c := range k {
		m[alphabet.Letter(i)] = c
	}
	return m
}

// String returns the 26 target letters in ciphertext alphabet order.
func (k Key) String() string {
	return string(k[:])
}

// Mappings renders k in the A=B form accepted by ParseKey.
func (k Key) Mappings() string {
	var ret []string
	for i, c := range k {
		ret = append(ret, fmt.Sprintf("%c=%c", alphabet.Letter(i)-'a'+'A', c-'a'+'A'))
	}
	return strings.Join(ret, " ")
}

var rxKey = regexp.MustCompile(`\s*([A-Z]+=[A-Z]+)(?:[ ,]|$)`)

// ParseKey reads a key either as the 26 target letters in order, or as a
// list of mappings such as "ABC=XYZ Q=E" where the left side is the
// encrypted letter. Letters not named in a mapping list are assigned so that
// the result stays a permutation.
func ParseKey(s string) (Key, error) {
	line := bytes.ToUpper(bytes.TrimSpace([]byte(s)))

	if len(line) == alphabet.Size && !bytes.ContainsRune(line, '=') {
		var k Key
		copy(k[:], bytes.ToLower(line))
		if err := k.Valid(); err != nil {
			return Key{}, err
		}
		return k, nil
	}

	mappings := rxKey.FindAllSubmatch(line, -1)
	if len(mappings) == 0 {
		return Key{}, fmt.Errorf("%w: %q is neither 26 letters nor a mapping list", ErrInvalidKey, s)
	}

	k := Identity()
	var fixed [alphabet.Size]bool
	for _, m := range mappings {
		kv := bytes.SplitN(m[1], []byte("="), 2)
		if len(kv[0]) != len(kv[1]) {
			return Key{}, fmt.Errorf("%w: mapping %s has sides of different length", ErrInvalidKey, m[1])
		}

		// kv[0] is the encrypted side, kv[1] the decrypted side
		for i, cc := range bytes.ToLower(kv[0]) {
			wc := kv[1][i] - 'A' + 'a'
			ci := alphabet.Index(cc)

			if fixed[ci] {
				if k[ci] != wc {
					return Key{}, fmt.Errorf("%w: %c maps to both %c and %c", ErrInvalidKey, cc, k[ci], wc)
				}
				continue
			}

			p := bytes.IndexByte(k[:], wc)
			if fixed[p] {
				return Key{}, fmt.Errorf("%w: %c and %c both map to %c", ErrInvalidKey, alphabet.Letter(p), cc, wc)
			}
			k.Swap(ci, p)
			fixed[ci] = true
		}
	}

	return k, nil
}
