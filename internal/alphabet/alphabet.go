// Package alphabet defines the 26 letter coordinate system shared by the
// language model and the cipher keys, and the text normalisation both of
// them consume.
package alphabet

import (
	"strings"
)

// Size is the number of letters in the alphabet.
const Size = 26

// Separator replaces every character that is not a letter.
const Separator = ' '

// Letters is the alphabet in index order.
const Letters = "abcdefghijklmnopqrstuvwxyz"

var validLetter [256]bool

func init() {
	for x := 'a'; x <= 'z'; x++ {
		validLetter[x] = true
	}
}

// IsLetter reports whether c is a lowercase letter of the alphabet.
func IsLetter(c byte) bool {
	return validLetter[c]
}

// Index returns the position of c in the alphabet, or -1 if c is not a
// lowercase letter.
func Index(c byte) int {
	if !validLetter[c] {
		return -1
	}
	return int(c - 'a')
}

// Letter returns the letter at position i. It panics if i is out of range.
func Letter(i int) byte {
	return Letters[i]
}

// Normalize lowercases s and replaces every rune that is not an ASCII
// letter with a single Separator. Runs of separators are kept as they are,
// so the output has exactly one byte per rune of the input.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteByte(byte(r))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(byte(r - 'A' + 'a'))
		default:
			b.WriteByte(Separator)
		}
	}
	return b.String()
}

// Words splits normalised text into its maximal runs of letters.
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r > 0xff || !validLetter[byte(r)]
	})
}
