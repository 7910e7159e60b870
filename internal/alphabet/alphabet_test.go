package alphabet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexLetter(t *testing.T) {
	for i := 0; i < Size; i++ {
		c := Letter(i)
		require.Equal(t, i, Index(c))
		require.True(t, IsLetter(c))
	}

	for _, c := range []byte{'A', 'Z', ' ', '\'', '0', '{', '`', 0xff} {
		assert.Equal(t, -1, Index(c), "byte %q", c)
		assert.False(t, IsLetter(c))
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"The Quick", "the quick"},
		{"it's  done!", "it s  done "},
		{"MIT YSAU, 2005", "mit ysau      "},
		{"café", "caf "},
		{"tab\there", "tab here"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "input %q", c.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	s := Normalize("Hello, World -- 42 times!")
	assert.Equal(t, s, Normalize(s))
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"the", "lazy", "dog"}, Words("  the lazy   dog "))
	assert.Empty(t, Words(""))
	assert.Empty(t, Words("   "))
	assert.Equal(t, []string{"it", "s"}, Words(Normalize("it's")))
}
