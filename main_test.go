package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmccarv/subsolve/internal/cipher"
	"github.com/jmccarv/subsolve/internal/ngram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCryptogram(t *testing.T) {
	cg, ok := newCryptogram(3, []byte("  Uif dbu, 42!"))
	require.True(t, ok)
	assert.Equal(t, 3, cg.lno)
	assert.Equal(t, "Uif dbu, 42!", cg.String())
	assert.Equal(t, 6, cg.nrLetters)

	for _, line := range []string{"", "   ", "\t", "# a comment", "  # indented comment"} {
		_, ok := newCryptogram(1, []byte(line))
		assert.False(t, ok, "line %q", line)
	}
}

func TestReadCryptograms(t *testing.T) {
	in := "# header\nxli gex\n\n  fsc\n"

	var got []cryptogram
	err := readCryptograms(strings.NewReader(in), func(cg cryptogram) error {
		got = append(got, cg)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].lno)
	assert.Equal(t, "xli gex", got[0].text)
	assert.Equal(t, 4, got[1].lno)

	stop := errors.New("stop")
	err = readCryptograms(strings.NewReader(in), func(cryptogram) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestEncryptLines(t *testing.T) {
	key, err := cipher.ParseKey("BCDEFGHIJKLMNOPQRSTUVWXYZA")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, encryptLines(strings.NewReader("The cat\nsat.\n"), &out, key))
	assert.Equal(t, "uif dbu\ntbu \n", out.String())
}

func TestDispFreqs(t *testing.T) {
	m, err := ngram.Train(strings.NewReader("the tot\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	dispFreqs(&out, m)
	assert.True(t, strings.HasPrefix(out.String(), "2 words\nt "))
}

func TestSolveCommand(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "train.txt")
	require.NoError(t, os.WriteFile(corpus, []byte(strings.Repeat("the cat\nthe cat sat\n", 10)), 0644))

	key, err := cipher.ParseKey("QWERTYUIOPASDFGHJKLZXCVBNM")
	require.NoError(t, err)
	input := filepath.Join(dir, "cryptograms.txt")
	require.NoError(t, os.WriteFile(input, []byte("# secret\n"+cipher.Apply("the cat", key)+"\n"), 0644))

	outDir := filepath.Join(dir, "out")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"--config", filepath.Join(dir, "none.yaml"),
		"solve", "-f", corpus, "--seed", "1", "-n", "500", "-a", "16", "--topn", "1", "-o", outDir, input,
	})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Attempt: ")
	assert.Contains(t, out.String(), "the cat\n")
	assert.Contains(t, out.String(), "Evaluated 16 attempts")

	files, err := filepath.Glob(filepath.Join(outDir, "decoded_2_*.txt"))
	require.NoError(t, err)
	assert.Len(t, files, 16)
}
