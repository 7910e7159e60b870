package main

import (
	"bufio"
	"io"

	"github.com/jmccarv/subsolve/internal/alphabet"
)

// Longest cryptogram line we will read.
const maxCryptogramSize = 16 * 1024 * 1024

type cryptogram struct {
	lno       int
	text      string
	nrLetters int // number of letters once normalised
}

func newCryptogram(lno int, cgLine []byte) (cryptogram, bool) {
	cg := cryptogram{lno: lno}

	i := 0
	// Skip any leading whitespace
	for ; i < len(cgLine) && (cgLine[i] == ' ' || cgLine[i] == '\t'); i++ {
	}
	if i == len(cgLine) || cgLine[i] == '#' {
		// Blank or commented line, ignore
		return cg, false
	}

	cg.text = string(cgLine[i:])
	norm := alphabet.Normalize(cg.text)
	for j := 0; j < len(norm); j++ {
		if alphabet.IsLetter(norm[j]) {
			cg.nrLetters++
		}
	}

	return cg, true
}

func (cg cryptogram) String() string {
	return cg.text
}

// readCryptograms calls fn for every cryptogram in r, one per line, until
// fn returns an error or r is exhausted.
func readCryptograms(r io.Reader, fn func(cryptogram) error) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxCryptogramSize)

	lno := 0
	for s.Scan() {
		lno++
		cg, ok := newCryptogram(lno, s.Bytes())
		if !ok {
			continue
		}
		if err := fn(cg); err != nil {
			return err
		}
	}
	return s.Err()
}
