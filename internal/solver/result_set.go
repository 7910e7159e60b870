package solver

import (
	"fmt"
	"io"
	"sort"

	"github.com/jmccarv/subsolve/internal/alphabet"
)

// ResultSet keeps the best scoring attempts, ignoring attempts whose
// decoded text has already been seen.
type ResultSet struct {
	set  []Attempt
	seen map[string]bool
	nr   int
}

func NewResultSet(size int) *ResultSet {
	if size < 1 {
		size = 1
	}
	return &ResultSet{make([]Attempt, 0, size+1), make(map[string]bool), size}
}

// return true if we added a to the set
func (rs *ResultSet) Add(a Attempt) bool {
	if rs.seen[a.Decoded] {
		return false
	}
	rs.seen[a.Decoded] = true

	if len(rs.set) >= rs.nr {
		if a.Result.Score <= rs.set[len(rs.set)-1].Result.Score {
			return false
		}
	}

	rs.set = append(rs.set, a)
	sort.SliceStable(rs.set, func(i, j int) bool { return rs.set[i].Result.Score > rs.set[j].Result.Score })

	if len(rs.set) > rs.nr {
		rs.set = rs.set[:rs.nr]
	}

	return true
}

// Attempts returns the kept attempts, best first.
func (rs *ResultSet) Attempts() []Attempt {
	return append([]Attempt(nil), rs.set...)
}

func (rs *ResultSet) Dump(w io.Writer, includeKey bool) {
	for _, a := range rs.set {
		if includeKey {
			fmt.Fprintln(w, "encoded", alphabet.Letters)
			fmt.Fprintln(w, "decoded", a.Result.Key)
		}
		fmt.Fprintf(w, "Attempt: %d  Score: %0.4f  %s\n", a.N, a.Result.Score, a.Decoded)
	}
}
