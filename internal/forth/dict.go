package forth

import "strings"

// Word is one dictionary header. Per the Design Notes' license to realize
// the dictionary as "a vector of entries" rather than a literal flat memory
// region, headers live in their own slice; only compiled thread bodies
// (colon definitions' cell sequences) live in the addressable Mem arena, so
// that branch offsets, '>R'/'R>' return addresses and ['] all traffic in
// plain integers. Addr is the word's XT: a primitive code (< numPrimitives)
// or a Mem address (>= baseAddr) where its thread begins.
type Word struct {
	Link  int // index into Machine.words of the previous header, -1 if none
	Name  string
	Flags Flags
	Addr  int64
}

func (w *Word) immediate() bool { return w.Flags&FlagImmediate != 0 }
func (w *Word) hidden() bool    { return w.Flags&FlagHidden != 0 }

// find looks up name case-insensitively, walking from Latest back through
// Link, skipping hidden entries — the same search classic Forth (and the
// teacher's third.go control words) performs while a definition is still
// being compiled.
func (m *Machine) find(name string) (*Word, bool) {
	for i := m.latest; i >= 0; {
		w := m.words[i]
		if !w.hidden() && strings.EqualFold(w.Name, name) {
			return w, true
		}
		i = w.Link
	}
	return nil, false
}

// define appends a new, initially hidden header for name, with Addr set to
// the current dictionary cursor (Here), and makes it Latest.
func (m *Machine) define(name string) *Word {
	w := &Word{Link: m.latest, Name: name, Flags: FlagHidden, Addr: m.here()}
	m.words = append(m.words, w)
	m.latest = len(m.words) - 1
	return w
}

// latestWord returns the most recently defined header, or nil if none.
func (m *Machine) latestWord() *Word {
	if m.latest < 0 {
		return nil
	}
	return m.words[m.latest]
}
