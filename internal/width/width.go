// Package width measures how many display columns text occupies.
//
// Every rune counts as one column except runes classified as wide, which
// count as Table.Wide columns. Classification never fails: unknown runes
// are one column wide.
package width

import (
	"strings"

	"github.com/mattn/go-runewidth"
	xwidth "golang.org/x/text/width"
)

// Classifier selects the rune property table used to detect wide runes.
type Classifier int

const (
	// EastAsian uses the Unicode East Asian Width property: Wide and
	// Fullwidth runes are wide.
	EastAsian Classifier = iota
	// Terminal uses the classification terminals apply when drawing, which
	// also treats most emoji as wide.
	Terminal
)

var classifierNames = map[string]Classifier{
	"east-asian": EastAsian,
	"terminal":   Terminal,
}

// ParseClassifier maps a configuration name to a Classifier.
func ParseClassifier(name string) (Classifier, bool) {
	c, ok := classifierNames[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

func (c Classifier) String() string {
	for name, v := range classifierNames {
		if v == c {
			return name
		}
	}
	return "unknown"
}

// Table is the wide-character width table. The zero value behaves like
// Default.
type Table struct {
	Wide       int
	Ambiguous  int
	Classifier Classifier
}

// Default returns the standard table: wide runes take two columns,
// ambiguous runes one.
func Default() Table {
	return Table{Wide: 2, Ambiguous: 1, Classifier: EastAsian}
}

func (t Table) wide() int {
	if t.Wide < 1 {
		return 2
	}
	return t.Wide
}

func (t Table) ambiguous() int {
	if t.Ambiguous < 1 {
		return 1
	}
	return t.Ambiguous
}

// Rune returns the display width of r.
func (t Table) Rune(r rune) int {
	switch t.Classifier {
	case Terminal:
		if runewidth.RuneWidth(r) == 2 {
			return t.wide()
		}
		if runewidth.IsAmbiguousWidth(r) {
			return t.ambiguous()
		}
		return 1
	default:
		switch xwidth.LookupRune(r).Kind() {
		case xwidth.EastAsianWide, xwidth.EastAsianFullwidth:
			return t.wide()
		case xwidth.EastAsianAmbiguous:
			return t.ambiguous()
		}
		return 1
	}
}

// Runes returns the display width of rs.
func (t Table) Runes(rs []rune) int {
	n := 0
	for _, r := range rs {
		n += t.Rune(r)
	}
	return n
}

// String returns the display width of s.
func (t Table) String(s string) int {
	n := 0
	for _, r := range s {
		n += t.Rune(r)
	}
	return n
}

// Prefix returns the display width of the first n runes of rs. n is clamped
// to the slice bounds.
func (t Table) Prefix(rs []rune, n int) int {
	if n > len(rs) {
		n = len(rs)
	}
	if n <= 0 {
		return 0
	}
	return t.Runes(rs[:n])
}
