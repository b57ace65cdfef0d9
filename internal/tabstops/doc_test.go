package tabstops

import (
	"strings"
	"testing"
)

// memDoc is a minimal Host used by the package tests.
type memDoc struct {
	lines   [][]rune
	active  map[int][]int
	applied int
	onApply func()
}

func newDoc(lines ...string) *memDoc {
	d := &memDoc{active: map[int][]int{}}
	for _, l := range lines {
		d.lines = append(d.lines, []rune(l))
	}
	return d
}

func (d *memDoc) LineCount() int { return len(d.lines) }

func (d *memDoc) LineText(row int) string {
	if row < 0 || row >= len(d.lines) {
		return ""
	}
	return string(d.lines[row])
}

func (d *memDoc) OffsetOf(p Position) int {
	off := 0
	for r := 0; r < p.Row && r < len(d.lines); r++ {
		off += len(d.lines[r]) + 1
	}
	return off + p.Col
}

func (d *memDoc) PositionOf(offset int) Position {
	for r, l := range d.lines {
		if offset <= len(l) {
			return Position{Row: r, Col: offset}
		}
		offset -= len(l) + 1
	}
	last := len(d.lines) - 1
	return Position{Row: last, Col: len(d.lines[last])}
}

func (d *memDoc) ActiveColumns() map[int][]int { return d.active }

func (d *memDoc) ApplyEdits(edits []Edit, group string) error {
	for _, e := range edits {
		line := d.lines[e.Region.Start.Row]
		switch e.Kind {
		case EditInsert:
			line = splice(line, e.Region.Start.Col, e.Region.Start.Col, []rune(e.Text))
		case EditErase:
			line = splice(line, e.Region.Start.Col, e.Region.End.Col, nil)
		case EditReplace:
			line = splice(line, e.Region.Start.Col, e.Region.End.Col, []rune(e.Text))
		}
		d.lines[e.Region.Start.Row] = line
	}
	d.applied++
	if d.onApply != nil {
		d.onApply()
	}
	return nil
}

func (d *memDoc) text() string {
	parts := make([]string, len(d.lines))
	for i, l := range d.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

func (d *memDoc) tabs(row int) []int {
	return tabsIn(d.lines[row])
}

func TestMemDocOffsets(t *testing.T) {
	d := newDoc("ab", "", "cde")
	if got := d.OffsetOf(Position{Row: 2, Col: 1}); got != 5 {
		t.Fatalf("OffsetOf = %d, want 5", got)
	}
	if got := d.PositionOf(5); got != (Position{Row: 2, Col: 1}) {
		t.Fatalf("PositionOf = %+v, want 2:1", got)
	}
	e := Erase(Region{Start: Position{Row: 0, Col: 1}, End: Position{Row: 2, Col: 0}})
	start, end := e.Offsets(d)
	if start != 1 || end != 4 {
		t.Fatalf("Offsets = %d,%d, want 1,4", start, end)
	}
}

func TestEditString(t *testing.T) {
	tests := []struct {
		edit Edit
		want string
	}{
		{Insert(Position{Row: 1, Col: 2}, " \t"), `insert 1:2 " \t"`},
		{Erase(Region{Start: Position{Row: 0, Col: 1}, End: Position{Row: 0, Col: 3}}), "erase 0:1-0:3"},
		{Replace(Region{Start: Position{Row: 0, Col: 0}, End: Position{Row: 0, Col: 1}}, "x"), `replace 0:0-0:1 "x"`},
	}
	for _, tt := range tests {
		if got := tt.edit.String(); got != tt.want {
			t.Fatalf("String = %q, want %q", got, tt.want)
		}
	}
}
