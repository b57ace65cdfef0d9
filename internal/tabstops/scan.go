package tabstops

import "unicode"

// TabPositions returns the columns of every tab on row, ascending. Rows
// outside the document have no tabs.
func TabPositions(doc Document, row int) []int {
	if row < 0 || row >= doc.LineCount() {
		return nil
	}
	return tabsIn([]rune(doc.LineText(row)))
}

func tabsIn(line []rune) []int {
	var tabs []int
	for i, r := range line {
		if r == '\t' {
			tabs = append(tabs, i)
		}
	}
	return tabs
}

// CellWidths returns the display width of every cell on row, one per tab.
// active holds the caret and selection columns on the row: a cell is never
// narrower than the distance from its left edge to an active column inside
// it, and keeps one column of trailing space when the row has a caret.
func (a *Aligner) CellWidths(doc Document, row int, active []int) []int {
	if row < 0 || row >= doc.LineCount() {
		return nil
	}
	line := []rune(doc.LineText(row))
	return a.cellWidths(line, tabsIn(line), active)
}

func (a *Aligner) cellWidths(line []rune, tabs []int, active []int) []int {
	if len(tabs) == 0 {
		return nil
	}
	widths := make([]int, len(tabs))
	left := 0
	for i, right := range tabs {
		cell := line[left:right]
		stripped := trimTrailingSpace(cell)
		w := a.table.Runes(stripped)
		if len(stripped) < len(cell) && len(active) > 0 {
			w++
		}
		for _, col := range active {
			if col < left || col > right {
				continue
			}
			if cw := a.table.Prefix(cell, col-left); cw > w {
				w = cw
			}
		}
		widths[i] = w
		left = right + 1
	}
	return widths
}

func trimTrailingSpace(rs []rune) []rune {
	n := len(rs)
	for n > 0 && unicode.IsSpace(rs[n-1]) {
		n--
	}
	return rs[:n]
}

// trailingSpaces counts the plain spaces at the end of rs.
func trailingSpaces(rs []rune) int {
	n := 0
	for i := len(rs) - 1; i >= 0 && rs[i] == ' '; i-- {
		n++
	}
	return n
}
