package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Render draws the visible rows and a status line on the last screen row.
// A tab takes one column, the same width the aligner gives it.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	viewHeight := h - 1
	e.viewHeight = viewHeight
	e.ensureCursorVisible(viewHeight)

	s.SetStyle(e.styleMain)
	s.Clear()
	for y := 0; y < viewHeight; y++ {
		row := e.scroll + y
		if row >= len(e.lines) {
			break
		}
		e.drawLine(s, y, w, row)
	}
	e.renderStatusline(s, w, h-1)

	c := e.Cursor()
	cy := c.Row - e.scroll
	if cy < 0 || cy >= viewHeight {
		s.HideCursor()
		return
	}
	cx := e.displayCol(c.Row, c.Col)
	if cx >= w {
		cx = w - 1
	}
	s.ShowCursor(cx, cy)
}

func (e *Editor) ensureCursorVisible(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	row := e.Cursor().Row
	if row < e.scroll {
		e.scroll = row
	}
	if row >= e.scroll+viewHeight {
		e.scroll = row - viewHeight + 1
	}
}

// displayCol is the screen column of col on row.
func (e *Editor) displayCol(row, col int) int {
	return e.table.Prefix(e.lines[row], col)
}

func (e *Editor) drawLine(s tcell.Screen, y, w, row int) {
	line := e.lines[row]
	x := 0
	for col, r := range line {
		if x >= w {
			return
		}
		style := e.styleMain
		selected := e.selected(row, col)
		if selected {
			style = e.styleSelection
		}
		if r == '\t' {
			ch := ' '
			if e.showTabs {
				ch = e.tabMarker
				if !selected {
					style = e.styleTab
				}
			}
			if e.secondaryCaretAt(row, col) {
				style = e.styleCaret
			}
			s.SetContent(x, y, ch, nil, style)
			x++
			continue
		}
		if e.secondaryCaretAt(row, col) {
			style = e.styleCaret
		}
		rw := e.table.Rune(r)
		if rw < 1 {
			rw = 1
		}
		if x+rw > w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
	if x < w && e.secondaryCaretAt(row, len(line)) {
		s.SetContent(x, y, ' ', nil, e.styleCaret)
	}
}

func (e *Editor) selected(row, col int) bool {
	p := Cursor{Row: row, Col: col}
	for _, sel := range e.sels {
		if sel.Empty() {
			continue
		}
		start, end := sel.Ordered()
		if !p.less(start) && p.less(end) {
			return true
		}
	}
	return false
}

func (e *Editor) secondaryCaretAt(row, col int) bool {
	for _, sel := range e.sels[1:] {
		if sel.Head.Row == row && sel.Head.Col == col {
			return true
		}
	}
	return false
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, e.styleStatus)
	}
	name := e.filename
	if name == "" {
		name = "[scratch]"
	}
	if e.dirty {
		name += " [+]"
	}
	left := " " + name
	if e.statusMessage != "" {
		left += "  " + e.statusMessage
	}
	c := e.Cursor()
	right := fmt.Sprintf("%d:%d ", c.Row+1, c.Col+1)
	if n := len(e.sels); n > 1 {
		right = strconv.Itoa(n) + " carets  " + right
	}
	drawText(s, 0, y, w, left, e.styleStatus)
	if rx := w - len(right); rx > len([]rune(left)) {
		drawText(s, rx, y, w, right, e.styleStatus)
	}
}

func drawText(s tcell.Screen, x, y, w int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
