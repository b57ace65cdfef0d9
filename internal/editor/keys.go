package editor

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

const (
	actionMoveLeft      = "move_left"
	actionMoveRight     = "move_right"
	actionMoveUp        = "move_up"
	actionMoveDown      = "move_down"
	actionLineStart     = "line_start"
	actionLineEnd       = "line_end"
	actionSelectLeft    = "select_left"
	actionSelectRight   = "select_right"
	actionSelectUp      = "select_up"
	actionSelectDown    = "select_down"
	actionPrevCell      = "prev_cell"
	actionNextCell      = "next_cell"
	actionAddCaretBelow = "add_caret_below"
	actionSingleCaret   = "single_caret"
	actionBackspace     = "backspace"
	actionDeleteChar    = "delete_char"
	actionNewline       = "newline"
	actionInsertTab     = "insert_tab"
	actionUndo          = "undo"
	actionRedo          = "redo"
	actionSave          = "save"
	actionReformat      = "reformat"
	actionQuit          = "quit"
)

// HandleKey applies one key event. It returns true when the user asked to
// quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if key := keyString(ev); key != "" {
		if action, ok := e.keymap[key]; ok {
			return e.execAction(action)
		}
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		e.insertText(string(ev.Rune()))
	}
	return false
}

func (e *Editor) execAction(name string) bool {
	switch name {
	case actionMoveLeft, actionSelectLeft:
		e.moveCarets(e.left, name == actionSelectLeft)
	case actionMoveRight, actionSelectRight:
		e.moveCarets(e.right, name == actionSelectRight)
	case actionMoveUp, actionSelectUp:
		e.moveCarets(func(c Cursor) Cursor { return e.clamp(Cursor{Row: c.Row - 1, Col: c.Col}) }, name == actionSelectUp)
	case actionMoveDown, actionSelectDown:
		e.moveCarets(func(c Cursor) Cursor { return e.clamp(Cursor{Row: c.Row + 1, Col: c.Col}) }, name == actionSelectDown)
	case actionLineStart:
		e.moveCarets(func(c Cursor) Cursor { return Cursor{Row: c.Row} }, false)
	case actionLineEnd:
		e.moveCarets(func(c Cursor) Cursor { return Cursor{Row: c.Row, Col: len(e.lines[c.Row])} }, false)
	case actionPrevCell:
		e.moveCarets(e.prevCell, false)
	case actionNextCell:
		e.moveCarets(e.nextCell, false)
	case actionAddCaretBelow:
		last := e.sels[len(e.sels)-1].Head
		if last.Row+1 < len(e.lines) {
			e.AddCaret(last.Row+1, last.Col)
		}
	case actionSingleCaret:
		c := e.Cursor()
		e.sels = []Selection{{Anchor: c, Head: c}}
	case actionBackspace:
		e.backspace()
	case actionDeleteChar:
		e.deleteChar()
	case actionNewline:
		e.insertText("\n")
	case actionInsertTab:
		e.insertText("\t")
	case actionUndo:
		e.Undo()
	case actionRedo:
		e.Redo()
	case actionSave:
		if err := e.Save(); err != nil {
			e.setStatus(err.Error())
		} else {
			e.setStatus("saved " + e.filename)
		}
	case actionReformat:
		e.reformat = true
	case actionQuit:
		return true
	default:
		e.setStatus("unknown action: " + name)
	}
	return false
}

// moveCarets moves every caret with motion. Without extend each selection
// collapses onto its new caret.
func (e *Editor) moveCarets(motion func(Cursor) Cursor, extend bool) {
	for i := range e.sels {
		e.sels[i].Head = motion(e.sels[i].Head)
		if !extend {
			e.sels[i].Anchor = e.sels[i].Head
		}
	}
	e.dedupeSelections()
}

func (e *Editor) left(c Cursor) Cursor {
	if c.Col > 0 {
		return Cursor{Row: c.Row, Col: c.Col - 1}
	}
	if c.Row > 0 {
		return Cursor{Row: c.Row - 1, Col: len(e.lines[c.Row-1])}
	}
	return c
}

func (e *Editor) right(c Cursor) Cursor {
	if c.Col < len(e.lines[c.Row]) {
		return Cursor{Row: c.Row, Col: c.Col + 1}
	}
	if c.Row < len(e.lines)-1 {
		return Cursor{Row: c.Row + 1}
	}
	return c
}

// prevCell moves to the start of the cell holding c, or of the cell before
// when c already is at a cell start.
func (e *Editor) prevCell(c Cursor) Cursor {
	line := e.lines[c.Row]
	for j := c.Col - 2; j >= 0; j-- {
		if line[j] == '\t' {
			return Cursor{Row: c.Row, Col: j + 1}
		}
	}
	return Cursor{Row: c.Row}
}

// nextCell moves just past the next tab, or to the end of the row.
func (e *Editor) nextCell(c Cursor) Cursor {
	line := e.lines[c.Row]
	for j := c.Col; j < len(line); j++ {
		if line[j] == '\t' {
			return Cursor{Row: c.Row, Col: j + 1}
		}
	}
	return Cursor{Row: c.Row, Col: len(line)}
}

func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	// Tab, Enter, Backspace and Esc share codes with ctrl keys.
	switch ev.Key() {
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyEscape:
		return "esc"
	}
	if ev.Key() == tcell.KeyRune {
		r := strings.ToLower(string(ev.Rune()))
		switch {
		case mods&tcell.ModCtrl != 0:
			return "ctrl+" + r
		case mods&tcell.ModAlt != 0:
			return "alt+" + r
		}
		return ""
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}

	var base string
	switch ev.Key() {
	case tcell.KeyUp:
		base = "up"
	case tcell.KeyDown:
		base = "down"
	case tcell.KeyLeft:
		base = "left"
	case tcell.KeyRight:
		base = "right"
	case tcell.KeyHome:
		base = "home"
	case tcell.KeyEnd:
		base = "end"
	case tcell.KeyPgUp:
		base = "pgup"
	case tcell.KeyPgDn:
		base = "pgdn"
	case tcell.KeyDelete:
		base = "del"
	default:
		return ""
	}
	var prefix string
	if mods&tcell.ModCtrl != 0 {
		prefix += "ctrl+"
	}
	if mods&tcell.ModAlt != 0 {
		prefix += "alt+"
	}
	if mods&tcell.ModShift != 0 {
		prefix += "shift+"
	}
	return prefix + base
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(key-tcell.KeyCtrlA)))
	}
	return ""
}
