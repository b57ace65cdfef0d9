package editor

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/elastictabs/internal/config"
	"github.com/kobzarvs/elastictabs/internal/logger"
	"github.com/kobzarvs/elastictabs/internal/tabstops"
	"github.com/kobzarvs/elastictabs/internal/width"
)

// ErrOutOfRange is returned when an edit addresses text outside the buffer.
var ErrOutOfRange = errors.New("position out of range")

type Cursor struct {
	Row int
	Col int
}

func (c Cursor) less(o Cursor) bool {
	return c.Row < o.Row || (c.Row == o.Row && c.Col < o.Col)
}

// Selection spans from Anchor to Head. The caret sits at Head; an empty
// selection is a plain caret.
type Selection struct {
	Anchor Cursor
	Head   Cursor
}

func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

// Ordered returns the selection bounds with start before end.
func (s Selection) Ordered() (Cursor, Cursor) {
	if s.Head.less(s.Anchor) {
		return s.Head, s.Anchor
	}
	return s.Anchor, s.Head
}

// ChangeSource tells who modified the buffer.
type ChangeSource int

const (
	SourceUser ChangeSource = iota
	SourceAlignment
	SourceHistory
)

func (s ChangeSource) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceAlignment:
		return "alignment"
	case SourceHistory:
		return "history"
	}
	return "unknown"
}

// Change reports rows modified by one transaction.
type Change struct {
	Source ChangeSource
	Rows   []int
}

// action is one replacement recorded for undo. Replaying it swaps deleted
// for inserted at pos; undoing swaps them back.
type action struct {
	pos      Cursor
	deleted  string
	inserted string
	group    uint64
	label    string
	before   []Selection
	after    []Selection
}

type Editor struct {
	lines         [][]rune
	sels          []Selection // sels[0] is the primary caret
	scroll        int
	filename      string
	dirty         bool
	keymap        map[string]string
	table         width.Table
	undo          []action
	redo          []action
	undoGroup     uint64
	savePoint     int
	changes       []Change
	statusMessage string
	reformat      bool
	viewHeight    int
	showTabs      bool
	tabMarker     rune

	styleMain      tcell.Style
	styleStatus    tcell.Style
	styleSelection tcell.Style
	styleTab       tcell.Style
	styleCaret     tcell.Style
}

func New(cfg config.Config) *Editor {
	keymap := make(map[string]string, len(cfg.Keymap))
	for k, v := range cfg.Keymap {
		keymap[k] = v
	}
	mainFg := parseColor(cfg.Editor.Foreground, tcell.ColorWhite)
	mainBg := parseColor(cfg.Editor.Background, tcell.ColorBlack)
	statusBg := parseColor(cfg.Editor.Statusline, tcell.ColorGray)
	marker, _ := utf8.DecodeRuneInString(cfg.Editor.TabMarker)
	if marker == utf8.RuneError {
		marker = ' '
	}
	base := tcell.StyleDefault.Foreground(mainFg).Background(mainBg)
	return &Editor{
		lines:          [][]rune{{}},
		sels:           []Selection{{}},
		keymap:         keymap,
		table:          cfg.Elastic.Table(),
		showTabs:       cfg.Editor.ShowTabs,
		tabMarker:      marker,
		styleMain:      base,
		styleStatus:    tcell.StyleDefault.Foreground(mainFg).Background(statusBg),
		styleSelection: base.Reverse(true),
		styleTab:       base.Foreground(tcell.ColorGray),
		styleCaret:     base.Reverse(true),
	}
}

// Open loads path into the buffer. A missing file opens an empty buffer
// that Save will create.
func (e *Editor) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("open %s: %w", path, err)
	}
	e.SetText(string(data))
	e.filename = path
	logger.Info("file opened", "path", path, "lines", len(e.lines))
	return nil
}

// SetText replaces the whole buffer and forgets its history.
func (e *Editor) SetText(text string) {
	parts := strings.Split(text, "\n")
	e.lines = make([][]rune, len(parts))
	for i, p := range parts {
		e.lines[i] = []rune(p)
	}
	e.sels = []Selection{{}}
	e.scroll = 0
	e.undo = nil
	e.redo = nil
	e.savePoint = 0
	e.changes = nil
	e.updateDirty()
}

func (e *Editor) Save() error {
	if e.filename == "" {
		return errors.New("no file name")
	}
	if err := os.WriteFile(e.filename, []byte(e.Text()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", e.filename, err)
	}
	e.savePoint = len(e.undo)
	e.updateDirty()
	logger.Info("file saved", "path", e.filename)
	return nil
}

func (e *Editor) Text() string {
	parts := make([]string, len(e.lines))
	for i, l := range e.lines {
		parts[i] = string(l)
	}
	return strings.Join(parts, "\n")
}

func (e *Editor) Filename() string {
	return e.filename
}

func (e *Editor) Dirty() bool {
	return e.dirty
}

func (e *Editor) StatusMessage() string {
	return e.statusMessage
}

func (e *Editor) SetStatusMessage(msg string) {
	e.setStatus(msg)
}

func (e *Editor) setStatus(msg string) {
	e.statusMessage = msg
}

// Cursor returns the primary caret.
func (e *Editor) Cursor() Cursor {
	return e.sels[0].Head
}

// SetCursor drops every selection and places a single caret, clamped to
// the buffer.
func (e *Editor) SetCursor(row, col int) {
	c := e.clamp(Cursor{Row: row, Col: col})
	e.sels = []Selection{{Anchor: c, Head: c}}
}

// AddCaret adds a secondary caret.
func (e *Editor) AddCaret(row, col int) {
	c := e.clamp(Cursor{Row: row, Col: col})
	e.sels = append(e.sels, Selection{Anchor: c, Head: c})
	e.dedupeSelections()
}

// Select replaces the primary selection.
func (e *Editor) Select(anchor, head Cursor) {
	e.sels[0] = Selection{Anchor: e.clamp(anchor), Head: e.clamp(head)}
	e.dedupeSelections()
}

func (e *Editor) Selections() []Selection {
	return append([]Selection(nil), e.sels...)
}

func (e *Editor) clamp(c Cursor) Cursor {
	if c.Row < 0 {
		c.Row = 0
	}
	if c.Row >= len(e.lines) {
		c.Row = len(e.lines) - 1
	}
	if c.Col < 0 {
		c.Col = 0
	}
	if n := len(e.lines[c.Row]); c.Col > n {
		c.Col = n
	}
	return c
}

func (e *Editor) dedupeSelections() {
	seen := make(map[Cursor]bool, len(e.sels))
	out := e.sels[:0]
	for _, s := range e.sels {
		if seen[s.Head] {
			continue
		}
		seen[s.Head] = true
		out = append(out, s)
	}
	e.sels = out
}

// LineCount, LineText, OffsetOf, PositionOf and ActiveColumns make the
// editor a tabstops.Document.

func (e *Editor) LineCount() int {
	return len(e.lines)
}

func (e *Editor) LineText(row int) string {
	if row < 0 || row >= len(e.lines) {
		return ""
	}
	return string(e.lines[row])
}

func (e *Editor) OffsetOf(p tabstops.Position) int {
	if p.Row < 0 {
		return 0
	}
	off := 0
	for r := 0; r < p.Row && r < len(e.lines); r++ {
		off += len(e.lines[r]) + 1
	}
	if p.Row >= len(e.lines) {
		return off - 1
	}
	col := p.Col
	if col < 0 {
		col = 0
	}
	if n := len(e.lines[p.Row]); col > n {
		col = n
	}
	return off + col
}

func (e *Editor) PositionOf(offset int) tabstops.Position {
	if offset < 0 {
		offset = 0
	}
	for r, l := range e.lines {
		if offset <= len(l) {
			return tabstops.Position{Row: r, Col: offset}
		}
		offset -= len(l) + 1
	}
	last := len(e.lines) - 1
	return tabstops.Position{Row: last, Col: len(e.lines[last])}
}

// ActiveColumns reports caret and selection columns per row. Rows strictly
// inside a multi-row selection report column 0 and their length.
func (e *Editor) ActiveColumns() map[int][]int {
	active := make(map[int][]int)
	for _, s := range e.sels {
		start, end := s.Ordered()
		active[start.Row] = append(active[start.Row], start.Col)
		if end != start {
			active[end.Row] = append(active[end.Row], end.Col)
		}
		for r := start.Row + 1; r < end.Row; r++ {
			active[r] = append(active[r], 0, len(e.lines[r]))
		}
	}
	return active
}

// SelectedRows returns every row touched by a caret or selection, ascending.
func (e *Editor) SelectedRows() []int {
	set := make(map[int]struct{})
	for _, s := range e.sels {
		start, end := s.Ordered()
		for r := start.Row; r <= end.Row; r++ {
			set[r] = struct{}{}
		}
	}
	return sortedRows(set)
}

// Changes drains the change queue.
func (e *Editor) Changes() []Change {
	out := e.changes
	e.changes = nil
	return out
}

func (e *Editor) emit(src ChangeSource, rows map[int]struct{}) {
	if len(rows) == 0 {
		return
	}
	e.changes = append(e.changes, Change{Source: src, Rows: sortedRows(rows)})
}

// ConsumeReformatRequest reports whether a whole-buffer realignment was
// requested since the last call.
func (e *Editor) ConsumeReformatRequest() bool {
	r := e.reformat
	e.reformat = false
	return r
}

func (e *Editor) validPos(c Cursor) bool {
	return c.Row >= 0 && c.Row < len(e.lines) && c.Col >= 0 && c.Col <= len(e.lines[c.Row])
}

// replaceRange swaps [start, end) for text. It returns the end of the
// inserted text and the removed text. Selections move with the text.
func (e *Editor) replaceRange(start, end Cursor, text string) (Cursor, string, error) {
	if !e.validPos(start) || !e.validPos(end) || end.less(start) {
		return Cursor{}, "", fmt.Errorf("%d:%d-%d:%d: %w", start.Row, start.Col, end.Row, end.Col, ErrOutOfRange)
	}
	removed := e.textRange(start, end)

	ins := strings.Split(text, "\n")
	head := e.lines[start.Row][:start.Col]
	tail := e.lines[end.Row][end.Col:]
	rows := make([][]rune, len(ins))
	for i, part := range ins {
		rows[i] = []rune(part)
	}
	last := len(rows) - 1
	newEnd := Cursor{Row: start.Row + last, Col: len(rows[last])}
	if last == 0 {
		newEnd.Col += len(head)
	}
	rows[0] = append(append([]rune(nil), head...), rows[0]...)
	rows[last] = append(rows[last], tail...)

	lines := make([][]rune, 0, len(e.lines)-(end.Row-start.Row)+last)
	lines = append(lines, e.lines[:start.Row]...)
	lines = append(lines, rows...)
	lines = append(lines, e.lines[end.Row+1:]...)
	e.lines = lines

	for i := range e.sels {
		e.sels[i].Anchor = mapPos(e.sels[i].Anchor, start, end, newEnd)
		e.sels[i].Head = mapPos(e.sels[i].Head, start, end, newEnd)
	}
	return newEnd, removed, nil
}

// mapPos moves p across a replacement of [start, oldEnd) ending at newEnd.
// Positions at the insertion point move past the inserted text.
func mapPos(p, start, oldEnd, newEnd Cursor) Cursor {
	if p.less(start) {
		return p
	}
	if p.less(oldEnd) {
		return start
	}
	if p.Row == oldEnd.Row {
		return Cursor{Row: newEnd.Row, Col: newEnd.Col + p.Col - oldEnd.Col}
	}
	return Cursor{Row: p.Row + newEnd.Row - oldEnd.Row, Col: p.Col}
}

func (e *Editor) textRange(start, end Cursor) string {
	if start.Row == end.Row {
		return string(e.lines[start.Row][start.Col:end.Col])
	}
	var b strings.Builder
	b.WriteString(string(e.lines[start.Row][start.Col:]))
	for r := start.Row + 1; r < end.Row; r++ {
		b.WriteByte('\n')
		b.WriteString(string(e.lines[r]))
	}
	b.WriteByte('\n')
	b.WriteString(string(e.lines[end.Row][:end.Col]))
	return b.String()
}

// endOf returns where text ends when placed at pos.
func endOf(pos Cursor, text string) Cursor {
	n := strings.Count(text, "\n")
	if n == 0 {
		return Cursor{Row: pos.Row, Col: pos.Col + utf8.RuneCountInString(text)}
	}
	lastLine := text[strings.LastIndexByte(text, '\n')+1:]
	return Cursor{Row: pos.Row + n, Col: utf8.RuneCountInString(lastLine)}
}

// ApplyEdits applies edits in order as one transaction. Either all of them
// apply or, on the first out-of-range edit, the buffer and selections are
// restored and the error returned. Edits labelled tabstops.UndoGroup join
// the preceding undo step.
func (e *Editor) ApplyEdits(edits []tabstops.Edit, label string) error {
	if len(edits) == 0 {
		return nil
	}
	lines := append([][]rune(nil), e.lines...)
	sels := cloneSelections(e.sels)

	acts := make([]action, 0, len(edits))
	rows := make(map[int]struct{})
	for i, ed := range edits {
		start := Cursor{Row: ed.Region.Start.Row, Col: ed.Region.Start.Col}
		end := Cursor{Row: ed.Region.End.Row, Col: ed.Region.End.Col}
		text := ed.Text
		if ed.Kind == tabstops.EditErase {
			text = ""
		}
		before := cloneSelections(e.sels)
		newEnd, removed, err := e.replaceRange(start, end, text)
		if err != nil {
			e.lines = lines
			e.sels = sels
			return fmt.Errorf("edit %d (%s): %w", i, ed, err)
		}
		acts = append(acts, action{
			pos:      start,
			deleted:  removed,
			inserted: text,
			before:   before,
			after:    cloneSelections(e.sels),
		})
		spanRows(rows, start.Row, newEnd.Row)
	}

	src := SourceUser
	if label == tabstops.UndoGroup {
		src = SourceAlignment
	}
	if src == SourceAlignment && len(e.undo) > 0 {
		group := e.undo[len(e.undo)-1].group
		for _, act := range acts {
			act.group = group
			act.label = label
			e.undo = append(e.undo, act)
		}
		e.redo = e.redo[:0]
	} else {
		e.startUndoGroup()
		for _, act := range acts {
			act.label = label
			e.appendUndo(act)
		}
		e.finishUndoGroup()
	}
	e.updateDirty()
	logger.Debug("edits applied", "label", label, "count", len(edits))
	e.emit(src, rows)
	return nil
}

func (e *Editor) startUndoGroup() {
	e.undoGroup++
}

func (e *Editor) appendUndo(act action) {
	act.group = e.undoGroup
	e.undo = append(e.undo, act)
}

func (e *Editor) finishUndoGroup() {
	e.redo = e.redo[:0]
	e.updateDirty()
}

func (e *Editor) updateDirty() {
	e.dirty = len(e.undo) != e.savePoint
}

// Undo reverts the most recent undo group, alignment edits merged into it
// included.
func (e *Editor) Undo() {
	if len(e.undo) == 0 {
		e.setStatus("nothing to undo")
		return
	}
	group := e.undo[len(e.undo)-1].group
	rows := make(map[int]struct{})
	var first action
	for len(e.undo) > 0 && e.undo[len(e.undo)-1].group == group {
		idx := len(e.undo) - 1
		act := e.undo[idx]
		e.undo = e.undo[:idx]
		newEnd, _, err := e.replaceRange(act.pos, endOf(act.pos, act.inserted), act.deleted)
		if err != nil {
			logger.Error("undo failed", "error", err)
			e.setStatus("undo failed")
			return
		}
		spanRows(rows, act.pos.Row, newEnd.Row)
		e.redo = append(e.redo, act)
		first = act
	}
	e.sels = cloneSelections(first.before)
	e.updateDirty()
	e.emit(SourceHistory, rows)
}

func (e *Editor) Redo() {
	if len(e.redo) == 0 {
		e.setStatus("nothing to redo")
		return
	}
	group := e.redo[len(e.redo)-1].group
	rows := make(map[int]struct{})
	var last action
	for len(e.redo) > 0 && e.redo[len(e.redo)-1].group == group {
		idx := len(e.redo) - 1
		act := e.redo[idx]
		e.redo = e.redo[:idx]
		newEnd, _, err := e.replaceRange(act.pos, endOf(act.pos, act.deleted), act.inserted)
		if err != nil {
			logger.Error("redo failed", "error", err)
			e.setStatus("redo failed")
			return
		}
		spanRows(rows, act.pos.Row, newEnd.Row)
		e.undo = append(e.undo, act)
		last = act
	}
	e.sels = cloneSelections(last.after)
	e.updateDirty()
	e.emit(SourceHistory, rows)
}

// editAtCarets runs one replacement per selection, bottom-most first, as a
// single user undo step. span picks the range to replace; ok false skips
// the selection.
func (e *Editor) editAtCarets(span func(Selection) (Cursor, Cursor, bool), text string) {
	order := make([]int, len(e.sels))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		sa, _ := e.sels[order[a]].Ordered()
		sb, _ := e.sels[order[b]].Ordered()
		return sb.less(sa)
	})

	rows := make(map[int]struct{})
	started := false
	for _, idx := range order {
		start, end, ok := span(e.sels[idx])
		if !ok {
			continue
		}
		before := cloneSelections(e.sels)
		newEnd, removed, err := e.replaceRange(start, end, text)
		if err != nil {
			logger.Error("edit failed", "error", err)
			continue
		}
		if !started {
			e.startUndoGroup()
			started = true
		}
		e.appendUndo(action{pos: start, deleted: removed, inserted: text, before: before})
		spanRows(rows, start.Row, newEnd.Row)
	}
	for i := range e.sels {
		e.sels[i].Anchor = e.sels[i].Head
	}
	e.dedupeSelections()
	if !started {
		return
	}
	e.undo[len(e.undo)-1].after = cloneSelections(e.sels)
	e.finishUndoGroup()
	e.emit(SourceUser, rows)
}

func (e *Editor) insertText(text string) {
	e.editAtCarets(func(s Selection) (Cursor, Cursor, bool) {
		start, end := s.Ordered()
		return start, end, true
	}, text)
}

func (e *Editor) backspace() {
	e.editAtCarets(func(s Selection) (Cursor, Cursor, bool) {
		if !s.Empty() {
			start, end := s.Ordered()
			return start, end, true
		}
		c := s.Head
		switch {
		case c.Col > 0:
			return Cursor{Row: c.Row, Col: c.Col - 1}, c, true
		case c.Row > 0:
			return Cursor{Row: c.Row - 1, Col: len(e.lines[c.Row-1])}, c, true
		}
		return c, c, false
	}, "")
}

func (e *Editor) deleteChar() {
	e.editAtCarets(func(s Selection) (Cursor, Cursor, bool) {
		if !s.Empty() {
			start, end := s.Ordered()
			return start, end, true
		}
		c := s.Head
		switch {
		case c.Col < len(e.lines[c.Row]):
			return c, Cursor{Row: c.Row, Col: c.Col + 1}, true
		case c.Row < len(e.lines)-1:
			return c, Cursor{Row: c.Row + 1, Col: 0}, true
		}
		return c, c, false
	}, "")
}

func cloneSelections(s []Selection) []Selection {
	return append([]Selection(nil), s...)
}

func spanRows(set map[int]struct{}, from, to int) {
	for r := from; r <= to; r++ {
		set[r] = struct{}{}
	}
}

func sortedRows(set map[int]struct{}) []int {
	rows := make([]int, 0, len(set))
	for r := range set {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}
