package tabstops

import "fmt"

// UndoGroup labels edits produced by the aligner. Hosts use it to merge
// alignment edits into the preceding undo step and to recognise changes
// they must not feed back into the aligner.
const UndoGroup = "elastic_tabstops"

// Position is a (row, column) pair. Columns count runes.
type Position struct {
	Row int
	Col int
}

// Region is the half-open span [Start, End).
type Region struct {
	Start Position
	End   Position
}

// Document is the read-only view of a buffer the aligner needs.
type Document interface {
	LineCount() int
	// LineText returns the row without its terminator, or "" when row is
	// out of range.
	LineText(row int) string
	OffsetOf(p Position) int
	PositionOf(offset int) Position
	// ActiveColumns maps a row to the caret and selection columns on it.
	ActiveColumns() map[int][]int
}

// Host is a Document that can apply a batch of edits in one transaction.
type Host interface {
	Document
	ApplyEdits(edits []Edit, group string) error
}

type EditKind int

const (
	EditInsert EditKind = iota
	EditErase
	EditReplace
)

func (k EditKind) String() string {
	switch k {
	case EditInsert:
		return "insert"
	case EditErase:
		return "erase"
	case EditReplace:
		return "replace"
	}
	return "unknown"
}

// Edit is one operation of an alignment pass. Edits in a batch must be
// applied in order: each one is expressed against the document as left by
// the edits before it.
type Edit struct {
	Kind   EditKind
	Region Region
	Text   string
}

func Insert(p Position, text string) Edit {
	return Edit{Kind: EditInsert, Region: Region{Start: p, End: p}, Text: text}
}

func Erase(r Region) Edit {
	return Edit{Kind: EditErase, Region: r}
}

func Replace(r Region, text string) Edit {
	return Edit{Kind: EditReplace, Region: r, Text: text}
}

// Offsets translates the edit's region to absolute document offsets. Call it
// right before applying the edit.
func (e Edit) Offsets(doc Document) (start, end int) {
	return doc.OffsetOf(e.Region.Start), doc.OffsetOf(e.Region.End)
}

func (e Edit) String() string {
	switch e.Kind {
	case EditInsert:
		return fmt.Sprintf("insert %d:%d %q", e.Region.Start.Row, e.Region.Start.Col, e.Text)
	case EditErase:
		return fmt.Sprintf("erase %d:%d-%d:%d", e.Region.Start.Row, e.Region.Start.Col, e.Region.End.Row, e.Region.End.Col)
	default:
		return fmt.Sprintf("replace %d:%d-%d:%d %q", e.Region.Start.Row, e.Region.Start.Col, e.Region.End.Row, e.Region.End.Col, e.Text)
	}
}
