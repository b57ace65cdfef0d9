package tabstops

import "strings"

// AdjustRow computes the edits that move each tab on row so that cell i
// ends at the column given by widths. Padding goes in front of the tab.
// A cell is only narrowed by removing spaces directly before its tab; if
// there are not enough, that tab is left where it is.
func (a *Aligner) AdjustRow(doc Document, row int, widths []int) ([]Edit, bool) {
	if row < 0 || row >= doc.LineCount() {
		return nil, false
	}
	line := []rune(doc.LineText(row))
	tabs := tabsIn(line)
	if len(tabs) == 0 {
		return nil, false
	}

	var edits []Edit
	location, bias := -1, 0
	for i := 0; i < len(widths) && i < len(tabs); i++ {
		location += 1 + widths[i]
		at := tabs[i] + bias
		diff := location - a.table.Prefix(line, at)
		switch {
		case diff > 0:
			pad := strings.Repeat(" ", diff)
			// Insert after the tab and then drop the old one so that carets
			// past the tab move with it.
			edits = append(edits,
				Insert(Position{Row: row, Col: at + 1}, pad+"\t"),
				Erase(Region{Start: Position{Row: row, Col: at}, End: Position{Row: row, Col: at + 1}}),
			)
			line = splice(line, at, at+1, []rune(pad+"\t"))
			bias += diff
		case diff < 0:
			n := -diff
			if trailingSpaces(line[:at]) < n {
				continue
			}
			edits = append(edits, Erase(Region{Start: Position{Row: row, Col: at - n}, End: Position{Row: row, Col: at}}))
			line = splice(line, at-n, at, nil)
			bias -= n
		}
	}
	return edits, len(edits) > 0
}

func splice(line []rune, start, end int, with []rune) []rune {
	out := make([]rune, 0, len(line)-(end-start)+len(with))
	out = append(out, line[:start]...)
	out = append(out, with...)
	return append(out, line[end:]...)
}
