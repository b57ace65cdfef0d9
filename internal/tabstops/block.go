package tabstops

// ResolveBlock finds the block containing row: the longest run of adjacent
// rows that all hold at least one tab. It returns the cell widths of each
// row in the block, top to bottom, and the index of the block's first row.
// A row without tabs yields an empty block.
func (a *Aligner) ResolveBlock(doc Document, row int, active map[int][]int) ([][]int, int) {
	n := doc.LineCount()
	if row < 0 || row >= n {
		return nil, row
	}

	var above [][]int
	r := row
	for ; r >= 0; r-- {
		widths := a.CellWidths(doc, r, active[r])
		if len(widths) == 0 {
			break
		}
		above = append(above, widths)
	}
	first := r + 1

	block := make([][]int, 0, len(above))
	for i := len(above) - 1; i >= 0; i-- {
		block = append(block, above[i])
	}
	if len(block) == 0 {
		return nil, first
	}

	for r = row + 1; r < n; r++ {
		widths := a.CellWidths(doc, r, active[r])
		if len(widths) == 0 {
			break
		}
		block = append(block, widths)
	}
	return block, first
}
