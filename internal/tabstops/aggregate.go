package tabstops

// absent marks a row with no cell in the column being scanned.
const absent = -1

// Aggregate replaces every cell width in the block with the maximum width
// of its column group, in place. A column group is a run of adjacent rows
// that all have a cell at the same index; a shorter row ends the group, and
// the next row with a cell there starts a new one.
func Aggregate(block [][]int) {
	cols := 0
	for _, row := range block {
		if len(row) > cols {
			cols = len(row)
		}
	}

	column := make([]int, len(block)+1)
	for c := 0; c < cols; c++ {
		for r, row := range block {
			if c < len(row) {
				column[r] = row[c]
			} else {
				column[r] = absent
			}
		}
		column[len(block)] = absent

		start, widest := 0, 0
		for r, w := range column {
			if w == absent {
				for j := start; j < r; j++ {
					block[j][c] = widest
				}
				start, widest = r+1, 0
				continue
			}
			if w > widest {
				widest = w
			}
		}
	}
}
