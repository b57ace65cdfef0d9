// Package tabstops keeps tab separated columns aligned.
//
// Rows that all contain tabs form a block. Within a block the n-th cells of
// adjacent rows form a column group, and every cell of a group is padded
// with spaces to the width of the widest one. The package only computes
// edits; the host owns the buffer and applies them.
package tabstops

import (
	"fmt"
	"sync/atomic"

	"github.com/kobzarvs/elastictabs/internal/logger"
	"github.com/kobzarvs/elastictabs/internal/width"
)

// Aligner runs alignment passes over one document. It refuses to start a
// pass while another one is in progress, so edits it hands to the host
// cannot re-trigger it.
type Aligner struct {
	table   width.Table
	running atomic.Bool
}

func New(table width.Table) *Aligner {
	return &Aligner{table: table}
}

// Process realigns the blocks containing rows and returns the edits to
// apply, in order. changed is false when nothing needs to move or when the
// aligner is already running.
func (a *Aligner) Process(doc Document, rows []int) ([]Edit, bool) {
	if !a.running.CompareAndSwap(false, true) {
		logger.Debug("alignment pass skipped", "reason", "reentrant")
		return nil, false
	}
	defer a.running.Store(false)
	return a.process(doc, rows)
}

// ProcessAll realigns the whole document.
func (a *Aligner) ProcessAll(doc Document) ([]Edit, bool) {
	return a.Process(doc, allRows(doc))
}

// Run realigns the blocks containing rows and applies the result to host
// as a single UndoGroup transaction. Calls arriving while the host applies
// the edits are ignored.
func (a *Aligner) Run(host Host, rows []int) (bool, error) {
	if !a.running.CompareAndSwap(false, true) {
		logger.Debug("alignment pass skipped", "reason", "reentrant")
		return false, nil
	}
	defer a.running.Store(false)

	edits, changed := a.process(host, rows)
	if !changed {
		return false, nil
	}
	if err := host.ApplyEdits(edits, UndoGroup); err != nil {
		return false, fmt.Errorf("apply alignment edits: %w", err)
	}
	return true, nil
}

// RunAll is Run over every row of host.
func (a *Aligner) RunAll(host Host) (bool, error) {
	return a.Run(host, allRows(host))
}

func (a *Aligner) process(doc Document, rows []int) ([]Edit, bool) {
	active := doc.ActiveColumns()
	checked := make(map[int]bool, len(rows))
	var edits []Edit
	changed := false
	for _, row := range rows {
		if checked[row] {
			continue
		}
		checked[row] = true

		block, first := a.ResolveBlock(doc, row, active)
		if len(block) == 0 {
			continue
		}
		Aggregate(block)
		logger.Debug("block resolved", "row", row, "first", first, "rows", len(block))

		for i, widths := range block {
			r := first + i
			checked[r] = true
			rowEdits, ok := a.AdjustRow(doc, r, widths)
			if !ok {
				continue
			}
			logger.Debug("row adjusted", "row", r, "edits", len(rowEdits))
			edits = append(edits, rowEdits...)
			changed = true
		}
	}
	return edits, changed
}

func allRows(doc Document) []int {
	rows := make([]int, doc.LineCount())
	for i := range rows {
		rows[i] = i
	}
	return rows
}
