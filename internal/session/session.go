package session

import (
	"sort"
	"sync"

	"github.com/kobzarvs/elastictabs/internal/tabstops"
	"github.com/kobzarvs/elastictabs/internal/width"
)

// DocState is what survives between alignment passes for one document
type DocState struct {
	// rows touched by a caret or selection when last observed
	selectedRows map[int]struct{}
	aligner      *tabstops.Aligner
}

// Manager holds per-document state keyed by document identity. Distinct
// documents share nothing.
type Manager struct {
	mu    sync.RWMutex
	docs  map[string]*DocState
	table width.Table
}

// NewManager creates a manager whose aligners measure text with table
func NewManager(table width.Table) *Manager {
	return &Manager{
		docs:  make(map[string]*DocState),
		table: table,
	}
}

func (m *Manager) state(id string) *DocState {
	st, ok := m.docs[id]
	if !ok {
		st = &DocState{
			selectedRows: make(map[int]struct{}),
			aligner:      tabstops.New(m.table),
		}
		m.docs[id] = st
	}
	return st
}

// Aligner returns the document's aligner, creating it on first use
func (m *Manager) Aligner(id string) *tabstops.Aligner {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state(id).aligner
}

// SetSelectedRows records the rows under carets or selections. Hosts call it
// when the selection changes or the document is activated.
func (m *Manager) SetSelectedRows(id string, rows []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state(id)
	st.selectedRows = make(map[int]struct{}, len(rows))
	for _, r := range rows {
		st.selectedRows[r] = struct{}{}
	}
}

// SelectedRows returns the last recorded rows, ascending
func (m *Manager) SelectedRows(id string) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.docs[id]
	if !ok {
		return nil
	}
	return sortedRows(st.selectedRows)
}

// DirtyRows returns the rows to realign after a modification: the rows
// selected before it plus the rows selected now.
func (m *Manager) DirtyRows(id string, current []int) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := make(map[int]struct{}, len(current))
	if st, ok := m.docs[id]; ok {
		for r := range st.selectedRows {
			set[r] = struct{}{}
		}
	}
	for _, r := range current {
		set[r] = struct{}{}
	}
	return sortedRows(set)
}

// Forget drops everything known about a document
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
}

// Documents returns the ids with state, sorted
func (m *Manager) Documents() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedRows(set map[int]struct{}) []int {
	rows := make([]int, 0, len(set))
	for r := range set {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}
