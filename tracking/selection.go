package tracking

// SelectionManager tracks which pending-approval records are picked for a bulk
// pass. Pure in-memory state, scoped to one admin session; the selected set is
// always a subset of the available set.
type SelectionManager struct {
	available map[uint]struct{}
	order     []uint
	selected  map[uint]struct{}
}

func NewSelectionManager() *SelectionManager {
	return &SelectionManager{
		available: make(map[uint]struct{}),
		selected:  make(map[uint]struct{}),
	}
}

// UpdateAvailableIDs replaces the eligible universe and drops any selected id
// that is no longer part of it.
func (m *SelectionManager) UpdateAvailableIDs(ids []uint) {
	m.available = make(map[uint]struct{}, len(ids))
	m.order = m.order[:0]
	for _, id := range ids {
		if _, dup := m.available[id]; dup {
			continue
		}
		m.available[id] = struct{}{}
		m.order = append(m.order, id)
	}
	for id := range m.selected {
		if _, ok := m.available[id]; !ok {
			delete(m.selected, id)
		}
	}
}

// Select marks an available id as selected; unknown ids are ignored
func (m *SelectionManager) Select(id uint) {
	if _, ok := m.available[id]; ok {
		m.selected[id] = struct{}{}
	}
}

// Deselect removes an id from the selection
func (m *SelectionManager) Deselect(id uint) {
	delete(m.selected, id)
}

// ToggleSelection flips an id's selection state
func (m *SelectionManager) ToggleSelection(id uint) {
	if _, ok := m.selected[id]; ok {
		m.Deselect(id)
		return
	}
	m.Select(id)
}

// SelectAll selects exactly the current available set
func (m *SelectionManager) SelectAll() {
	m.selected = make(map[uint]struct{}, len(m.available))
	for id := range m.available {
		m.selected[id] = struct{}{}
	}
}

// DeselectAll clears the selection
func (m *SelectionManager) DeselectAll() {
	m.selected = make(map[uint]struct{})
}

// IsSelected reports whether an id is currently selected
func (m *SelectionManager) IsSelected(id uint) bool {
	_, ok := m.selected[id]
	return ok
}

// IsAllSelected is true iff the available set is non-empty and fully selected
func (m *SelectionManager) IsAllSelected() bool {
	return len(m.available) > 0 && len(m.selected) == len(m.available)
}

// IsSomeSelected is true iff something is selected but not everything
func (m *SelectionManager) IsSomeSelected() bool {
	return len(m.selected) > 0 && len(m.selected) < len(m.available)
}

// SelectedIDs returns the selected ids in available order
func (m *SelectionManager) SelectedIDs() []uint {
	ids := make([]uint, 0, len(m.selected))
	for _, id := range m.order {
		if _, ok := m.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// AvailableIDs returns a copy of the available ids in insertion order
func (m *SelectionManager) AvailableIDs() []uint {
	ids := make([]uint, len(m.order))
	copy(ids, m.order)
	return ids
}

// SelectedCount returns the number of selected ids
func (m *SelectionManager) SelectedCount() int {
	return len(m.selected)
}
