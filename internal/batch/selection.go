package batch

import (
	"slices"
	"sync"
	"time"

	api "github.com/docflow/docflow/api/v1alpha1"
)

// Filters mirrors the document listing criteria the operator can apply.
// Changing them invalidates the current selection: documents may no
// longer be in view.
type Filters struct {
	InvoiceType api.DocumentType
	Status      api.DocumentStatus
	MinAmount   *float64
	MaxAmount   *float64
	StartDate   *time.Time
	EndDate     *time.Time
}

// SelectionSet tracks which document ids are chosen for the next batch
// submission, in the order they were picked. It does not validate
// eligibility; callers are expected to offer only draft documents.
type SelectionSet struct {
	mu      sync.Mutex
	ids     []string
	filters Filters
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{}
}

// Toggle flips membership of the given id.
func (s *SelectionSet) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return
	}
	s.ids = append(s.ids, id)
}

// Clear empties the selection.
func (s *SelectionSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
}

// ReplaceFilterAndClear swaps the active filter criteria and clears the
// selection as one atomic effect, so the selection never refers to
// documents no longer in view.
func (s *SelectionSet) ReplaceFilterAndClear(filters Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
	s.ids = nil
}

// Filters returns the active filter criteria.
func (s *SelectionSet) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// IDs returns the selected ids in selection order.
func (s *SelectionSet) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ids)
}

func (s *SelectionSet) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.ids, id)
}

func (s *SelectionSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
