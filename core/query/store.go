package query

import "sync"

// FilterState is a snapshot of a screen's filter inputs.
type FilterState struct {
	SearchText  string
	Categorical map[string]Constraint
}

// Store holds the current filter inputs of one screen. It does no I/O.
type Store struct {
	mu    sync.RWMutex
	state FilterState
}

func NewStore() *Store {
	return &Store{state: FilterState{Categorical: make(map[string]Constraint)}}
}

// SetSearchText replaces the search value; "" means no search constraint.
func (s *Store) SetSearchText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchText = text
}

// SetCategorical replaces the selection of one dimension.
func (s *Store) SetCategorical(field string, c Constraint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Categorical[field] = c
}

// State returns a copy of the current inputs.
func (s *Store) State() FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat := make(map[string]Constraint, len(s.state.Categorical))
	for field, c := range s.state.Categorical {
		cat[field] = c
	}
	return FilterState{SearchText: s.state.SearchText, Categorical: cat}
}
