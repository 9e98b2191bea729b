package query

import "sort"

// Composer maps a screen's filter state to a CanonicalQuery. It is pure and never fails.
type Composer struct {
	SearchField string        // field matched by the free-text search
	Dimensions  []string      // categorical fields, in emission order
	Permanent   []FilterInput // always applied, ahead of any dynamic filter
}

// Compose builds the query: permanent filters, then the search filter, then one equality
// filter per constrained dimension. Sort and pagination are attached unchanged.
func (c Composer) Compose(state FilterState, sorts []SortSpec, page Pagination) CanonicalQuery {
	filters := make([]FilterInput, 0, len(c.Permanent)+1+len(state.Categorical))
	filters = append(filters, c.Permanent...)

	if state.SearchText != "" && c.SearchField != "" {
		filters = append(filters, ContainsFilter(c.SearchField, state.SearchText))
	}

	for _, field := range c.dimensionOrder(state) {
		if v, ok := state.Categorical[field].Value(); ok {
			filters = append(filters, EqualFilter(field, v))
		}
	}

	var sortCopy []SortSpec
	if len(sorts) > 0 {
		sortCopy = make([]SortSpec, len(sorts))
		copy(sortCopy, sorts)
	}

	return CanonicalQuery{
		Filters:    filters,
		Sort:       sortCopy,
		Pagination: page,
	}
}

// dimensionOrder lists configured dimensions first, then any other field of the state sorted
// lexically, so the output never depends on the order inputs were set in.
func (c Composer) dimensionOrder(state FilterState) []string {
	fields := make([]string, 0, len(c.Dimensions)+len(state.Categorical))
	known := make(map[string]bool, len(c.Dimensions))
	for _, field := range c.Dimensions {
		if known[field] {
			continue
		}
		known[field] = true
		fields = append(fields, field)
	}

	extra := make([]string, 0)
	for field := range state.Categorical {
		if !known[field] {
			extra = append(extra, field)
		}
	}
	sort.Strings(extra)
	return append(fields, extra...)
}
