package table

import "github.com/trezcool/masomo-admin/core/query"

// TableView is the display-ready projection of a controller's state.
type TableView struct {
	Resource        string              `json:"resource"`
	Status          Status              `json:"status"`
	Loading         bool                `json:"loading"`
	Error           string              `json:"error,omitempty"`
	Columns         []Header            `json:"columns"`
	Rows            [][]Cell            `json:"rows"`
	Total           int                 `json:"total"`
	PageIndex       int                 `json:"page_index"`
	PageSize        int                 `json:"page_size"`
	PageCount       int                 `json:"page_count"`
	HasNextPage     bool                `json:"has_next_page"`
	HasPreviousPage bool                `json:"has_previous_page"`
	Filters         []query.FilterInput `json:"filters"`
	Sort            []query.SortSpec    `json:"sort"`
}

// View projects the current page through the column specs.
func (c *Controller[R]) View() TableView {
	st := c.Snapshot()

	headers := make([]Header, 0, len(c.columns))
	for _, col := range c.columns {
		headers = append(headers, col.header())
	}

	filters := st.Query.Filters
	if filters == nil {
		filters = []query.FilterInput{}
	}
	return TableView{
		Resource:        c.resource,
		Status:          st.Status,
		Loading:         st.Loading,
		Error:           st.ErrMessage,
		Columns:         headers,
		Rows:            Project(c.columns, st.Rows, c.placeholder),
		Total:           st.Total,
		PageIndex:       st.Pagination.PageIndex,
		PageSize:        st.Pagination.PageSize,
		PageCount:       st.PageCount,
		HasNextPage:     st.HasNextPage,
		HasPreviousPage: st.HasPreviousPage,
		Filters:         filters,
		Sort:            st.Sort,
	}
}
