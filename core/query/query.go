package query

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Data access layers wrap these when a query names a field they cannot filter or sort on.
var (
	ErrUnknownField     = errors.New("unknown field")
	ErrUnknownSortField = errors.New("unknown sort field")
)

type Order int

const (
	Asc Order = iota
	Desc
)

func (o Order) String() string {
	if o == Desc {
		return "desc"
	}
	return "asc"
}

func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

type SortSpec struct {
	Field string `json:"field"`
	Order Order  `json:"order"`
}

// String renders the sort as an SQL ordering term, e.g. "id DESC".
func (s SortSpec) String() string {
	return s.Field + " " + strings.ToUpper(s.Order.String())
}

// ParseOrdering parses "-id,name" style orderings; a leading "-" means descending.
func ParseOrdering(raw string) []SortSpec {
	var specs []SortSpec
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		order := Asc
		if strings.HasPrefix(field, "-") {
			order = Desc
			field = strings.TrimSpace(field[1:]) // drop "-"
		}
		if field == "" {
			continue
		}
		specs = append(specs, SortSpec{Field: field, Order: order})
	}
	return specs
}

type PaginationMode int

const (
	Server PaginationMode = iota // slicing delegated to the data access layer
	Client                       // everything fetched, sliced by the table controller
)

func (m PaginationMode) String() string {
	if m == Client {
		return "client"
	}
	return "server"
}

func (m PaginationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type Pagination struct {
	PageIndex int            `json:"page_index"`
	PageSize  int            `json:"page_size"`
	Mode      PaginationMode `json:"mode"`
}

// Offset of the first row of the page.
func (p Pagination) Offset() int { return p.PageIndex * p.PageSize }

// CanonicalQuery is the single value crossing the boundary to DataAccess.
type CanonicalQuery struct {
	Filters    []FilterInput `json:"filters"`
	Sort       []SortSpec    `json:"sort"`
	Pagination Pagination    `json:"pagination"`
}

// Unpaged reports whether the data access layer must return every matching row.
func (q CanonicalQuery) Unpaged() bool {
	return q.Pagination.Mode == Client || q.Pagination.PageSize <= 0
}

type ResultPage[R any] struct {
	Rows  []R `json:"rows"`
	Total int `json:"total"` // count before pagination slicing
}

type (
	// DataAccess executes canonical queries against the backing store: filters are conjunctive,
	// the requested sort is honored, and ResultPage.Total counts matches before slicing.
	DataAccess[R any] interface {
		Execute(ctx context.Context, resource string, q CanonicalQuery) (ResultPage[R], error)
	}

	// DetailFetcher returns core.ErrNotFound when no record has the given id.
	DetailFetcher[R any] interface {
		FetchOne(ctx context.Context, resource, id string) (R, error)
	}

	// DataAccessFunc adapts a function to DataAccess.
	DataAccessFunc[R any] func(ctx context.Context, resource string, q CanonicalQuery) (ResultPage[R], error)
)

func (f DataAccessFunc[R]) Execute(ctx context.Context, resource string, q CanonicalQuery) (ResultPage[R], error) {
	return f(ctx, resource, q)
}
