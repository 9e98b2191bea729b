package table

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
)

type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

var statusNames = [...]string{"idle", "loading", "ready", "failed"}

func (s Status) String() string { return statusNames[s] }

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Options configures one list screen.
type Options[R any] struct {
	Resource    string // passed to DataAccess
	Label       string // human name used in error messages, e.g. "classes"
	Composer    query.Composer
	Columns     []ColumnSpec[R]
	Sort        []query.SortSpec // initial sort
	Pagination  query.Pagination // initial pagination
	Placeholder string           // defaults to Placeholder
	Store       *query.Store     // defaults to a fresh store
	Logger      core.Logger      // optional
}

// State is a snapshot of the controller, safe to hand to the presentation layer.
type State[R any] struct {
	Status          Status
	Loading         bool
	Rows            []R
	Total           int
	Pagination      query.Pagination
	Sort            []query.SortSpec
	PageCount       int
	HasNextPage     bool
	HasPreviousPage bool
	Err             error
	ErrMessage      string
	Query           query.CanonicalQuery // last issued query
}

// Controller issues composed queries to a DataAccess and keeps the current page.
//
// Every refresh is stamped with a request token; a response is applied only if its token is
// still the latest one, so a slow response of a superseded query never overwrites a newer result.
type Controller[R any] struct {
	data        query.DataAccess[R]
	resource    string
	label       string
	composer    query.Composer
	store       *query.Store
	columns     []ColumnSpec[R]
	placeholder string
	logger      core.Logger

	mu         sync.Mutex
	token      uint64
	sort       []query.SortSpec
	page       query.Pagination
	stable     *query.CanonicalQuery // last query whose response was applied
	totalKnown bool
	state      State[R]
}

func NewController[R any](data query.DataAccess[R], opts Options[R]) *Controller[R] {
	c := &Controller[R]{
		data:        data,
		resource:    opts.Resource,
		label:       opts.Label,
		composer:    opts.Composer,
		store:       opts.Store,
		columns:     opts.Columns,
		placeholder: opts.Placeholder,
		logger:      opts.Logger,
		sort:        append([]query.SortSpec(nil), opts.Sort...),
		page:        opts.Pagination,
	}
	if c.store == nil {
		c.store = query.NewStore()
	}
	if c.placeholder == "" {
		c.placeholder = Placeholder
	}
	if c.label == "" {
		c.label = c.resource
	}
	if c.page.PageSize <= 0 {
		c.page.PageSize = 10
	}
	if c.page.PageIndex < 0 {
		c.page.PageIndex = 0
	}
	c.state.Pagination = c.page
	c.state.Sort = c.sort
	return c
}

// Store returns the filter store feeding this controller.
func (c *Controller[R]) Store() *query.Store { return c.store }

// Query composes the query the controller would issue now.
func (c *Controller[R]) Query() query.CanonicalQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.composeLocked()
}

func (c *Controller[R]) composeLocked() query.CanonicalQuery {
	return c.composer.Compose(c.store.State(), c.sort, c.page)
}

// Refresh composes the current query and sends it to the data access layer.
// A fetch failure is returned and exposed through the state; no retry is attempted.
// Responses superseded by a later Refresh are discarded and yield a nil error.
func (c *Controller[R]) Refresh(ctx context.Context) error {
	return c.refresh(ctx, true)
}

func (c *Controller[R]) refresh(ctx context.Context, mayClamp bool) error {
	c.mu.Lock()
	q := c.composeLocked()
	c.token++
	token := c.token
	c.state.Status = Loading
	c.state.Loading = true
	c.state.Query = q
	if c.stable == nil || !sameSelection(*c.stable, q) {
		c.state.Rows = nil
	}
	c.mu.Unlock()

	fetchQ := q
	if q.Pagination.Mode == query.Client {
		fetchQ.Pagination = query.Pagination{Mode: query.Client}
	}
	page, err := c.data.Execute(ctx, c.resource, fetchQ)

	c.mu.Lock()
	if token != c.token {
		c.mu.Unlock()
		c.debug(fmt.Sprintf("discarding stale %s response", c.resource), map[string]interface{}{"token": token})
		return nil
	}

	if err != nil {
		failure := core.NewFetchFailure(c.resource, err)
		c.state.Status = Failed
		c.state.Loading = false
		c.state.Rows = nil
		c.state.Total = 0
		c.state.PageCount = 0
		c.state.HasNextPage = false
		c.state.HasPreviousPage = false
		c.state.Err = failure
		c.state.ErrMessage = fmt.Sprintf("Failed to load %s", c.label)
		c.stable = nil
		c.totalKnown = false
		msg := c.state.ErrMessage
		c.mu.Unlock()
		c.warn(msg, err)
		return failure
	}

	refetch := c.applyLocked(q, page, mayClamp)
	c.mu.Unlock()

	if refetch {
		return c.refresh(ctx, false)
	}
	return nil
}

// applyLocked stores a successful response. It reports whether the requested server page
// lies beyond the total and the clamped page must be fetched. An empty result clamps to
// the first page.
func (c *Controller[R]) applyLocked(q query.CanonicalQuery, page query.ResultPage[R], mayClamp bool) bool {
	rows := page.Rows
	total := page.Total
	pg := q.Pagination

	if pg.Mode == query.Client {
		total = len(rows)
		last := lastPage(total, pg.PageSize)
		if pg.PageIndex > last {
			pg.PageIndex = last
			c.page.PageIndex = last
		}
		lo := pg.Offset()
		hi := lo + pg.PageSize
		if hi > total {
			hi = total
		}
		rows = rows[lo:hi]
	} else if mayClamp && pg.PageIndex > 0 && pg.Offset() >= total {
		c.page.PageIndex = lastPage(total, pg.PageSize)
		c.totalKnown = true
		c.state.Total = total
		return true
	}

	stable := q
	c.stable = &stable
	c.totalKnown = true
	c.state.Status = Ready
	c.state.Loading = false
	c.state.Err = nil
	c.state.ErrMessage = ""
	c.state.Rows = rows
	c.state.Total = total
	c.state.Pagination = pg
	c.state.Sort = q.Sort
	c.state.PageCount = pageCount(total, pg.PageSize)
	c.state.HasPreviousPage = pg.PageIndex > 0
	c.state.HasNextPage = pg.PageIndex < c.state.PageCount-1
	return false
}

// SetPage moves to the zero-based page index, clamped to the last known page.
func (c *Controller[R]) SetPage(ctx context.Context, index int) error {
	c.record(PageChanged{Index: index})
	return c.Refresh(ctx)
}

// SetPageSize changes the page size, keeping the first row of the current page visible.
func (c *Controller[R]) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return core.NewValidationError(
			fmt.Errorf("invalid page size %d", size),
			core.FieldError{Field: "page_size", Error: "page size must be greater than 0"},
		)
	}
	c.record(PageSizeChanged{Size: size})
	return c.Refresh(ctx)
}

// SetSort replaces the sort specs wholesale.
func (c *Controller[R]) SetSort(ctx context.Context, specs ...query.SortSpec) error {
	c.record(SortChanged{Sort: specs})
	return c.Refresh(ctx)
}

// SetSearchText records the search text and refreshes from the first page.
func (c *Controller[R]) SetSearchText(ctx context.Context, text string) error {
	c.recordSearch(text)
	return c.Refresh(ctx)
}

// SetCategorical records a dimension's selection and refreshes from the first page.
func (c *Controller[R]) SetCategorical(ctx context.Context, field string, con query.Constraint) error {
	c.recordCategorical(field, con)
	return c.Refresh(ctx)
}

func (c *Controller[R]) recordSearch(text string) {
	c.store.SetSearchText(text)
	c.resetPage()
}

func (c *Controller[R]) recordCategorical(field string, con query.Constraint) {
	c.store.SetCategorical(field, con)
	c.resetPage()
}

func (c *Controller[R]) resetPage() {
	c.mu.Lock()
	c.page.PageIndex = 0
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Controller[R]) Snapshot() State[R] {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	st.Rows = append([]R(nil), c.state.Rows...)
	st.Sort = append([]query.SortSpec(nil), c.state.Sort...)
	return st
}

func (c *Controller[R]) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Controller[R]) warn(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

// sameSelection reports whether two queries select the same rows in the same order.
func sameSelection(a, b query.CanonicalQuery) bool {
	return reflect.DeepEqual(a.Filters, b.Filters) && reflect.DeepEqual(a.Sort, b.Sort)
}

func pageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

func lastPage(total, size int) int {
	if n := pageCount(total, size); n > 0 {
		return n - 1
	}
	return 0
}
