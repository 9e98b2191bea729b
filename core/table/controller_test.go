package table

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
	testutil "github.com/trezcool/masomo-admin/tests"
)

type subj struct {
	Name string
}

type rec struct {
	ID      int
	Name    string
	Subject *subj
}

// fakeData serves recs, honoring "contains name" filters and server pagination.
type fakeData struct {
	mu    sync.Mutex
	recs  []rec
	err   error
	calls []query.CanonicalQuery
	gates map[string]chan struct{} // search text -> release
	began chan string
}

func newFakeData(n int) *fakeData {
	recs := make([]rec, 0, n)
	for i := 1; i <= n; i++ {
		recs = append(recs, rec{ID: i, Name: "Class " + strconv.Itoa(i)})
	}
	return &fakeData{recs: recs}
}

func searchOf(q query.CanonicalQuery) string {
	for _, f := range q.Filters {
		if f.Operator == query.Contains {
			return f.Value.(string)
		}
	}
	return ""
}

func (fd *fakeData) Execute(ctx context.Context, resource string, q query.CanonicalQuery) (query.ResultPage[rec], error) {
	fd.mu.Lock()
	fd.calls = append(fd.calls, q)
	gate := fd.gates[searchOf(q)]
	began := fd.began
	fd.mu.Unlock()

	if began != nil {
		began <- searchOf(q)
	}
	if gate != nil {
		<-gate
	}

	fd.mu.Lock()
	defer fd.mu.Unlock()
	if fd.err != nil {
		return query.ResultPage[rec]{}, fd.err
	}

	matched := make([]rec, 0)
	for _, r := range fd.recs {
		if s := searchOf(q); s == "" || strings.Contains(r.Name, s) {
			matched = append(matched, r)
		}
	}
	rows := matched
	if !q.Unpaged() {
		lo := q.Pagination.Offset()
		if lo > len(rows) {
			lo = len(rows)
		}
		hi := lo + q.Pagination.PageSize
		if hi > len(rows) {
			hi = len(rows)
		}
		rows = rows[lo:hi]
	}
	return query.ResultPage[rec]{Rows: rows, Total: len(matched)}, nil
}

func (fd *fakeData) lastCall() query.CanonicalQuery {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	return fd.calls[len(fd.calls)-1]
}

func (fd *fakeData) setErr(err error) {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	fd.err = err
}

var recColumns = []ColumnSpec[rec]{
	{ID: "name", Header: "Name", Width: 200, Accessor: func(r rec) Value { return Value{Raw: r.Name} }},
	{
		ID: "subject", Header: "Subject", Width: 150,
		Accessor: func(r rec) Value {
			if r.Subject == nil {
				return Value{}
			}
			return Value{Raw: r.Subject.Name}
		},
	},
}

func newTestController(data query.DataAccess[rec], mode query.PaginationMode) *Controller[rec] {
	return NewController[rec](data, Options[rec]{
		Resource:   "classes",
		Label:      "classes",
		Composer:   query.Composer{SearchField: "name", Dimensions: []string{"subject", "teacher"}},
		Columns:    recColumns,
		Sort:       []query.SortSpec{{Field: "id", Order: query.Desc}},
		Pagination: query.Pagination{PageSize: 10, Mode: mode},
	})
}

func TestController_Paging(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(25)
	ctrl := newTestController(data, query.Server)

	require.NoError(t, ctrl.Refresh(ctx))
	st := ctrl.Snapshot()
	assert.Equal(t, Ready, st.Status)
	assert.Len(t, st.Rows, 10)
	assert.Equal(t, 25, st.Total)
	assert.Equal(t, 3, st.PageCount)
	assert.True(t, st.HasNextPage)
	assert.False(t, st.HasPreviousPage)

	require.NoError(t, ctrl.SetPage(ctx, 2))
	assert.Equal(t, 2, data.lastCall().Pagination.PageIndex)
	st = ctrl.Snapshot()
	assert.Len(t, st.Rows, 5)
	assert.False(t, st.HasNextPage)
	assert.True(t, st.HasPreviousPage)
	assert.Equal(t, 21, st.Rows[0].ID)

	// beyond the last known page
	require.NoError(t, ctrl.SetPage(ctx, 7))
	assert.Equal(t, 2, data.lastCall().Pagination.PageIndex)

	require.NoError(t, ctrl.SetPage(ctx, -1))
	assert.Equal(t, 0, data.lastCall().Pagination.PageIndex)
}

func TestController_ClampsUnknownTotal(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(25)
	ctrl := NewController[rec](data, Options[rec]{
		Resource:   "classes",
		Pagination: query.Pagination{PageIndex: 5, PageSize: 10},
	})

	require.NoError(t, ctrl.Refresh(ctx))
	assert.Len(t, data.calls, 2)
	assert.Equal(t, 2, data.lastCall().Pagination.PageIndex)
	st := ctrl.Snapshot()
	assert.Len(t, st.Rows, 5)
	assert.Equal(t, 2, st.Pagination.PageIndex)
}

func TestController_ClampsEmptyResult(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(25)
	ctrl := newTestController(data, query.Server)
	ctrl.Store().SetSearchText("zzz")

	require.NoError(t, ctrl.SetPage(ctx, 5))
	assert.Len(t, data.calls, 2)
	assert.Equal(t, 0, data.lastCall().Pagination.PageIndex)

	st := ctrl.Snapshot()
	assert.Equal(t, Ready, st.Status)
	assert.Empty(t, st.Rows)
	assert.Equal(t, 0, st.Total)
	assert.Equal(t, 0, st.PageCount)
	assert.Equal(t, 0, st.Pagination.PageIndex)
	assert.False(t, st.HasPreviousPage)
	assert.False(t, st.HasNextPage)
}

func TestController_ConcurrentFailures(t *testing.T) {
	ctx := context.Background()
	var (
		mu    sync.Mutex
		calls int
	)
	data := query.DataAccessFunc[rec](func(ctx context.Context, resource string, q query.CanonicalQuery) (query.ResultPage[rec], error) {
		mu.Lock()
		calls++
		fail := calls%2 == 0
		mu.Unlock()
		if fail {
			return query.ResultPage[rec]{}, errors.New("connection reset")
		}
		return query.ResultPage[rec]{Rows: []rec{{ID: 1, Name: "Class 1"}}, Total: 1}, nil
	})
	logger := testutil.NewLogger()
	ctrl := NewController[rec](data, Options[rec]{
		Resource:   "classes",
		Label:      "classes",
		Logger:     logger,
		Pagination: query.Pagination{PageSize: 10},
	})

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ctrl.Refresh(ctx)
		}()
	}
	wg.Wait()

	st := ctrl.Snapshot()
	assert.False(t, st.Loading)
	assert.Contains(t, []Status{Ready, Failed}, st.Status)
	for _, e := range logger.Entries("warn") {
		assert.Equal(t, "Failed to load classes", e.Msg)
	}
}

func TestController_PageSize(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(25)
	ctrl := newTestController(data, query.Server)
	require.NoError(t, ctrl.SetPage(ctx, 1))

	require.NoError(t, ctrl.SetPageSize(ctx, 5))
	assert.Equal(t, query.Pagination{PageIndex: 2, PageSize: 5}, data.lastCall().Pagination)

	err := ctrl.SetPageSize(ctx, 0)
	var vErr *core.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestController_FilterChangeResetsPage(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(25)
	ctrl := newTestController(data, query.Server)
	require.NoError(t, ctrl.SetPage(ctx, 2))

	require.NoError(t, ctrl.SetSearchText(ctx, "Class 1"))
	q := data.lastCall()
	assert.Equal(t, 0, q.Pagination.PageIndex)
	assert.Equal(t, []query.FilterInput{query.ContainsFilter("name", "Class 1")}, q.Filters)
	assert.Equal(t, 11, ctrl.Snapshot().Total) // 1, 10-19

	require.NoError(t, ctrl.SetCategorical(ctx, "subject", query.EqualTo("Mathematics")))
	assert.Equal(t, []query.FilterInput{
		query.ContainsFilter("name", "Class 1"),
		query.EqualFilter("subject", "Mathematics"),
	}, data.lastCall().Filters)
}

func TestController_SetSort(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(3)
	ctrl := newTestController(data, query.Server)

	require.NoError(t, ctrl.SetSort(ctx, query.SortSpec{Field: "name", Order: query.Asc}))
	assert.Equal(t, []query.SortSpec{{Field: "name", Order: query.Asc}}, data.lastCall().Sort)
	assert.Equal(t, []query.SortSpec{{Field: "name", Order: query.Asc}}, ctrl.Snapshot().Sort)
}

func TestController_FailureThenRecovery(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(25)
	ctrl := newTestController(data, query.Server)
	require.NoError(t, ctrl.Refresh(ctx))

	data.setErr(errors.New("connection refused"))
	err := ctrl.Refresh(ctx)
	require.Error(t, err)
	assert.True(t, core.IsFetchFailure(err))

	st := ctrl.Snapshot()
	assert.Equal(t, Failed, st.Status)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Rows)
	assert.Equal(t, "Failed to load classes", st.ErrMessage)
	assert.Equal(t, "Failed to load classes", ctrl.View().Error)

	data.setErr(nil)
	require.NoError(t, ctrl.Refresh(ctx))
	st = ctrl.Snapshot()
	assert.Equal(t, Ready, st.Status)
	assert.NoError(t, st.Err)
	assert.Empty(t, st.ErrMessage)
	assert.Len(t, st.Rows, 10)
}

func TestController_StaleResponseSuppressed(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(25)
	gateA := make(chan struct{})
	gateB := make(chan struct{})
	data.gates = map[string]chan struct{}{"Class 1": gateA, "Class 2": gateB}
	data.began = make(chan string, 2)
	ctrl := newTestController(data, query.Server)

	doneA := make(chan error, 1)
	ctrl.Store().SetSearchText("Class 1")
	go func() { doneA <- ctrl.Refresh(ctx) }()
	require.Equal(t, "Class 1", <-data.began)

	doneB := make(chan error, 1)
	ctrl.Store().SetSearchText("Class 2")
	go func() { doneB <- ctrl.Refresh(ctx) }()
	require.Equal(t, "Class 2", <-data.began)

	// B resolves first, then the superseded A
	close(gateB)
	require.NoError(t, <-doneB)
	close(gateA)
	require.NoError(t, <-doneA)

	st := ctrl.Snapshot()
	assert.Equal(t, Ready, st.Status)
	assert.Equal(t, 7, st.Total) // 2, 20-25
	for _, r := range st.Rows {
		assert.Contains(t, r.Name, "Class 2")
	}
}

func TestController_RetainsRowsWhilePaging(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(25)
	ctrl := newTestController(data, query.Server)
	require.NoError(t, ctrl.Refresh(ctx))

	gate := make(chan struct{})
	data.mu.Lock()
	data.gates = map[string]chan struct{}{"": gate}
	data.began = make(chan string, 1)
	data.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- ctrl.SetPage(ctx, 1) }()
	<-data.began

	st := ctrl.Snapshot()
	assert.True(t, st.Loading)
	assert.Len(t, st.Rows, 10) // previous page still shown
	assert.Equal(t, 1, st.Rows[0].ID)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, 11, ctrl.Snapshot().Rows[0].ID)
}

func TestController_ClientMode(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(25)
	ctrl := newTestController(data, query.Client)

	require.NoError(t, ctrl.SetPage(ctx, 2))
	assert.True(t, data.lastCall().Unpaged())

	st := ctrl.Snapshot()
	assert.Equal(t, 25, st.Total)
	assert.Len(t, st.Rows, 5)
	assert.Equal(t, 21, st.Rows[0].ID)
	assert.False(t, st.HasNextPage)

	require.NoError(t, ctrl.SetPage(ctx, 9))
	st = ctrl.Snapshot()
	assert.Equal(t, 2, st.Pagination.PageIndex)
}

func TestController_View(t *testing.T) {
	ctx := context.Background()
	data := &fakeData{recs: []rec{
		{ID: 1, Name: "Algebra I", Subject: &subj{Name: "Mathematics"}},
		{ID: 2, Name: "Homeroom"},
	}}
	ctrl := newTestController(data, query.Server)
	require.NoError(t, ctrl.Refresh(ctx))

	view := ctrl.View()
	assert.Equal(t, []Header{
		{ID: "name", Header: "Name", Width: 200},
		{ID: "subject", Header: "Subject", Width: 150},
	}, view.Columns)
	assert.Equal(t, [][]Cell{
		{{Kind: TextCell, Text: "Algebra I"}, {Kind: TextCell, Text: "Mathematics"}},
		{{Kind: TextCell, Text: "Homeroom"}, {Kind: TextCell, Text: Placeholder}},
	}, view.Rows)
	assert.Equal(t, []query.FilterInput{}, view.Filters)
	assert.Equal(t, 1, view.PageCount)
}

func TestController_Run(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	data := newFakeData(25)
	ctrl := newTestController(data, query.Server)

	events := make(chan Event)
	done := make(chan struct{})
	go func() {
		ctrl.Run(ctx, events)
		close(done)
	}()

	events <- RefreshRequested{}
	events <- SearchChanged{Text: "Class 2"}
	events <- CategoricalChanged{Field: "subject", Constraint: query.NoConstraint()}
	close(events)
	<-done

	st := ctrl.Snapshot()
	assert.Equal(t, Ready, st.Status)
	assert.Equal(t, []query.FilterInput{query.ContainsFilter("name", "Class 2")}, st.Query.Filters)
	assert.Equal(t, 7, st.Total)
}

func TestDebounce(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	in := make(chan Event)
	out := Debounce(ctx, in, 50*time.Millisecond)

	go func() {
		in <- SearchChanged{Text: "A"}
		in <- SearchChanged{Text: "Al"}
		in <- SearchChanged{Text: "Alg"}
		in <- PageChanged{Index: 1}
		in <- SearchChanged{Text: "Algebra"}
		close(in)
	}()

	got := make([]Event, 0)
	for ev := range out {
		got = append(got, ev)
	}
	assert.Equal(t, []Event{
		SearchChanged{Text: "Alg"},
		PageChanged{Index: 1},
		SearchChanged{Text: "Algebra"},
	}, got)
}

func TestController_Batch(t *testing.T) {
	ctx := context.Background()
	data := newFakeData(25)
	ctrl := newTestController(data, query.Server)

	require.NoError(t, ctrl.Batch(ctx))
	assert.Empty(t, data.calls)

	require.NoError(t, ctrl.Batch(ctx,
		SearchChanged{Text: "Class 2"},
		SortChanged{Sort: query.ParseOrdering("name")},
		PageSizeChanged{Size: 5},
		PageChanged{Index: 1},
	))
	require.Len(t, data.calls, 1)
	q := data.lastCall()
	assert.Equal(t, []query.FilterInput{query.ContainsFilter("name", "Class 2")}, q.Filters)
	assert.Equal(t, query.ParseOrdering("name"), q.Sort)
	assert.Equal(t, query.Pagination{PageIndex: 1, PageSize: 5}, q.Pagination)

	st := ctrl.Snapshot()
	assert.Equal(t, 7, st.Total)
	require.Len(t, st.Rows, 2)
	assert.Equal(t, []int{24, 25}, []int{st.Rows[0].ID, st.Rows[1].ID})

	// ignored events alone do not fetch
	require.NoError(t, ctrl.Batch(ctx, PageSizeChanged{Size: 0}))
	assert.Len(t, data.calls, 1)
}
