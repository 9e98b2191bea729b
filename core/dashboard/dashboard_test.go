package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/tests"
)

func TestCountOf(t *testing.T) {
	data := query.DataAccessFunc[int](func(_ context.Context, res string, q query.CanonicalQuery) (query.ResultPage[int], error) {
		assert.Equal(t, "users", res)
		assert.Equal(t, 1, q.Pagination.PageSize)
		assert.Equal(t, []query.FilterInput{query.EqualFilter("role", "teacher")}, q.Filters)
		return query.ResultPage[int]{Rows: []int{1}, Total: 42}, nil
	})

	n, err := CountOf[int](data, "users", query.EqualFilter("role", "teacher")).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	failing := query.DataAccessFunc[int](func(context.Context, string, query.CanonicalQuery) (query.ResultPage[int], error) {
		return query.ResultPage[int]{}, errors.New("down")
	})
	_, err = CountOf[int](failing, "classes").Count(context.Background())
	assert.True(t, core.IsFetchFailure(err))
}

func TestService_Totals(t *testing.T) {
	logger := testutil.NewLogger()
	svc := NewService(logger,
		Card{Name: "classes", Label: "Classes", Counter: CounterFunc(func(context.Context) (int, error) { return 12, nil })},
		Card{Name: "subjects", Label: "Subjects", Counter: CounterFunc(func(context.Context) (int, error) { return 0, errors.New("down") })},
		Card{Name: "teachers", Label: "Teachers", Counter: CounterFunc(func(context.Context) (int, error) { return 4, nil })},
	)

	assert.Equal(t, []Total{
		{Name: "classes", Label: "Classes", Total: 12},
		{Name: "subjects", Label: "Subjects", Error: "Failed to load subjects"},
		{Name: "teachers", Label: "Teachers", Total: 4},
	}, svc.Totals(context.Background()))
	assert.Len(t, logger.Entries("warn"), 1)
}
