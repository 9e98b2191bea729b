package class

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/refdata"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/table"
	"github.com/trezcool/masomo-admin/core/user"
	"github.com/trezcool/masomo-admin/tests"
)

func TestNewTable(t *testing.T) {
	var issued query.CanonicalQuery
	data := query.DataAccessFunc[Class](func(_ context.Context, res string, q query.CanonicalQuery) (query.ResultPage[Class], error) {
		assert.Equal(t, ResourceName, res)
		issued = q
		return query.ResultPage[Class]{
			Rows: []Class{{
				ID: 3, Name: "Algebra II", Status: StatusInactive, Capacity: 25,
				Subject: &subject.Subject{Name: "Mathematics"},
			}},
			Total: 1,
		}, nil
	})

	ctrl := NewTable(data, 10, nil)
	ctrl.Store().SetCategorical("subject", query.EqualTo("Mathematics"))
	ctrl.Store().SetCategorical("teacher", query.NoConstraint())
	require.NoError(t, ctrl.SetSearchText(context.Background(), "Alg"))

	assert.Equal(t, query.CanonicalQuery{
		Filters: []query.FilterInput{
			{Field: "name", Operator: query.Contains, Value: "Alg"},
			{Field: "subject", Operator: query.Eq, Value: "Mathematics"},
		},
		Sort:       []query.SortSpec{{Field: "id", Order: query.Desc}},
		Pagination: query.Pagination{PageIndex: 0, PageSize: 10, Mode: query.Server},
	}, issued)

	view := ctrl.View()
	headers := make([]string, 0, len(view.Columns))
	widths := make([]int, 0, len(view.Columns))
	for _, col := range view.Columns {
		headers = append(headers, col.ID)
		widths = append(widths, col.Width)
	}
	assert.Equal(t, []string{"banner", "name", "status", "subject", "teacher", "capacity", "details"}, headers)
	assert.Equal(t, []int{80, 200, 100, 150, 150, 100, 140}, widths)

	require.Len(t, view.Rows, 1)
	row := view.Rows[0]
	assert.Equal(t, table.Cell{Kind: table.TextCell, Text: table.Placeholder}, row[0])
	assert.Equal(t, table.Cell{Kind: table.BadgeCell, Text: "inactive", Variant: "secondary"}, row[2])
	assert.Equal(t, "Mathematics", row[3].Text)
	assert.Equal(t, table.Placeholder, row[4].Text)
	assert.Equal(t, "25", row[5].Text)
	assert.Equal(t, table.LinkCell, row[6].Kind)
	assert.Equal(t, "3", row[6].Intent.ID)
}

func TestLoadFilterOptions(t *testing.T) {
	logger := testutil.NewLogger()
	subjects := query.DataAccessFunc[subject.Subject](func(context.Context, string, query.CanonicalQuery) (query.ResultPage[subject.Subject], error) {
		return query.ResultPage[subject.Subject]{Rows: []subject.Subject{{Name: "Linear Algebra"}}, Total: 1}, nil
	})
	teachers := query.DataAccessFunc[user.User](func(_ context.Context, _ string, q query.CanonicalQuery) (query.ResultPage[user.User], error) {
		assert.Equal(t, []query.FilterInput{user.TeacherFilter}, q.Filters)
		return query.ResultPage[user.User]{}, errors.New("users unavailable")
	})

	got := LoadFilterOptions(
		context.Background(),
		refdata.NewFetcher[subject.Subject](subjects, logger),
		refdata.NewFetcher[user.User](teachers, logger),
		100,
	)
	assert.Equal(t, FilterOptions{
		Subject: []refdata.Option{{Value: "all", Label: "All Subjects"}, {Value: "Linear Algebra", Label: "Linear Algebra"}},
		Teacher: []refdata.Option{{Value: "all", Label: "All Teachers"}},
	}, got)
	assert.Len(t, logger.Entries("warn"), 1)
}
