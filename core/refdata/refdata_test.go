package refdata

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

type teacher struct {
	ID   int
	Name string
}

func TestFetcher_ListAll(t *testing.T) {
	var got query.CanonicalQuery
	data := query.DataAccessFunc[teacher](func(ctx context.Context, resource string, q query.CanonicalQuery) (query.ResultPage[teacher], error) {
		got = q
		return query.ResultPage[teacher]{Rows: []teacher{{1, "Ada Lovelace"}}, Total: 1}, nil
	})

	rows, err := NewFetcher[teacher](data, nil).ListAll(context.Background(), "users", 100, query.EqualFilter("role", "teacher"))
	require.NoError(t, err)
	assert.Equal(t, []teacher{{1, "Ada Lovelace"}}, rows)
	assert.Equal(t, query.CanonicalQuery{
		Filters:    []query.FilterInput{query.EqualFilter("role", "teacher")},
		Pagination: query.Pagination{PageSize: 100},
	}, got)
}

func TestFetcher_Options(t *testing.T) {
	src := Source[teacher]{
		Resource: "users",
		PageSize: 100,
		Option:   func(tc teacher) Option { return Option{Value: tc.Name, Label: tc.Name} },
	}

	tests := []struct {
		name     string
		rows     []teacher
		err      error
		want     []Option
		wantWarn bool
	}{
		{
			name: "options",
			rows: []teacher{{1, "Ada Lovelace"}, {2, "Alan Turing"}},
			want: []Option{{"Ada Lovelace", "Ada Lovelace"}, {"Alan Turing", "Alan Turing"}},
		},
		{name: "no rows", want: []Option{}},
		{name: "failure degrades to empty", err: errors.New("timeout"), want: []Option{}, wantWarn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := testutil.NewLogger()
			data := query.DataAccessFunc[teacher](func(context.Context, string, query.CanonicalQuery) (query.ResultPage[teacher], error) {
				return query.ResultPage[teacher]{Rows: tt.rows, Total: len(tt.rows)}, tt.err
			})

			got := NewFetcher[teacher](data, logger).Options(context.Background(), src)
			assert.Equal(t, tt.want, got)

			warnings := logger.Entries("warn")
			if tt.wantWarn {
				require.Len(t, warnings, 1)
				assert.Equal(t, "loading users options", warnings[0].Msg)
				assert.True(t, core.IsFetchFailure(warnings[0].Args[0].(error)))
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}
