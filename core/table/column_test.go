package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-admin/core/resource"
)

func TestProject(t *testing.T) {
	type row struct {
		ID     int
		Status string
		Banner string
		Owner  *string
	}
	owner := "Ada Lovelace"
	variant := func(s string) string {
		if s == "active" {
			return "default"
		}
		return "secondary"
	}
	columns := []ColumnSpec[row]{
		{
			ID: "banner",
			Accessor: func(r row) Value {
				if r.Banner == "" {
					return Value{}
				}
				return Value{Raw: r.Banner}
			},
			Render: Image,
		},
		{ID: "status", Accessor: func(r row) Value { return Value{Raw: r.Status} }, Render: Badge(variant)},
		{
			ID: "owner",
			Accessor: func(r row) Value {
				if r.Owner == nil {
					return Value{}
				}
				return Value{Raw: *r.Owner}
			},
			Render: func(Value) Cell { panic("render called on a missing value") },
		},
		{ID: "details", Accessor: func(r row) Value { return Value{Raw: r.ID} }, Render: ShowLink("classes")},
		{ID: "nothing"},
	}
	show := resource.ShowIntent("classes", "7")

	tests := []struct {
		name string
		rows []row
		want [][]Cell
	}{
		{name: "no rows", rows: nil, want: [][]Cell{}},
		{
			name: "missing owner",
			rows: []row{{ID: 7, Status: "inactive", Banner: "https://img/7.png"}},
			want: [][]Cell{{
				{Kind: ImageCell, Text: "https://img/7.png"},
				{Kind: BadgeCell, Text: "inactive", Variant: "secondary"},
				{Kind: TextCell, Text: "n/a"},
				{Kind: LinkCell, Text: "View", Intent: &show},
				{Kind: TextCell, Text: "n/a"},
			}},
		},
		{
			name: "complete",
			rows: []row{{ID: 7, Status: "active", Owner: &owner}},
			want: [][]Cell{{
				{Kind: TextCell, Text: "n/a"},
				{Kind: BadgeCell, Text: "active", Variant: "default"},
				{Kind: TextCell, Text: "Ada Lovelace"},
				{Kind: LinkCell, Text: "View", Intent: &show},
				{Kind: TextCell, Text: "n/a"},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Project(columns, tt.rows, "n/a"))
		})
	}
}

func TestValue(t *testing.T) {
	assert.True(t, Value{}.Missing())
	assert.Equal(t, "", Value{}.String())
	assert.False(t, Value{Raw: 0}.Missing())
	assert.Equal(t, "0", Value{Raw: 0}.String())
}
