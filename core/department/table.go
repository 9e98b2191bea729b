package department

import (
	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/refdata"
	"github.com/trezcool/masomo-admin/core/table"
)

var Columns = []table.ColumnSpec[Department]{
	{ID: "code", Header: "Code", Width: 100, Accessor: func(d Department) table.Value { return table.Value{Raw: d.Code} }},
	{ID: "name", Header: "Name", Width: 200, Accessor: func(d Department) table.Value { return table.Value{Raw: d.Name} }},
	{
		ID: "description", Header: "Description", Width: 300,
		Accessor: func(d Department) table.Value {
			if d.Description == "" {
				return table.Value{}
			}
			return table.Value{Raw: d.Description}
		},
	},
	{
		ID: "details", Header: "Details", Width: 140,
		Accessor: func(d Department) table.Value { return table.Value{Raw: d.ID} },
		Render:   table.ShowLink(ResourceName),
	},
}

// NewTable returns the controller of the departments list screen.
func NewTable(data query.DataAccess[Department], pageSize int, logger core.Logger) *table.Controller[Department] {
	return table.NewController[Department](data, table.Options[Department]{
		Resource:   ResourceName,
		Label:      ResourceName,
		Composer:   query.Composer{SearchField: "name"},
		Columns:    Columns,
		Sort:       []query.SortSpec{{Field: "id", Order: query.Desc}},
		Pagination: query.Pagination{PageSize: pageSize},
		Logger:     logger,
	})
}

// OptionSource feeds the department dropdown of the subjects screen.
func OptionSource(pageSize int) refdata.Source[Department] {
	return refdata.Source[Department]{
		Resource: ResourceName,
		PageSize: pageSize,
		Option:   func(d Department) refdata.Option { return refdata.Option{Value: d.Name, Label: d.Name} },
	}
}
