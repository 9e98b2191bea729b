package subject

import (
	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/refdata"
	"github.com/trezcool/masomo-admin/core/table"
)

// Dimensions of the subjects list screen.
var Dimensions = []string{"department"}

var Columns = []table.ColumnSpec[Subject]{
	{ID: "code", Header: "Code", Width: 100, Accessor: func(s Subject) table.Value { return table.Value{Raw: s.Code} }},
	{ID: "name", Header: "Name", Width: 200, Accessor: func(s Subject) table.Value { return table.Value{Raw: s.Name} }},
	{
		ID: "department", Header: "Department", Width: 150,
		Accessor: func(s Subject) table.Value {
			if s.Department == nil {
				return table.Value{}
			}
			return table.Value{Raw: s.Department.Name}
		},
	},
	{ID: "description", Header: "Description", Width: 300, Accessor: func(s Subject) table.Value { return table.Value{Raw: s.Description} }},
}

func NewTable(data query.DataAccess[Subject], pageSize int, logger core.Logger) *table.Controller[Subject] {
	return table.NewController[Subject](data, table.Options[Subject]{
		Resource:   ResourceName,
		Label:      ResourceName,
		Composer:   query.Composer{SearchField: "name", Dimensions: Dimensions},
		Columns:    Columns,
		Sort:       []query.SortSpec{{Field: "id", Order: query.Desc}},
		Pagination: query.Pagination{PageSize: pageSize},
		Logger:     logger,
	})
}

// OptionSource feeds the class screen's subject dropdown; values are subject names.
func OptionSource(pageSize int) refdata.Source[Subject] {
	return refdata.Source[Subject]{
		Resource: ResourceName,
		PageSize: pageSize,
		Option:   func(s Subject) refdata.Option { return refdata.Option{Value: s.Name, Label: s.Name} },
	}
}
