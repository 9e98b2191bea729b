package class

import (
	"context"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/refdata"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/table"
	"github.com/trezcool/masomo-admin/core/user"
)

// Dimensions of the classes list screen. Their values are subject and teacher names.
var Dimensions = []string{"subject", "teacher"}

var Columns = []table.ColumnSpec[Class]{
	{
		ID: "banner", Header: "Banner", Width: 80,
		Accessor: func(c Class) table.Value {
			if c.BannerURL == "" {
				return table.Value{}
			}
			return table.Value{Raw: c.BannerURL}
		},
		Render: table.Image,
	},
	{ID: "name", Header: "Class Name", Width: 200, Accessor: func(c Class) table.Value { return table.Value{Raw: c.Name} }},
	{
		ID: "status", Header: "Status", Width: 100,
		Accessor: func(c Class) table.Value { return table.Value{Raw: c.Status} },
		Render:   table.Badge(StatusVariant),
	},
	{
		ID: "subject", Header: "Subject", Width: 150,
		Accessor: func(c Class) table.Value {
			if c.Subject == nil {
				return table.Value{}
			}
			return table.Value{Raw: c.Subject.Name}
		},
	},
	{
		ID: "teacher", Header: "Teacher", Width: 150,
		Accessor: func(c Class) table.Value {
			if c.Teacher == nil {
				return table.Value{}
			}
			return table.Value{Raw: c.Teacher.Name}
		},
	},
	{ID: "capacity", Header: "Capacity", Width: 100, Accessor: func(c Class) table.Value { return table.Value{Raw: c.Capacity} }},
	{
		ID: "details", Header: "Details", Width: 140,
		Accessor: func(c Class) table.Value { return table.Value{Raw: c.ID} },
		Render:   table.ShowLink(ResourceName),
	},
}

// NewTable returns the controller of the classes list screen: newest first, paged by the server.
func NewTable(data query.DataAccess[Class], pageSize int, logger core.Logger) *table.Controller[Class] {
	return table.NewController[Class](data, table.Options[Class]{
		Resource:   ResourceName,
		Label:      ResourceName,
		Composer:   query.Composer{SearchField: "name", Dimensions: Dimensions},
		Columns:    Columns,
		Sort:       []query.SortSpec{{Field: "id", Order: query.Desc}},
		Pagination: query.Pagination{PageSize: pageSize, Mode: query.Server},
		Logger:     logger,
	})
}

// FilterOptions holds the dropdown entries of the classes list screen, each led by the "all" entry.
type FilterOptions struct {
	Subject []refdata.Option `json:"subject"`
	Teacher []refdata.Option `json:"teacher"`
}

func LoadFilterOptions(
	ctx context.Context,
	subjects *refdata.Fetcher[subject.Subject],
	teachers *refdata.Fetcher[user.User],
	pageSize int,
) FilterOptions {
	withAll := func(label string, opts []refdata.Option) []refdata.Option {
		return append([]refdata.Option{{Value: query.AllSentinel, Label: label}}, opts...)
	}
	return FilterOptions{
		Subject: withAll("All Subjects", subjects.Options(ctx, subject.OptionSource(pageSize))),
		Teacher: withAll("All Teachers", teachers.Options(ctx, user.TeacherOptionSource(pageSize))),
	}
}
