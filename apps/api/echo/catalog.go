package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/table"
)

type subjectApi struct {
	svc      *subject.Service
	validate *validator.Validate
	logger   core.Logger
	pageSize int
}

func registerSubjectAPI(g *echo.Group, opts *Options) {
	api := subjectApi{svc: opts.SubjectSvc, validate: opts.Validate, logger: opts.Logger, pageSize: opts.ListPageSize}

	sg := g.Group("/subjects")
	sg.GET("", listHandler(api.newTable, subject.Dimensions))
	sg.POST("", api.create)
}

func (api *subjectApi) newTable() *table.Controller[subject.Subject] {
	return subject.NewTable(api.svc.Data(), api.pageSize, api.logger)
}

func (api *subjectApi) create(ctx echo.Context) error {
	var data subject.NewSubject
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	subj, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, subj)
}

type departmentApi struct {
	svc      *department.Service
	validate *validator.Validate
	logger   core.Logger
	pageSize int
}

func registerDepartmentAPI(g *echo.Group, opts *Options) {
	api := departmentApi{svc: opts.DepartmentSvc, validate: opts.Validate, logger: opts.Logger, pageSize: opts.ListPageSize}

	dg := g.Group("/departments")
	dg.GET("", listHandler(api.newTable, nil))
	dg.POST("", api.create)
	dg.GET("/:id", api.retrieve)
}

func (api *departmentApi) newTable() *table.Controller[department.Department] {
	return department.NewTable(api.svc.Data(), api.pageSize, api.logger)
}

func (api *departmentApi) create(ctx echo.Context) error {
	var data department.NewDepartment
	if err := bindJSON(ctx, &data); err != nil {
		return err
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	dept, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating department")
	}
	return ctx.JSON(http.StatusCreated, dept)
}

func (api *departmentApi) retrieve(ctx echo.Context) error {
	dept, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting department")
	}
	return ctx.JSON(http.StatusOK, dept)
}
