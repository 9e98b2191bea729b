// Package refdata loads the small reference lists that populate list-screen filter dropdowns.
package refdata

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
)

// Option is one entry of a categorical dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Source describes which records feed a dropdown and how each one becomes an Option.
type Source[R any] struct {
	Resource string
	PageSize int
	Filters  []query.FilterInput // e.g. role = teacher
	Option   func(R) Option
}

type Fetcher[R any] struct {
	data   query.DataAccess[R]
	logger core.Logger
}

func NewFetcher[R any](data query.DataAccess[R], logger core.Logger) *Fetcher[R] {
	return &Fetcher[R]{data: data, logger: logger}
}

// ListAll fetches the first pageSize records of resource matching filters.
func (f *Fetcher[R]) ListAll(ctx context.Context, resource string, pageSize int, filters ...query.FilterInput) ([]R, error) {
	q := query.CanonicalQuery{
		Filters:    append([]query.FilterInput{}, filters...),
		Pagination: query.Pagination{PageSize: pageSize},
	}
	page, err := f.data.Execute(ctx, resource, q)
	if err != nil {
		return nil, errors.Wrapf(core.NewFetchFailure(resource, err), "listing %s", resource)
	}
	if page.Rows == nil {
		return []R{}, nil
	}
	return page.Rows, nil
}

// Options never fails: when the source cannot be fetched the dropdown is simply empty.
func (f *Fetcher[R]) Options(ctx context.Context, src Source[R]) []Option {
	rows, err := f.ListAll(ctx, src.Resource, src.PageSize, src.Filters...)
	if err != nil {
		if f.logger != nil {
			f.logger.Warn(fmt.Sprintf("loading %s options", src.Resource), err)
		}
		return []Option{}
	}

	opts := make([]Option, 0, len(rows))
	for _, rec := range rows {
		opts = append(opts, src.Option(rec))
	}
	return opts
}
