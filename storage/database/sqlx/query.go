// Package sqlxrepos serves the repositories from postgres. Canonical queries are translated to
// SQL with squirrel; only whitelisted fields can be filtered or sorted on.
package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
)

const uniqueViolation = "23505"

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	errUnknownResource = errors.New("unknown resource")

	likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// table describes how a resource is read: its FROM clause (with joins), the selected columns and
// the SQL expression behind every queryable field.
type table struct {
	resource string
	from     func(b sq.SelectBuilder) sq.SelectBuilder
	columns  []string
	fields   map[string]string
}

func (t table) where(filters []query.FilterInput) ([]sq.Sqlizer, error) {
	preds := make([]sq.Sqlizer, 0, len(filters))
	for _, f := range filters {
		col, ok := t.fields[f.Field]
		if !ok {
			return nil, errors.Wrapf(query.ErrUnknownField, "filter on %q", f.Field)
		}

		var pred sq.Sqlizer
		switch f.Operator {
		case query.Eq:
			pred = sq.Eq{col: f.Value}
		case query.Ne:
			pred = sq.Or{sq.NotEq{col: f.Value}, sq.Eq{col: nil}}
		case query.Contains:
			pred = sq.ILike{col: "%" + likeEscaper.Replace(fmt.Sprint(f.Value)) + "%"}
		case query.Gt:
			pred = sq.Gt{col: f.Value}
		case query.Gte:
			pred = sq.GtOrEq{col: f.Value}
		case query.Lt:
			pred = sq.Lt{col: f.Value}
		case query.Lte:
			pred = sq.LtOrEq{col: f.Value}
		default:
			return nil, errors.Errorf("unsupported operator %s on %q", f.Operator, f.Field)
		}
		preds = append(preds, pred)
	}
	return preds, nil
}

func (t table) orderBy(sorts []query.SortSpec) ([]string, error) {
	terms := make([]string, 0, len(sorts))
	for _, s := range sorts {
		col, ok := t.fields[s.Field]
		if !ok {
			return nil, errors.Wrapf(query.ErrUnknownSortField, "sort on %q", s.Field)
		}
		terms = append(terms, query.SortSpec{Field: col, Order: s.Order}.String())
	}
	return terms, nil
}

func (t table) selectAll() sq.SelectBuilder {
	return t.from(psql.Select(t.columns...))
}

func filtered(b sq.SelectBuilder, preds []sq.Sqlizer) sq.SelectBuilder {
	for _, p := range preds {
		b = b.Where(p)
	}
	return b
}

// execute counts the matching rows, then loads the requested page into T.
func execute[T any](ctx context.Context, db core.DBExecutor, t table, res string, q query.CanonicalQuery) ([]T, int, error) {
	if res != t.resource {
		return nil, 0, errors.Wrap(errUnknownResource, res)
	}
	preds, err := t.where(q.Filters)
	if err != nil {
		return nil, 0, err
	}
	order, err := t.orderBy(q.Sort)
	if err != nil {
		return nil, 0, err
	}

	countSQL, args, err := filtered(t.from(psql.Select("COUNT(*)")), preds).ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "building count query")
	}
	var total int
	if err = db.GetContext(ctx, &total, countSQL, args...); err != nil {
		return nil, 0, errors.Wrapf(err, "counting %s", t.resource)
	}

	b := filtered(t.selectAll(), preds).OrderBy(order...)
	if !q.Unpaged() {
		b = b.Limit(uint64(q.Pagination.PageSize))
		if off := q.Pagination.Offset(); off > 0 {
			b = b.Offset(uint64(off))
		}
	}
	selectSQL, args, err := b.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "building select query")
	}
	rows := make([]T, 0)
	if err = db.SelectContext(ctx, &rows, selectSQL, args...); err != nil {
		return nil, 0, errors.Wrapf(err, "selecting %s", t.resource)
	}
	return rows, total, nil
}

// fetchOne loads the row whose idCol equals id. Unparsable ids are reported as not found.
func fetchOne[T any](ctx context.Context, db core.DBExecutor, t table, idCol string, id string) (T, error) {
	var row T
	if _, err := strconv.Atoi(id); err != nil {
		return row, core.ErrNotFound
	}
	q, args, err := t.selectAll().Where(sq.Eq{idCol: id}).ToSql()
	if err != nil {
		return row, errors.Wrap(err, "building select query")
	}
	if err = db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, core.ErrNotFound
		}
		return row, errors.Wrapf(err, "selecting %s", t.resource)
	}
	return row, nil
}

// exists reports whether a row of tbl has col equal to val.
func exists(ctx context.Context, db core.DBExecutor, tbl, col string, val interface{}) (bool, error) {
	q, args, err := psql.Select("1").From(tbl).Where(sq.Eq{col: val}).Limit(1).ToSql()
	if err != nil {
		return false, errors.Wrap(err, "building exists query")
	}
	var one int
	err = db.GetContext(ctx, &one, q, args...)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// insert runs b and returns the generated id.
func insert(ctx context.Context, db core.DBExecutor, b sq.InsertBuilder) (int, error) {
	q, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building insert query")
	}
	var id int
	if err = db.QueryRowxContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
