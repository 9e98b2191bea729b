package inmemdb

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core/query"
)

var (
	errUnknownResource = errors.New("unknown resource")
)

// fields maps the queryable field names of a resource to accessors. A nil value means "absent".
type fields[R any] map[string]func(R) interface{}

// execute applies q to rows: conjunctive filters, stable multi-key sort, then the page slice.
func execute[R any](rows []R, flds fields[R], q query.CanonicalQuery) (query.ResultPage[R], error) {
	matched := make([]R, 0, len(rows))
	for _, rec := range rows {
		ok, err := matches(rec, flds, q.Filters)
		if err != nil {
			return query.ResultPage[R]{}, err
		}
		if ok {
			matched = append(matched, rec)
		}
	}

	for _, s := range q.Sort {
		if _, ok := flds[s.Field]; !ok {
			return query.ResultPage[R]{}, errors.Wrapf(query.ErrUnknownSortField, "sort on %q", s.Field)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		for _, s := range q.Sort {
			get := flds[s.Field]
			c := compare(get(matched[i]), get(matched[j]))
			if c == 0 {
				continue
			}
			if s.Order == query.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	total := len(matched)
	if !q.Unpaged() {
		lo := q.Pagination.Offset()
		if lo > total {
			lo = total
		}
		hi := lo + q.Pagination.PageSize
		if hi > total {
			hi = total
		}
		matched = matched[lo:hi]
	}
	return query.ResultPage[R]{Rows: matched, Total: total}, nil
}

func matches[R any](rec R, flds fields[R], filters []query.FilterInput) (bool, error) {
	for _, f := range filters {
		get, ok := flds[f.Field]
		if !ok {
			return false, errors.Wrapf(query.ErrUnknownField, "filter on %q", f.Field)
		}
		if !match(get(rec), f.Operator, f.Value) {
			return false, nil
		}
	}
	return true, nil
}

func match(val interface{}, op query.Operator, want interface{}) bool {
	if val == nil {
		return op == query.Ne
	}
	switch op {
	case query.Eq:
		return compare(val, want) == 0
	case query.Ne:
		return compare(val, want) != 0
	case query.Contains:
		return strings.Contains(strings.ToLower(fmt.Sprint(val)), strings.ToLower(fmt.Sprint(want)))
	case query.Gt:
		return compare(val, want) > 0
	case query.Gte:
		return compare(val, want) >= 0
	case query.Lt:
		return compare(val, want) < 0
	case query.Lte:
		return compare(val, want) <= 0
	}
	return false
}

// compare orders numbers numerically, times chronologically and everything else by its text.
// Absent values sort first.
func compare(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	if x, ok := a.(time.Time); ok {
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err == nil && fmt.Sprint(f) == n {
			return f, true
		}
	}
	return 0, false
}
