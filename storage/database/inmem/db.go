// Package inmemdb serves the repositories from process memory. It backs tests and the
// database_inMemory development mode.
package inmemdb

import (
	"sort"
	"strconv"
	"sync"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/class"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/user"
)

type (
	DB struct {
		department *table[department.Department]
		subject    *table[subject.Subject]
		user       *table[user.User]
		class      *table[class.Class]
	}

	table[R any] struct {
		sync.RWMutex
		rows  map[int]R
		pk    int
		setPK func(*R, int)
		idOf  func(R) int
	}
)

func Open() *DB {
	return &DB{
		department: newTable(func(d *department.Department, id int) { d.ID = id }, func(d department.Department) int { return d.ID }),
		subject:    newTable(func(s *subject.Subject, id int) { s.ID = id }, func(s subject.Subject) int { return s.ID }),
		user:       newTable(func(u *user.User, id int) { u.ID = id }, func(u user.User) int { return u.ID }),
		class:      newTable(func(c *class.Class, id int) { c.ID = id }, func(c class.Class) int { return c.ID }),
	}
}

func newTable[R any](setPK func(*R, int), idOf func(R) int) *table[R] {
	return &table[R]{rows: make(map[int]R), setPK: setPK, idOf: idOf}
}

// all returns the rows ordered by primary key. Callers hold the lock.
func (t *table[R]) all() []R {
	out := make([]R, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return t.idOf(out[i]) < t.idOf(out[j]) })
	return out
}

func (t *table[R]) insert(rec R) R {
	t.Lock()
	defer t.Unlock()

	t.pk++
	t.setPK(&rec, t.pk)
	t.rows[t.pk] = rec
	return rec
}

func (t *table[R]) get(id string) (R, error) {
	t.RLock()
	defer t.RUnlock()

	var zero R
	pk, err := strconv.Atoi(id)
	if err != nil {
		return zero, core.ErrNotFound
	}
	rec, ok := t.rows[pk]
	if !ok {
		return zero, core.ErrNotFound
	}
	return rec, nil
}

func (t *table[R]) find(pred func(R) bool) (R, bool) {
	t.RLock()
	defer t.RUnlock()

	for _, rec := range t.all() {
		if pred(rec) {
			return rec, true
		}
	}
	var zero R
	return zero, false
}

func (t *table[R]) snapshot() []R {
	t.RLock()
	defer t.RUnlock()
	return t.all()
}
