package inmemdb

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/user"
)

var userFields = fields[user.User]{
	"id":         func(u user.User) interface{} { return u.ID },
	"name":       func(u user.User) interface{} { return u.Name },
	"email":      func(u user.User) interface{} { return u.Email },
	"role":       func(u user.User) interface{} { return u.Role },
	"is_active":  func(u user.User) interface{} { return u.IsActive },
	"created_at": func(u user.User) interface{} { return u.CreatedAt },
}

type userRepository struct {
	db *table[user.User]
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) Execute(_ context.Context, res string, q query.CanonicalQuery) (query.ResultPage[user.User], error) {
	if res != user.ResourceName {
		return query.ResultPage[user.User]{}, errors.Wrap(errUnknownResource, res)
	}
	return execute(repo.db.snapshot(), userFields, q)
}

func (repo *userRepository) FetchOne(_ context.Context, _, id string) (user.User, error) {
	usr, err := repo.db.get(id)
	if err != nil {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string) error {
	if _, ok := repo.db.find(func(u user.User) bool { return u.Email == email }); ok {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	return repo.db.insert(usr), nil
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	if usr, ok := repo.db.find(func(u user.User) bool { return u.Email == email }); ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) SetLastLogin(_ context.Context, id int, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.rows[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.LastLogin = at
	usr.UpdatedAt = at
	repo.db.rows[id] = usr
	return nil
}
