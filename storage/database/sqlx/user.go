package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/user"
)

var users = table{
	resource: user.ResourceName,
	from:     func(b sq.SelectBuilder) sq.SelectBuilder { return b.From("users u") },
	columns: []string{
		"u.id", "u.name", "u.email", "u.role", "u.image", "u.is_active", "u.password_hash",
		"u.created_at", "u.updated_at", "u.last_login",
	},
	fields: map[string]string{
		"id":         "u.id",
		"name":       "u.name",
		"email":      "u.email",
		"role":       "u.role",
		"is_active":  "u.is_active",
		"created_at": "u.created_at",
	},
}

type userRow struct {
	ID           int        `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	Role         string     `db:"role"`
	Image        string     `db:"image"`
	IsActive     bool       `db:"is_active"`
	PasswordHash null.Bytes `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	LastLogin    null.Time  `db:"last_login"`
}

func (r userRow) toUser() user.User {
	usr := user.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      r.Role,
		Image:     r.Image,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.PasswordHash.Valid {
		usr.PasswordHash = r.PasswordHash.Bytes
	}
	if r.LastLogin.Valid {
		usr.LastLogin = r.LastLogin.Time.UTC()
	}
	return usr
}

type userRepository struct {
	db core.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db core.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) Execute(ctx context.Context, res string, q query.CanonicalQuery) (query.ResultPage[user.User], error) {
	rows, total, err := execute[userRow](ctx, repo.db, users, res, q)
	if err != nil {
		return query.ResultPage[user.User]{}, err
	}
	page := query.ResultPage[user.User]{Rows: make([]user.User, 0, len(rows)), Total: total}
	for _, r := range rows {
		page.Rows = append(page.Rows, r.toUser())
	}
	return page, nil
}

func (repo *userRepository) FetchOne(ctx context.Context, _, id string) (user.User, error) {
	row, err := fetchOne[userRow](ctx, repo.db, users, "u.id", id)
	if err != nil {
		if core.IsNotFound(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return row.toUser(), nil
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	found, err := exists(ctx, repo.db, "users", "email", email)
	if err != nil {
		return errors.Wrap(err, "checking user email")
	}
	if found {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	id, err := insert(ctx, repo.db, psql.Insert("users").
		Columns("name", "email", "role", "image", "is_active", "password_hash", "created_at", "updated_at").
		Values(usr.Name, usr.Email, usr.Role, usr.Image, usr.IsActive, null.NewBytes(usr.PasswordHash, usr.PasswordHash != nil), usr.CreatedAt, usr.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	usr.ID = id
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	q, args, err := users.selectAll().Where(sq.Eq{"u.email": email}).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building select query")
	}
	var row userRow
	if err = repo.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) SetLastLogin(ctx context.Context, id int, at time.Time) error {
	q, args, err := psql.Update("users").
		Set("last_login", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building update query")
	}
	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return errors.Wrap(err, "updating last login")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}
	return nil
}
