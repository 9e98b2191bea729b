package user

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
)

type repoMock struct {
	users     map[int]User
	lastLogin map[int]time.Time
}

func newRepoMock() *repoMock {
	return &repoMock{users: make(map[int]User), lastLogin: make(map[int]time.Time)}
}

func (r *repoMock) Execute(context.Context, string, query.CanonicalQuery) (query.ResultPage[User], error) {
	return query.ResultPage[User]{}, nil
}

func (r *repoMock) FetchOne(_ context.Context, _, id string) (User, error) {
	pk, _ := strconv.Atoi(id)
	if usr, ok := r.users[pk]; ok {
		return usr, nil
	}
	return User{}, ErrNotFound
}

func (r *repoMock) CheckEmailUniqueness(_ context.Context, email string) error {
	for _, usr := range r.users {
		if usr.Email == email {
			return ErrEmailExists
		}
	}
	return nil
}

func (r *repoMock) CreateUser(_ context.Context, usr User) (User, error) {
	usr.ID = len(r.users) + 1
	r.users[usr.ID] = usr
	return usr, nil
}

func (r *repoMock) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, usr := range r.users {
		if usr.Email == email {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *repoMock) SetLastLogin(_ context.Context, id int, at time.Time) error {
	r.lastLogin[id] = at
	return nil
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newRepoMock())
	nu := NewUser{Name: "Ada Lovelace", Email: "ada@school.cd", Role: RoleTeacher, Password: "Tr0ub4dor&3x"}

	usr, err := svc.Create(ctx, nu)
	require.NoError(t, err)
	assert.Equal(t, 1, usr.ID)
	assert.True(t, usr.IsActive)
	assert.True(t, usr.IsTeacher())
	assert.NoError(t, usr.CheckPassword("Tr0ub4dor&3x"))

	got, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, usr, got)

	_, err = svc.Create(ctx, nu)
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "email", vErr.Fields[0].Field)
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	repo := newRepoMock()
	svc := NewService(repo)

	active, err := svc.Create(ctx, NewUser{Name: "Ada", Email: "ada@school.cd", Role: RoleAdmin, Password: "Tr0ub4dor&3x"})
	require.NoError(t, err)
	inactive, err := svc.Create(ctx, NewUser{Name: "Bob", Email: "bob@school.cd", Role: RoleAdmin, Password: "Tr0ub4dor&3x"})
	require.NoError(t, err)
	inactive.IsActive = false
	repo.users[inactive.ID] = inactive

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{name: "unknown email", email: "eve@school.cd", pwd: "Tr0ub4dor&3x", wantErr: ErrInvalidCredentials},
		{name: "wrong password", email: "ada@school.cd", pwd: "nope", wantErr: ErrInvalidCredentials},
		{name: "deactivated", email: "bob@school.cd", pwd: "Tr0ub4dor&3x", wantErr: ErrAccountDeactivated},
		{name: "ok", email: " ADA@school.cd", pwd: "Tr0ub4dor&3x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.email, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, active.ID, usr.ID)
			assert.Equal(t, usr.LastLogin, repo.lastLogin[active.ID])
		})
	}
}

func TestTeacherOptionSource(t *testing.T) {
	src := TeacherOptionSource(100)
	assert.Equal(t, []query.FilterInput{{Field: "role", Operator: query.Eq, Value: RoleTeacher}}, src.Filters)
	assert.Equal(t, "Ada Lovelace", src.Option(User{Name: "Ada Lovelace"}).Value)
}
