package department

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/query"
)

type repoMock struct {
	codes   map[string]bool
	created []Department
	err     error
}

func (r *repoMock) Execute(context.Context, string, query.CanonicalQuery) (query.ResultPage[Department], error) {
	return query.ResultPage[Department]{Rows: r.created, Total: len(r.created)}, nil
}

func (r *repoMock) FetchOne(_ context.Context, _, id string) (Department, error) {
	for _, d := range r.created {
		if id == "1" && d.ID == 1 {
			return d, nil
		}
	}
	return Department{}, core.ErrNotFound
}

func (r *repoMock) CheckCodeUniqueness(_ context.Context, code string) error {
	if r.err != nil {
		return r.err
	}
	if r.codes[code] {
		return ErrCodeExists
	}
	return nil
}

func (r *repoMock) CreateDepartment(_ context.Context, d Department) (Department, error) {
	d.ID = len(r.created) + 1
	r.created = append(r.created, d)
	return d, nil
}

func newValidator() *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	return validate
}

func TestNewDepartment_Validate(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name    string
		nd      NewDepartment
		want    NewDepartment
		wantErr []string // failing json fields
	}{
		{
			name: "cleaned",
			nd:   NewDepartment{Code: " math ", Name: " Mathematics  ", Description: " Numbers "},
			want: NewDepartment{Code: "MATH", Name: "Mathematics", Description: "Numbers"},
		},
		{name: "missing fields", nd: NewDepartment{}, wantErr: []string{"code", "name"}},
		{name: "bad code", nd: NewDepartment{Code: "m@th!", Name: "Mathematics"}, wantErr: []string{"code"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nd.Validate(validate)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, tt.nd)
				return
			}
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs))
			fields := make([]string, 0, len(vErrs))
			for _, fe := range vErrs {
				fields = append(fields, fe.Field())
			}
			assert.Equal(t, tt.wantErr, fields)
		})
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &repoMock{codes: map[string]bool{"HIST": true}}
	svc := NewService(repo)

	dept, err := svc.Create(ctx, NewDepartment{Code: "MATH", Name: "Mathematics"})
	require.NoError(t, err)
	assert.Equal(t, 1, dept.ID)
	assert.False(t, dept.CreatedAt.IsZero())

	got, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, dept, got)

	_, err = svc.Get(ctx, "2")
	assert.True(t, core.IsNotFound(err))

	_, err = svc.Create(ctx, NewDepartment{Code: "HIST", Name: "History"})
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []core.FieldError{{Field: "code", Error: ErrCodeExists.Error()}}, vErr.Fields)

	repo.err = errors.New("connection reset")
	_, err = svc.Create(ctx, NewDepartment{Code: "ENG", Name: "English"})
	assert.EqualError(t, err, "checking code uniqueness: connection reset")
}

func TestNewTable(t *testing.T) {
	repo := &repoMock{created: []Department{{ID: 1, Code: "MATH", Name: "Mathematics"}}}
	ctrl := NewTable(repo, 10, nil)
	require.NoError(t, ctrl.Refresh(context.Background()))

	view := ctrl.View()
	assert.Equal(t, ResourceName, view.Resource)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "—", view.Rows[0][2].Text)
	assert.Equal(t, "1", view.Rows[0][3].Intent.ID)
}
