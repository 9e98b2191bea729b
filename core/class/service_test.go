package class

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/resource"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/user"
)

type repoMock struct {
	classes []Class
}

func (r *repoMock) Execute(context.Context, string, query.CanonicalQuery) (query.ResultPage[Class], error) {
	return query.ResultPage[Class]{Rows: r.classes, Total: len(r.classes)}, nil
}

func (r *repoMock) FetchOne(ctx context.Context, _, id string) (Class, error) {
	if err := ctx.Err(); err != nil {
		return Class{}, err
	}
	for _, c := range r.classes {
		if strconv.Itoa(c.ID) == id {
			return c, nil
		}
	}
	return Class{}, core.ErrNotFound
}

func (r *repoMock) CreateClass(_ context.Context, c Class) (Class, error) {
	c.ID = len(r.classes) + 1
	r.classes = append(r.classes, c)
	return c, nil
}

// fetchMock serves the FetchOne part of any repository from a map.
type fetchMock[R any] struct {
	recs map[string]R
	err  error
}

func (f fetchMock[R]) FetchOne(_ context.Context, _, id string) (R, error) {
	var zero R
	if f.err != nil {
		return zero, f.err
	}
	if rec, ok := f.recs[id]; ok {
		return rec, nil
	}
	return zero, core.ErrNotFound
}

type subjectsMock struct {
	subject.Repository
	fetchMock[subject.Subject]
}

func (m subjectsMock) FetchOne(ctx context.Context, res, id string) (subject.Subject, error) {
	return m.fetchMock.FetchOne(ctx, res, id)
}

type usersMock struct {
	user.Repository
	fetchMock[user.User]
}

func (m usersMock) FetchOne(ctx context.Context, res, id string) (user.User, error) {
	return m.fetchMock.FetchOne(ctx, res, id)
}

type deptsMock struct {
	department.Repository
	fetchMock[department.Department]
}

func (m deptsMock) FetchOne(ctx context.Context, res, id string) (department.Department, error) {
	return m.fetchMock.FetchOne(ctx, res, id)
}

type mailMock struct {
	mu   sync.Mutex
	sent []core.EmailMessage
}

func (m *mailMock) SendMessages(messages ...*core.EmailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range messages {
		m.sent = append(m.sent, *msg)
	}
}

func TestService_Create(t *testing.T) {
	newInviteCode = func() string { return "ABCD1234" }
	defer func() { newInviteCode = defaultInviteCode }()

	cs := department.Department{ID: 1, Name: "Computer Science"}
	math := department.Department{ID: 2, Name: "Mathematics"}
	subjects := subjectsMock{fetchMock: fetchMock[subject.Subject]{recs: map[string]subject.Subject{
		"1": {ID: 1, Code: "CSC101", Name: "Introduction to Computer Science", Department: &cs},
	}}}
	users := usersMock{fetchMock: fetchMock[user.User]{recs: map[string]user.User{
		"1": {ID: 1, Name: "Ada Lovelace", Email: "ada@school.cd", Role: user.RoleTeacher},
		"2": {ID: 2, Name: "Sam Student", Email: "sam@school.cd", Role: user.RoleStudent},
	}}}
	depts := deptsMock{fetchMock: fetchMock[department.Department]{recs: map[string]department.Department{"2": math}}}
	conf := core.NewTestConfig()

	tests := []struct {
		name       string
		nc         NewClass
		subjErr    error
		wantFields []core.FieldError
		wantErr    string
		wantDept   *department.Department
	}{
		{
			name:     "department from subject",
			nc:       NewClass{Name: "Intro to CS", Status: StatusActive, Capacity: 30, SubjectID: 1, TeacherID: 1},
			wantDept: &cs,
		},
		{
			name:     "explicit department",
			nc:       NewClass{Name: "CS for math", Status: StatusActive, Capacity: 30, SubjectID: 1, TeacherID: 1, DepartmentID: 2},
			wantDept: &math,
		},
		{
			name:       "unknown subject",
			nc:         NewClass{Name: "x", SubjectID: 9, TeacherID: 1},
			wantFields: []core.FieldError{{Field: "subject_id", Error: "subject does not exist"}},
		},
		{
			name:       "not a teacher",
			nc:         NewClass{Name: "x", SubjectID: 1, TeacherID: 2},
			wantFields: []core.FieldError{{Field: "teacher_id", Error: "teacher does not exist"}},
		},
		{
			name:       "unknown department",
			nc:         NewClass{Name: "x", SubjectID: 1, TeacherID: 1, DepartmentID: 7},
			wantFields: []core.FieldError{{Field: "department_id", Error: "department does not exist"}},
		},
		{
			name:    "subject lookup failure",
			nc:      NewClass{Name: "x", SubjectID: 1, TeacherID: 1},
			subjErr: errors.New("connection reset"),
			wantErr: "fetching subject: connection reset",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &repoMock{}
			mail := &mailMock{}
			subjects.err = tt.subjErr
			svc := NewService(repo, subjects, users, depts, mail, resource.Default(), conf)

			cls, err := svc.Create(context.Background(), tt.nc)
			switch {
			case tt.wantFields != nil:
				var vErr *core.ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, tt.wantFields, vErr.Fields)
				assert.Empty(t, mail.sent)
				return
			case tt.wantErr != "":
				assert.EqualError(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 1, cls.ID)
			assert.Equal(t, "ABCD1234", cls.InviteCode)
			assert.Equal(t, tt.wantDept, cls.Department)
			assert.Equal(t, "Ada Lovelace", cls.Teacher.Name)

			require.Len(t, mail.sent, 1)
			msg := mail.sent[0]
			assert.Equal(t, "ada@school.cd", msg.To[0].Address)
			assert.Equal(t, "New class: "+tt.nc.Name, msg.Subject)
			assert.Equal(t, "class_assigned", msg.TemplateName)
			require.NoError(t, msg.Render(conf.FrontendBaseURL))
			assert.Contains(t, msg.TextContent, "Hello Ada Lovelace,")
			assert.Contains(t, msg.TextContent, "invite code: ABCD1234")
			assert.Contains(t, msg.TextContent, "Class details: http://localhost:5173/classes/show/1")
			assert.Contains(t, msg.HTMLContent, `<a href="http://localhost:5173/classes/show/1">`)
		})
	}
}

func TestService_Detail(t *testing.T) {
	repo := &repoMock{classes: []Class{{ID: 1, Name: "Algebra I", Status: StatusActive}}}
	svc := NewService(repo, subjectsMock{}, usersMock{}, deptsMock{}, &mailMock{}, resource.Default(), core.NewTestConfig())

	assert.Equal(t, DetailReady, svc.Detail(context.Background(), "1").State)
	assert.Equal(t, DetailNotFound, svc.Detail(context.Background(), "2").State)

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	assert.Equal(t, DetailLoading, svc.Detail(ctx, "1").State)
}

func TestNewClass_Validate(t *testing.T) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	valid := func() NewClass {
		return NewClass{
			Name: " Algebra I ", Capacity: 30, SubjectID: 1, TeacherID: 1,
			Schedules: []Schedule{{Day: "Monday", StartTime: "09:00", EndTime: "10:30"}},
		}
	}

	tests := []struct {
		name    string
		modify  func(nc *NewClass)
		wantTag map[string]string
	}{
		{name: "valid", modify: func(*NewClass) {}},
		{name: "bad status", modify: func(nc *NewClass) { nc.Status = "archived" }, wantTag: map[string]string{"status": classStatusTag}},
		{name: "no capacity", modify: func(nc *NewClass) { nc.Capacity = 0 }, wantTag: map[string]string{"capacity": "required"}},
		{name: "no teacher", modify: func(nc *NewClass) { nc.TeacherID = 0 }, wantTag: map[string]string{"teacher_id": "required"}},
		{
			name:    "schedule ends before start",
			modify:  func(nc *NewClass) { nc.Schedules[0].EndTime = "08:00" },
			wantTag: map[string]string{"end_time": scheduleOrderTag},
		},
		{
			name:    "bad schedule day",
			modify:  func(nc *NewClass) { nc.Schedules[0].Day = "someday" },
			wantTag: map[string]string{"day": "oneof"},
		},
		{name: "bad banner", modify: func(nc *NewClass) { nc.BannerURL = "not a url" }, wantTag: map[string]string{"banner_url": "url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nc := valid()
			tt.modify(&nc)
			err := nc.Validate(validate)
			if tt.wantTag == nil {
				require.NoError(t, err)
				assert.Equal(t, "Algebra I", nc.Name)
				assert.Equal(t, StatusActive, nc.Status)
				assert.Equal(t, "monday", nc.Schedules[0].Day)
				return
			}
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs))
			got := make(map[string]string, len(vErrs))
			for _, fe := range vErrs {
				got[fe.Field()] = fe.Tag()
			}
			assert.Equal(t, tt.wantTag, got)
		})
	}
}
