// Package seed loads a demo data set through the repositories. Running it twice is harmless:
// records whose natural key already exists are skipped.
package seed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core/class"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/query"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/user"
)

type (
	Repositories struct {
		Departments department.Repository
		Subjects    subject.Repository
		Users       user.Repository
		Classes     class.Repository
	}

	// Options of a seed run. Seeded teachers cannot log in when TeacherPassword is empty.
	Options struct {
		AdminEmail      string
		AdminPassword   string
		TeacherPassword string
		ClassCount      int
	}

	// Report counts the records created by Run.
	Report struct {
		Departments int
		Subjects    int
		Users       int
		Classes     int
	}
)

var (
	epoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	departments = []department.Department{
		{Code: "CS", Name: "Computer Science", Description: "Programming, algorithms and computing systems."},
		{Code: "MATH", Name: "Mathematics", Description: "Pure and applied mathematics."},
		{Code: "SCI", Name: "Science", Description: "Physics, chemistry and biology."},
		{Code: "ENG", Name: "English", Description: "Language and literature."},
		{Code: "HIST", Name: "History", Description: "World and regional history."},
	}

	subjects = []struct {
		subject.Subject
		dept string
	}{
		{
			Subject: subject.Subject{
				Code: "CSC101",
				Name: "Introduction to Computer Science",
				Description: "An introduction to fundamental concepts in computer science including algorithms, " +
					"data structures, basic programming in Python, and problem-solving techniques.",
			},
			dept: "CS",
		},
		{
			Subject: subject.Subject{
				Code: "MTH240",
				Name: "Linear Algebra",
				Description: "Covers vector spaces, matrices, determinants, eigenvalues/eigenvectors, and applications " +
					"to systems of linear equations and transformations.",
			},
			dept: "MATH",
		},
		{
			Subject: subject.Subject{
				Code: "HIS305",
				Name: "Modern European History",
				Description: "Survey of major political, social, and cultural developments in Europe from the French " +
					"Revolution through the twentieth century, with emphasis on primary sources and historiography.",
			},
			dept: "HIST",
		},
	}

	teachers = []user.User{
		{Name: "Ada Lovelace", Email: "ada.lovelace@masomo.cd"},
		{Name: "Alan Turing", Email: "alan.turing@masomo.cd"},
		{Name: "Mary Beard", Email: "mary.beard@masomo.cd"},
		{Name: "Emmy Noether", Email: "emmy.noether@masomo.cd", Image: "https://images.masomo.cd/emmy.png"},
	}

	weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}
)

// Run seeds the repositories.
func Run(ctx context.Context, repos Repositories, opts Options) (Report, error) {
	var report Report
	if opts.ClassCount <= 0 {
		opts.ClassCount = 25
	}

	depts := make(map[string]department.Department)
	for i, d := range departments {
		d.CreatedAt = epoch.Add(time.Duration(i) * time.Hour)
		created, err := createDepartment(ctx, repos.Departments, d)
		if err != nil {
			return report, errors.Wrapf(err, "seeding department %s", d.Code)
		}
		if created.ID != 0 {
			report.Departments++
		}
		depts[d.Code] = created
	}

	var subjs []subject.Subject
	for _, s := range subjects {
		subj := s.Subject
		subj.CreatedAt = epoch
		if dept, ok := depts[s.dept]; ok && dept.ID != 0 {
			subj.Department = &dept
		}
		err := repos.Subjects.CheckCodeUniqueness(ctx, subj.Code)
		switch {
		case errors.Is(err, subject.ErrCodeExists):
			continue
		case err != nil:
			return report, errors.Wrapf(err, "seeding subject %s", subj.Code)
		}
		if subj, err = repos.Subjects.CreateSubject(ctx, subj); err != nil {
			return report, errors.Wrapf(err, "seeding subject %s", s.Code)
		}
		report.Subjects++
		subjs = append(subjs, subj)
	}

	var staff []user.User
	if opts.AdminEmail != "" {
		admin := user.User{Name: "Administrator", Email: opts.AdminEmail, Role: user.RoleAdmin}
		if _, created, err := createUser(ctx, repos.Users, admin, opts.AdminPassword); err != nil {
			return report, errors.Wrap(err, "seeding admin")
		} else if created {
			report.Users++
		}
	}
	for _, t := range teachers {
		t.Role = user.RoleTeacher
		usr, created, err := createUser(ctx, repos.Users, t, opts.TeacherPassword)
		if err != nil {
			return report, errors.Wrapf(err, "seeding teacher %s", t.Email)
		}
		if created {
			report.Users++
			staff = append(staff, usr)
		}
	}

	if len(subjs) == 0 || len(staff) == 0 {
		return report, nil
	}
	existing, err := repos.Classes.Execute(ctx, class.ResourceName, query.CanonicalQuery{Pagination: query.Pagination{PageSize: 1}})
	if err != nil {
		return report, errors.Wrap(err, "counting classes")
	}
	if existing.Total > 0 {
		return report, nil
	}

	for i := 0; i < opts.ClassCount; i++ {
		cls := newClass(i+1, subjs[i%len(subjs)], staff[i%len(staff)])
		if _, err := repos.Classes.CreateClass(ctx, cls); err != nil {
			return report, errors.Wrapf(err, "seeding class %q", cls.Name)
		}
		report.Classes++
	}
	return report, nil
}

func createDepartment(ctx context.Context, repo department.Repository, d department.Department) (department.Department, error) {
	err := repo.CheckCodeUniqueness(ctx, d.Code)
	switch {
	case errors.Is(err, department.ErrCodeExists):
		return department.Department{}, nil
	case err != nil:
		return department.Department{}, err
	}
	return repo.CreateDepartment(ctx, d)
}

func createUser(ctx context.Context, repo user.Repository, usr user.User, pwd string) (user.User, bool, error) {
	err := repo.CheckEmailUniqueness(ctx, usr.Email)
	switch {
	case errors.Is(err, user.ErrEmailExists):
		return user.User{}, false, nil
	case err != nil:
		return user.User{}, false, err
	}

	now := time.Now().UTC()
	usr.IsActive = true
	usr.CreatedAt = now
	usr.UpdatedAt = now
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			return user.User{}, false, err
		}
	}
	usr, err = repo.CreateUser(ctx, usr)
	return usr, err == nil, err
}

func newClass(n int, subj subject.Subject, teacher user.User) class.Class {
	status := class.StatusActive
	if n%4 == 0 {
		status = class.StatusInactive
	}
	day := weekdays[n%len(weekdays)]
	start := 8 + n%8

	cls := class.Class{
		Name:        fmt.Sprintf("Class %d", n),
		Description: fmt.Sprintf("%s, section %d.", subj.Name, n),
		Status:      status,
		Capacity:    20 + (n%5)*5,
		CourseCode:  subj.Code + "-" + strconv.Itoa(n),
		CourseName:  subj.Name,
		InviteCode:  strings.ToUpper(uuid.NewString()[:8]),
		Subject:     &subj,
		Teacher:     &teacher,
		Department:  subj.Department,
		Schedules: []class.Schedule{
			{Day: day, StartTime: fmt.Sprintf("%02d:00", start), EndTime: fmt.Sprintf("%02d:30", start+1)},
		},
		CreatedAt: epoch.Add(time.Duration(n) * 24 * time.Hour),
	}
	if n%3 == 0 {
		cls.BannerURL = fmt.Sprintf("https://images.masomo.cd/banners/%d.png", n)
	}
	return cls
}
