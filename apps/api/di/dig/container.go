package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/masomo-admin/apps/api/echo"
	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/class"
	"github.com/trezcool/masomo-admin/core/dashboard"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/refdata"
	"github.com/trezcool/masomo-admin/core/resource"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/user"
	emailsvc "github.com/trezcool/masomo-admin/services/email"
	logsvc "github.com/trezcool/masomo-admin/services/logger"
	"github.com/trezcool/masomo-admin/storage/database"
	inmemdb "github.com/trezcool/masomo-admin/storage/database/inmem"
	sqlxrepos "github.com/trezcool/masomo-admin/storage/database/sqlx"
	"github.com/trezcool/masomo-admin/storage/seed"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Storage holds the repositories of the configured store and releases it on Close.
	Storage struct {
		Repos seed.Repositories
		Close func() error
	}

	serverParams struct {
		dig.In

		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Routes     *resource.Table
		UserSvc    *user.Service
		ClassSvc   *class.Service
		SubjectSvc *subject.Service
		DeptSvc    *department.Service
		Dashboard  *dashboard.Service
		Subjects   *refdata.Fetcher[subject.Subject]
		Teachers   *refdata.Fetcher[user.User]
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newStorage opens postgres (creating and migrating the database when needed), or a seeded
// in-memory store when database_inMemory is set.
func newStorage(conf *core.Config, loggerParam DBLoggerParam) *Storage {
	logger := loggerParam.Logger
	ctx := context.Background()

	if conf.Database.InMemory {
		db := inmemdb.Open()
		repos := seed.Repositories{
			Departments: inmemdb.NewDepartmentRepository(db),
			Subjects:    inmemdb.NewSubjectRepository(db),
			Users:       inmemdb.NewUserRepository(db),
			Classes:     inmemdb.NewClassRepository(db),
		}
		report, err := seed.Run(ctx, repos, seed.Options{
			AdminEmail:    conf.SeedAdminEmail,
			AdminPassword: conf.SeedAdminPassword,
		})
		if err != nil {
			logger.Fatal(fmt.Sprintf("seeding in-memory store: %v", err), err)
		}
		logger.Info(fmt.Sprintf("in-memory store seeded: %+v", report))
		return &Storage{Repos: repos, Close: func() error { return nil }}
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = database.Ping(ctx, db); err != nil {
			return nil, err
		}
		if err = database.Migrate(ctx, db, "up"); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return &Storage{
		Repos: seed.Repositories{
			Departments: sqlxrepos.NewDepartmentRepository(db),
			Subjects:    sqlxrepos.NewSubjectRepository(db),
			Users:       sqlxrepos.NewUserRepository(db),
			Classes:     sqlxrepos.NewClassRepository(db),
		},
		Close: db.Close,
	}
}

func newValidator(logger core.Logger) (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	class.InitValidators(validate, translator)
	user.LoadCommonPasswords(logger)
	return validate, translator
}

func newDashboard(logger core.Logger, st *Storage) *dashboard.Service {
	repos := st.Repos
	return dashboard.NewService(logger,
		dashboard.Card{Name: department.ResourceName, Label: "Departments", Counter: dashboard.CountOf[department.Department](repos.Departments, department.ResourceName)},
		dashboard.Card{Name: subject.ResourceName, Label: "Subjects", Counter: dashboard.CountOf[subject.Subject](repos.Subjects, subject.ResourceName)},
		dashboard.Card{Name: class.ResourceName, Label: "Classes", Counter: dashboard.CountOf[class.Class](repos.Classes, class.ResourceName)},
		dashboard.Card{Name: "teachers", Label: "Teachers", Counter: dashboard.CountOf[user.User](repos.Users, user.ResourceName, user.TeacherFilter)},
	)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.Options{
		Address:         p.Conf.Server.Address,
		Debug:           p.Conf.Debug,
		TestMode:        p.Conf.TestMode,
		Logger:          p.Logger,
		Validate:        p.Validate,
		Translator:      p.Translator,
		Auth:            echoapi.NewAuthenticator(p.Conf),
		Routes:          p.Routes,
		ListPageSize:    p.Conf.ListPageSize,
		OptionsPageSize: p.Conf.OptionsPageSize,
		UserSvc:         p.UserSvc,
		ClassSvc:        p.ClassSvc,
		SubjectSvc:      p.SubjectSvc,
		DepartmentSvc:   p.DeptSvc,
		Dashboard:       p.Dashboard,
		Subjects:        p.Subjects,
		Teachers:        p.Teachers,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(func(st *Storage) department.Repository { return st.Repos.Departments }))
	must(c.Provide(func(st *Storage) subject.Repository { return st.Repos.Subjects }))
	must(c.Provide(func(st *Storage) user.Repository { return st.Repos.Users }))
	must(c.Provide(func(st *Storage) class.Repository { return st.Repos.Classes }))
	must(c.Provide(emailsvc.NewService))
	must(c.Provide(newValidator))
	must(c.Provide(resource.Default))
	must(c.Provide(user.NewService))
	must(c.Provide(class.NewService))
	must(c.Provide(subject.NewService))
	must(c.Provide(department.NewService))
	must(c.Provide(func(repo subject.Repository, logger core.Logger) *refdata.Fetcher[subject.Subject] {
		return refdata.NewFetcher[subject.Subject](repo, logger)
	}))
	must(c.Provide(func(repo user.Repository, logger core.Logger) *refdata.Fetcher[user.User] {
		return refdata.NewFetcher[user.User](repo, logger)
	}))
	must(c.Provide(newDashboard))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
