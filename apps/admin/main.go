package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/user"
	logsvc "github.com/trezcool/masomo-admin/services/logger"
	"github.com/trezcool/masomo-admin/storage/database"
	inmemdb "github.com/trezcool/masomo-admin/storage/database/inmem"
	sqlxrepos "github.com/trezcool/masomo-admin/storage/database/sqlx"
	"github.com/trezcool/masomo-admin/storage/seed"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	ctx := context.Background()
	cli, closeDB, err := newCommandLine(ctx, conf, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up: %v", err), err)
	}

	err = cli.run(ctx, os.Args)
	if cerr := closeDB(); cerr != nil {
		logger.Error("Failed to close database", cerr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}

func newCommandLine(ctx context.Context, conf *core.Config, logger core.Logger) (*commandLine, func() error, error) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	user.LoadCommonPasswords(logger)

	cli := &commandLine{validate: validate, out: os.Stdout}
	closeDB := func() error { return nil }

	if conf.Database.InMemory {
		db := inmemdb.Open()
		cli.repos = seed.Repositories{
			Departments: inmemdb.NewDepartmentRepository(db),
			Subjects:    inmemdb.NewSubjectRepository(db),
			Users:       inmemdb.NewUserRepository(db),
			Classes:     inmemdb.NewClassRepository(db),
		}
	} else {
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, nil, err
		}
		db, err := database.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		if err = database.Ping(ctx, db); err != nil {
			return nil, nil, err
		}
		cli.db = db
		cli.repos = repositories(db)
		closeDB = db.Close
	}
	cli.usrSvc = user.NewService(cli.repos.Users)
	return cli, closeDB, nil
}

func repositories(db *sqlx.DB) seed.Repositories {
	return seed.Repositories{
		Departments: sqlxrepos.NewDepartmentRepository(db),
		Subjects:    sqlxrepos.NewSubjectRepository(db),
		Users:       sqlxrepos.NewUserRepository(db),
		Classes:     sqlxrepos.NewClassRepository(db),
	}
}
