package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/masomo-admin/core/user"
	"github.com/trezcool/masomo-admin/storage/database"
	"github.com/trezcool/masomo-admin/storage/seed"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	gooseRunFunc     = database.Migrate  // mockable

	errHelp        = errors.New("help provided")
	errNoDatabase  = errors.New("migrations need a postgres database")
	errPwdMismatch = errors.New("passwords do not match")
	errPwdRequired = errors.New("password required")
)

type commandLine struct {
	db       *sqlx.DB // nil with the in-memory store
	repos    seed.Repositories
	usrSvc   *user.Service
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, version, ...)")
	fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL [-role ROLE] - create a user; the password is prompted next")
	fmt.Fprintln(cli.out, "  seed [-admin-email EMAIL] [-classes N] - load the demo data set")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", user.RoleAdmin, "One of: admin, teacher, student.")

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedAdminEmail := seedCmd.String("admin-email", "", "Also create an administrator. The password will be prompted next.")
	seedClasses := seedCmd.Int("classes", 25, "Number of demo classes.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(true)
		if err != nil {
			return err
		}
		return cli.addUser(ctx, user.NewUser{
			Name:            *addUserName,
			Email:           *addUserEmail,
			Role:            *addUserRole,
			Password:        pwd,
			PasswordConfirm: pwd,
		})

	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		opts := seed.Options{AdminEmail: *seedAdminEmail, ClassCount: *seedClasses}
		if opts.AdminEmail != "" {
			pwd, err := cli.promptPassword(false)
			if err != nil {
				return err
			}
			opts.AdminPassword = pwd
		}
		return cli.seed(ctx, opts)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword(confirm bool) (string, error) {
	read := func(prompt string) ([]byte, error) {
		fmt.Fprint(cli.out, prompt)
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		return pwd, err
	}

	pwd, err := read("Enter password:")
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errPwdRequired
	}
	if confirm {
		again, err := read("Confirm password:")
		if err != nil {
			return "", err
		}
		if string(again) != string(pwd) {
			return "", errPwdMismatch
		}
	}
	return string(pwd), nil
}
