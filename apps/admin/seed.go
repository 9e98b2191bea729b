package main

import (
	"context"
	"fmt"

	"github.com/trezcool/masomo-admin/storage/seed"
)

func (cli *commandLine) seed(ctx context.Context, opts seed.Options) error {
	report, err := seed.Run(ctx, cli.repos, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "seeded %d departments, %d subjects, %d users, %d classes\n",
		report.Departments, report.Subjects, report.Users, report.Classes)
	return nil
}
