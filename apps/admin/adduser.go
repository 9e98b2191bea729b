package main

import (
	"context"
	"fmt"

	"github.com/trezcool/masomo-admin/core/user"
)

// addUser validates nu against the user policies, then creates the user.
func (cli *commandLine) addUser(ctx context.Context, nu user.NewUser) error {
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(ctx, nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created %s %q (id %d)\n", usr.Role, usr.Email, usr.ID)
	return nil
}
