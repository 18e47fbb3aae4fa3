package main

import (
	"context"
	"fmt"

	"github.com/smaipa/smaipa/core/usuario"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	u, err := cli.usuarioSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := usuario.ValidatePassword(pwd, u); err != nil {
		return err
	}
	if err := cli.usuarioSvc.ResetPassword(ctx, u, pwd); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "password of %s reset\n", u.Email)
	return nil
}
