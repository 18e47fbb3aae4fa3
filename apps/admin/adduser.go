package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/usuario"
)

// addUser creates a usuario the same way the API does, welcome e-mail included.
func (cli *commandLine) addUser(nu usuario.NewUsuario) error {
	if err := nu.Validate(cli.validate); err != nil {
		return cli.validationError(err)
	}

	u, err := cli.usuarioSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "usuario %s <%s> created (%s)\n", u.Nome, u.Email, usuario.RoleLabel(u.Role))
	return nil
}

// validationError translates validator errors to field messages.
func (cli *commandLine) validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return core.NewValidationError(nil, core.ValidationFields(verrs, cli.translator)...)
	}
	return err
}
