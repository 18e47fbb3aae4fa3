package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	notFound := NewNotFoundError("escola")
	assert.EqualError(t, notFound, "escola not found")
	assert.True(t, IsNotFound(errors.Wrap(notFound, "getting escola")))
	assert.False(t, IsNotFound(errors.New("lol")))

	conflict := NewConflictError("escola possui turmas")
	assert.EqualError(t, conflict, "o registro é referenciado por outros registros: escola possui turmas")
	assert.True(t, IsConflict(errors.Wrap(conflict, "deleting escola")))
	assert.False(t, IsConflict(notFound))

	assert.True(t, IsShutdown(errors.Wrap(NewShutdownError("bye"), "serving")))
	assert.False(t, IsShutdown(conflict))

	verr := NewValidationError(nil, FieldError{Field: "inep", Error: "o código INEP deve conter exatamente 8 dígitos"})
	assert.EqualError(t, verr, "inep: o código INEP deve conter exatamente 8 dígitos")
	assert.EqualError(t, NewValidationError(errors.New("já existe")), "já existe")
	assert.EqualError(t, NewValidationError(nil), "")
}
