package turma

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/smaipa/smaipa/core"
)

var (
	turnoTag  = "turno"
	turnoText = "turno inválido: use matutino, vespertino, noturno ou integral"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(turnoTag, turnoValidation)
	core.RegisterCustomTranslation(validate, translator, turnoTag, turnoText)
}

func turnoValidation(fl validator.FieldLevel) bool {
	return Turno(fl.Field().String()).IsValid()
}
