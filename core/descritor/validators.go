package descritor

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/smaipa/smaipa/core"
)

var (
	tipoTag  = "descritor_tipo"
	tipoText = "tipo inválido: use inicial, final, DIAGNOSTICA_INICIAL ou DIAGNOSTICA_FINAL"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(tipoTag, func(fl validator.FieldLevel) bool {
		return Tipo(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, tipoTag, tipoText)
}
