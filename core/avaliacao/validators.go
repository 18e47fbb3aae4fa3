package avaliacao

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/smaipa/smaipa/core"
)

var (
	statusTag  = "avaliacao_status"
	statusText = "status inválido: use pendente, em_andamento ou finalizada"

	tipoTag  = "avaliacao_tipo"
	tipoText = "tipo inválido: use DIAGNOSTICA_INICIAL ou DIAGNOSTICA_FINAL"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	_ = validate.RegisterValidation(tipoTag, func(fl validator.FieldLevel) bool {
		return Tipo(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, tipoTag, tipoText)
}
