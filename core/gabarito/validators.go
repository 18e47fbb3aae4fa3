package gabarito

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slices"

	"github.com/smaipa/smaipa/core"
)

var (
	respostaTag  = "resposta"
	respostaText = "resposta inválida: use A, B, C, D ou E"

	numeroUnicoTag  = "numero_unico"
	numeroUnicoText = "os itens devem ter números distintos"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(respostaTag, func(fl validator.FieldLevel) bool {
		return slices.Contains(Respostas, fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, respostaTag, respostaText)

	validate.RegisterStructValidation(gabaritoStructValidation, NewGabarito{}, UpdateGabarito{})
	core.RegisterCustomTranslation(validate, translator, numeroUnicoTag, numeroUnicoText)
}

// gabaritoStructValidation rejects itens sharing the same numero.
func gabaritoStructValidation(sl validator.StructLevel) {
	var itens []NewItem
	switch g := sl.Current().Interface().(type) {
	case NewGabarito:
		itens = g.Itens
	case UpdateGabarito:
		itens = g.Itens
	}

	seen := make(map[int]bool, len(itens))
	for _, it := range itens {
		if seen[it.Numero] {
			sl.ReportError(itens, "itens", "Itens", numeroUnicoTag, "")
			return
		}
		seen[it.Numero] = true
	}
}
