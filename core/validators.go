package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptBRTranslations "github.com/go-playground/validator/v10/translations/pt_BR"
)

var (
	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "este campo não pode ficar em branco"

	inepTag   = "inep"
	inepText  = "o código INEP deve conter exatamente 8 dígitos"
	inepRegex = regexp.MustCompile(`^\d{8}$`)

	disciplinaTag  = "disciplina"
	disciplinaText = "disciplina inválida"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredIfText  = "este campo é obrigatório"
)

// NewTranslator returns the pt-BR translator used for validation messages.
func NewTranslator() ut.Translator {
	ptBR := pt_BR.New()
	uni := ut.New(ptBR, ptBR)
	translator, _ := uni.GetTranslator("pt_BR")
	return translator
}

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = ptBRTranslations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(validate, translator, notBlankTag, notBlankText)

	_ = validate.RegisterValidation(inepTag, inepValidation)
	RegisterCustomTranslation(validate, translator, inepTag, inepText)

	_ = validate.RegisterValidation(disciplinaTag, disciplinaValidation)
	RegisterCustomTranslation(validate, translator, disciplinaTag, disciplinaText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredIfText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredIfText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidationFields flattens validator errors into FieldErrors translated with translator.
func ValidationFields(err validator.ValidationErrors, translator ut.Translator) []FieldError {
	flds := make([]FieldError, 0, len(err))
	for _, vErr := range err {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
	}
	return flds
}

// Custom Global Validators

// notBlankValidation rejects strings made only of whitespace.
func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func inepValidation(fl validator.FieldLevel) bool {
	return inepRegex.MatchString(fl.Field().String())
}

func disciplinaValidation(fl validator.FieldLevel) bool {
	return Disciplina(fl.Field().String()).IsValid()
}
