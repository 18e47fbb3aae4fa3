package usuario

import (
	"bufio"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/smaipa/smaipa/core"
)

var (
	roleTag  = "role"
	roleText = "perfil inválido: use secretaria ou escola"

	escolaRequiredTag  = "escola_obrigatoria"
	escolaRequiredText = "usuários do perfil escola devem informar a escola"

	escolaForbiddenTag  = "escola_proibida"
	escolaForbiddenText = "usuários da secretaria não pertencem a uma escola"

	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "senhamin"
	pwdMinLenText = fmt.Sprintf("a senha deve conter pelo menos %d caracteres", pwdMinLen)

	pwdNoSpaceTag  = "senhasemespaco"
	pwdNoSpaceText = "a senha não pode conter espaços"

	pwdNotAllNumTag  = "senhanaonumerica"
	pwdNotAllNumText = "a senha não pode ser inteiramente numérica"

	pwdComplexityTag  = "senhacomplexa"
	pwdComplexityText = "a senha deve conter ao menos 1 letra maiúscula, 1 letra minúscula, 1 dígito e 1 caractere especial"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimTag  = "senhasimilar"
	pwdAttrSimText = "a senha não pode ser parecida com o nome ou o e-mail"

	pwdNoCommonTag  = "senhacomum"
	pwdNoCommonText = "a senha é muito comum"

	passwordTexts = map[string]string{
		pwdMinLenTag:     pwdMinLenText,
		pwdNoSpaceTag:    pwdNoSpaceText,
		pwdNotAllNumTag:  pwdNotAllNumText,
		pwdComplexityTag: pwdComplexityText,
		pwdAttrSimTag:    pwdAttrSimText,
		pwdNoCommonTag:   pwdNoCommonText,
	}

	commonPasswords   []string
	commonPasswordsMu sync.RWMutex
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	validate.RegisterStructValidation(newUsuarioStructValidation, NewUsuario{})
	core.RegisterCustomTranslation(validate, translator, escolaRequiredTag, escolaRequiredText)
	core.RegisterCustomTranslation(validate, translator, escolaForbiddenTag, escolaForbiddenText)
	for tag, text := range passwordTexts {
		core.RegisterCustomTranslation(validate, translator, tag, text)
	}
}

// LoadCommonPasswords reads the lower-cased, newline separated list of passwords refused by the policy.
func LoadCommonPasswords(fsys fs.FS, name string, logger core.Logger) {
	f, err := fsys.Open(name)
	if err != nil {
		logger.Error("usuario.LoadCommonPasswords: opening "+name, err)
		return
	}
	defer f.Close()

	pwds := make([]string, 0, 256)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if pwd := strings.TrimSpace(scanner.Text()); pwd != "" {
			pwds = append(pwds, strings.ToLower(pwd))
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("usuario.LoadCommonPasswords: reading "+name, err)
		return
	}
	sort.Strings(pwds)

	commonPasswordsMu.Lock()
	commonPasswords = pwds
	commonPasswordsMu.Unlock()
}

func isCommonPassword(pwd string) bool {
	commonPasswordsMu.RLock()
	defer commonPasswordsMu.RUnlock()
	lpwd := strings.ToLower(pwd)
	idx := sort.SearchStrings(commonPasswords, lpwd)
	return idx < len(commonPasswords) && commonPasswords[idx] == lpwd
}

// newUsuarioStructValidation does struct level validation on NewUsuario.
func newUsuarioStructValidation(sl validator.StructLevel) {
	nu, ok := sl.Current().Interface().(NewUsuario)
	if !ok {
		return
	}
	if tag := escolaRuleTag(nu.Role, nu.EscolaID); tag != "" {
		sl.ReportError(nu.EscolaID, "escolaId", "EscolaID", tag, "")
	}
	if nu.Senha != "" {
		if tag := passwordPolicyTag(nu.Senha, nu.Nome, nu.Email); tag != "" {
			sl.ReportError(nu.Senha, "senha", "Senha", tag, "")
		}
	}
}

func escolaRuleTag(role Role, escolaID string) string {
	switch {
	case role == RoleEscola && escolaID == "":
		return escolaRequiredTag
	case role == RoleSecretaria && escolaID != "":
		return escolaForbiddenTag
	}
	return ""
}

func checkEscolaRule(role Role, escolaID string) (core.FieldError, bool) {
	switch escolaRuleTag(role, escolaID) {
	case escolaRequiredTag:
		return core.FieldError{Field: "escolaId", Error: escolaRequiredText}, false
	case escolaForbiddenTag:
		return core.FieldError{Field: "escolaId", Error: escolaForbiddenText}, false
	}
	return core.FieldError{}, true
}

// checkPassword returns the policy violation message for pwd, or "" when pwd is acceptable.
func checkPassword(pwd, nome, email string) string {
	return passwordTexts[passwordPolicyTag(pwd, nome, email)]
}

// passwordPolicyTag applies the password policy to pwd:
// - minLen: 8
// - no whitespace
// - no all numeric
// - complexity: 1 upper, 1 lower, 1 digit, 1 special
// - no similarity with nome or email
// - no common password
func passwordPolicyTag(pwd, nome, email string) string {
	var (
		digitCount         int
		hasUpper, hasLower bool
	)

	runes := []rune(pwd)
	if len(runes) < pwdMinLen {
		return pwdMinLenTag
	}
	for _, char := range runes {
		if unicode.IsSpace(char) {
			return pwdNoSpaceTag
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if unicode.IsUpper(char) {
			hasUpper = true
		}
		if unicode.IsLower(char) {
			hasLower = true
		}
	}

	if digitCount == len(runes) {
		return pwdNotAllNumTag
	}
	if !(hasUpper && hasLower && digitCount > 0 && specialRegex.MatchString(pwd)) {
		return pwdComplexityTag
	}

	getRatio := func(pass, attr string) float64 {
		if attr == "" {
			return 0
		}
		pass, attr = strings.ToLower(pass), strings.ToLower(attr)
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(attr, "")).QuickRatio()
	}
	emailUser := email
	if at := strings.Index(email, "@"); at > 0 {
		emailUser = email[:at]
	}
	if getRatio(pwd, nome) >= pwdMaxSim || getRatio(pwd, email) >= pwdMaxSim || getRatio(pwd, emailUser) >= pwdMaxSim {
		return pwdAttrSimTag
	}

	if isCommonPassword(pwd) {
		return pwdNoCommonTag
	}
	return ""
}
