package usuario

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/escola"
)

type Role string

// Roles
const (
	RoleSecretaria Role = "secretaria"
	RoleEscola     Role = "escola"
)

var (
	Roles = []Role{RoleSecretaria, RoleEscola}

	roleLabels = map[Role]string{
		RoleSecretaria: "Secretaria",
		RoleEscola:     "Escola",
	}

	OrderingFields = core.OrderingFields{
		"nome":      "nome",
		"email":     "email",
		"role":      "role",
		"createdAt": "created_at",
		"lastLogin": "last_login",
	}
)

func (r Role) IsValid() bool {
	_, ok := roleLabels[r]
	return ok
}

func LookupRoleLabel(r Role) (string, bool) {
	label, ok := roleLabels[r]
	return label, ok
}

func RoleLabel(r Role) string {
	if label, ok := LookupRoleLabel(r); ok {
		return label
	}
	return core.UnknownLabel(string(r))
}

type Usuario struct {
	ID           string          `json:"id"`
	Nome         string          `json:"nome"`
	Email        string          `json:"email"`
	Role         Role            `json:"role"`
	EscolaID     string          `json:"escolaId,omitempty"`
	Escola       *escola.Summary `json:"escola,omitempty"`
	PasswordHash []byte          `json:"-"`
	LastLogin    *time.Time      `json:"lastLogin,omitempty"` // UTC
	CreatedAt    time.Time       `json:"createdAt"`           // UTC
	UpdatedAt    time.Time       `json:"updatedAt"`           // UTC
}

func (u *Usuario) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *Usuario) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u Usuario) IsSecretaria() bool { return u.Role == RoleSecretaria }

// CanAccessEscola reports whether u may act on records of the escola escolaID.
func (u Usuario) CanAccessEscola(escolaID string) bool {
	return u.IsSecretaria() || (u.EscolaID != "" && u.EscolaID == escolaID)
}

func (u Usuario) LoggedUser() core.LoggedUser {
	return core.LoggedUser{ID: u.ID, Nome: u.Nome, Email: u.Email}
}

// NewUsuario contains information needed to create a new Usuario.
// EscolaID is required iff Role is escola.
type NewUsuario struct {
	Nome     string `json:"nome" validate:"notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Role     Role   `json:"role" validate:"required,role"`
	EscolaID string `json:"escolaId,omitempty" validate:"omitempty,uuid"`
	Senha    string `json:"senha" validate:"required"`
}

func (nu *NewUsuario) Validate(validate *validator.Validate) error {
	nu.Nome = core.CleanString(nu.Nome)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))
	nu.EscolaID = core.CleanString(nu.EscolaID)
	return validate.Struct(nu)
}

// UpdateUsuario defines what information may be provided to modify an existing Usuario.
// An empty EscolaID detaches the usuario from its escola.
type UpdateUsuario struct {
	Nome     *string `json:"nome,omitempty" validate:"omitempty,notblank,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,role"`
	EscolaID *string `json:"escolaId,omitempty" validate:"omitempty,uuid"`
	Senha    *string `json:"senha,omitempty"`
}

// Validate checks the patch and the record it would produce when applied to orig.
func (uu *UpdateUsuario) Validate(orig Usuario, validate *validator.Validate) error {
	uu.Nome = core.CleanStringPtr(uu.Nome)
	uu.Email = core.CleanStringPtr(uu.Email, true /* lower */)
	uu.EscolaID = core.CleanStringPtr(uu.EscolaID)
	if uu.Role != nil {
		role := Role(core.CleanString(string(*uu.Role), true /* lower */))
		uu.Role = &role
	}
	// "" detaches; the escola rule below decides whether that is allowed
	escolaID := uu.EscolaID
	if escolaID != nil && *escolaID == "" {
		uu.EscolaID = nil
	}
	err := validate.Struct(uu)
	uu.EscolaID = escolaID
	if err != nil {
		return err
	}

	merged := uu.Apply(orig)
	var flds []core.FieldError
	if fe, ok := checkEscolaRule(merged.Role, merged.EscolaID); !ok {
		flds = append(flds, fe)
	}
	if uu.Senha != nil {
		if msg := checkPassword(*uu.Senha, merged.Nome, merged.Email); msg != "" {
			flds = append(flds, core.FieldError{Field: "senha", Error: msg})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

func (uu UpdateUsuario) Apply(u Usuario) Usuario {
	if uu.Nome != nil {
		u.Nome = *uu.Nome
	}
	if uu.Email != nil {
		u.Email = *uu.Email
	}
	if uu.Role != nil {
		u.Role = *uu.Role
		if u.Role == RoleSecretaria && uu.EscolaID == nil {
			u.EscolaID = ""
		}
	}
	if uu.EscolaID != nil && *uu.EscolaID != u.EscolaID {
		u.EscolaID = *uu.EscolaID
		u.Escola = nil
	}
	if u.EscolaID == "" {
		u.Escola = nil
	}
	return u
}

type QueryFilter struct {
	Search   string   `query:"search"`
	Role     Role     `query:"role"`
	EscolaID string   `query:"escolaId"`
	IDs      []string `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = Role(core.CleanString(string(qf.Role), true /* lower */))
	qf.EscolaID = core.CleanString(qf.EscolaID)
}

func (qf *QueryFilter) Matches(u Usuario) bool {
	if qf == nil {
		return true
	}
	if qf.IDs != nil {
		var found bool
		for _, id := range qf.IDs {
			if id == u.ID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if qf.Role != "" && u.Role != qf.Role {
		return false
	}
	if qf.EscolaID != "" && u.EscolaID != qf.EscolaID {
		return false
	}
	return core.ContainsFolded(qf.Search, u.Nome, u.Email)
}
