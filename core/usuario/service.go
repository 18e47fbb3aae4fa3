package usuario

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/escola"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("usuário")
	ErrEmailExists = errors.New("já existe um usuário com este e-mail")

	errEscolaNotFound = "escola não encontrada"

	// mockable
	nowFunc = func() time.Time { return time.Now().UTC() }
)

const (
	welcomeTemplate       = "boas_vindas"
	passwordResetTemplate = "senha_redefinida"
	resetRequestTemplate  = "redefinir_senha"
)

type (
	// Repository fills Usuario.Escola on every read.
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedIDs []string, exec ...core.DBExecutor) error
		CreateUsuario(ctx context.Context, u Usuario, exec ...core.DBExecutor) (Usuario, error)
		QueryUsuarios(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Usuario, error)
		GetUsuarioByID(ctx context.Context, id string, exec ...core.DBExecutor) (Usuario, error)
		GetUsuarioByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (Usuario, error)
		UpdateUsuario(ctx context.Context, u Usuario, exec ...core.DBExecutor) (Usuario, error)
		DeleteUsuarioByID(ctx context.Context, id string, exec ...core.DBExecutor) error
	}

	Service interface {
		Create(ctx context.Context, nu NewUsuario) (Usuario, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Usuario, error)
		GetByID(ctx context.Context, id string) (Usuario, error)
		GetByEmail(ctx context.Context, email string) (Usuario, error)
		Update(ctx context.Context, u Usuario, uu UpdateUsuario) (Usuario, error)
		SetLastLogin(ctx context.Context, u Usuario) (Usuario, error)
		ResetPassword(ctx context.Context, u Usuario, senha string) error
		RequestPasswordReset(ctx context.Context, email string) error
		ConfirmPasswordReset(ctx context.Context, uid, token, senha string) error
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo       Repository
		escolaRepo escola.Repository
		mailSvc    core.EmailService
		tokens     ResetTokens
	}

	// Option configures optional behaviour of the Service.
	Option func(*service)

	welcomeData struct {
		Nome   string
		Email  string
		Perfil string
	}

	resetRequestData struct {
		Nome  string
		UID   string
		Token string
	}
)

var _ Service = (*service)(nil)

// WithResetTokens sets how password reset tokens are signed and how long they last.
func WithResetTokens(rt ResetTokens) Option {
	return func(svc *service) {
		svc.tokens = rt
	}
}

func NewService(repo Repository, escolaRepo escola.Repository, mailSvc core.EmailService, opts ...Option) Service {
	svc := &service{
		repo:       repo,
		escolaRepo: escolaRepo,
		mailSvc:    mailSvc,
		tokens:     ResetTokens{Timeout: 3 * 24 * time.Hour},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (svc *service) checkUniqueness(ctx context.Context, email string, excludedIDs ...string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, excludedIDs); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return errors.Wrap(err, "checking email uniqueness")
	}
	return nil
}

func (svc *service) checkEscola(ctx context.Context, escolaID string) error {
	if escolaID == "" {
		return nil
	}
	if _, err := svc.escolaRepo.GetEscolaByID(ctx, escolaID); err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(nil, core.FieldError{Field: "escolaId", Error: errEscolaNotFound})
		}
		return errors.Wrap(err, "finding escola by ID")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nu NewUsuario) (Usuario, error) {
	if err := svc.checkUniqueness(ctx, nu.Email); err != nil {
		return Usuario{}, err
	}
	if err := svc.checkEscola(ctx, nu.EscolaID); err != nil {
		return Usuario{}, err
	}

	now := nowFunc()
	u := Usuario{
		Nome:      nu.Nome,
		Email:     nu.Email,
		Role:      nu.Role,
		EscolaID:  nu.EscolaID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetPassword(nu.Senha); err != nil {
		return Usuario{}, errors.Wrap(err, "setting password")
	}
	u, err := svc.repo.CreateUsuario(ctx, u)
	if err != nil {
		return Usuario{}, err
	}
	svc.mailSvc.SendMessages(welcomeMessage(u))
	return u, nil
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Usuario, error) {
	return svc.repo.QueryUsuarios(ctx, filter, OrderingFields.Allowed(ordering))
}

func (svc *service) GetByID(ctx context.Context, id string) (Usuario, error) {
	return svc.repo.GetUsuarioByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (Usuario, error) {
	return svc.repo.GetUsuarioByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) Update(ctx context.Context, u Usuario, uu UpdateUsuario) (Usuario, error) {
	if uu.Email != nil && *uu.Email != u.Email {
		if err := svc.checkUniqueness(ctx, *uu.Email, u.ID); err != nil {
			return Usuario{}, err
		}
	}
	if uu.EscolaID != nil && *uu.EscolaID != u.EscolaID {
		if err := svc.checkEscola(ctx, *uu.EscolaID); err != nil {
			return Usuario{}, err
		}
	}
	u = uu.Apply(u)
	if uu.Senha != nil {
		if err := u.SetPassword(*uu.Senha); err != nil {
			return Usuario{}, errors.Wrap(err, "setting password")
		}
	}
	u.UpdatedAt = nowFunc()
	return svc.repo.UpdateUsuario(ctx, u)
}

func (svc *service) SetLastLogin(ctx context.Context, u Usuario) (Usuario, error) {
	now := nowFunc()
	u.LastLogin = &now
	return svc.repo.UpdateUsuario(ctx, u)
}

// ResetPassword replaces the password of u and notifies them by e-mail.
// senha must already satisfy the password policy (see ValidatePassword).
func (svc *service) ResetPassword(ctx context.Context, u Usuario, senha string) error {
	if err := u.SetPassword(senha); err != nil {
		return errors.Wrap(err, "setting password")
	}
	u.UpdatedAt = nowFunc()
	if _, err := svc.repo.UpdateUsuario(ctx, u); err != nil {
		return errors.Wrap(err, "updating usuario")
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: u.Nome, Address: u.Email}},
		Subject:      "Sua senha foi redefinida",
		TemplateName: passwordResetTemplate,
		TemplateData: welcomeData{Nome: u.Nome, Email: u.Email, Perfil: RoleLabel(u.Role)},
	})
	return nil
}

// RequestPasswordReset mails a reset link to the owner of email.
// Unknown e-mails are ignored so that callers cannot probe for accounts.
func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if core.IsNotFound(err) {
			return nil
		}
		return errors.Wrap(err, "finding usuario by email")
	}
	token, err := svc.tokens.Make(u)
	if err != nil {
		return errors.Wrap(err, "making reset token")
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: u.Nome, Address: u.Email}},
		Subject:      "Redefinição de senha",
		TemplateName: resetRequestTemplate,
		TemplateData: resetRequestData{Nome: u.Nome, UID: EncodeUID(u), Token: token},
	})
	return nil
}

func (svc *service) ConfirmPasswordReset(ctx context.Context, uid, token, senha string) error {
	id, err := DecodeUID(uid)
	if err != nil {
		return core.NewValidationError(err)
	}
	u, err := svc.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return core.NewValidationError(ErrInvalidToken)
		}
		return errors.Wrap(err, "finding usuario by ID")
	}
	if err := svc.tokens.Verify(u, token); err != nil {
		return core.NewValidationError(err)
	}
	if err := ValidatePassword(senha, u); err != nil {
		return err
	}
	return svc.ResetPassword(ctx, u, senha)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteUsuarioByID(ctx, id)
}

// welcomeMessage never carries the password.
func welcomeMessage(u Usuario) *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: u.Nome, Address: u.Email}},
		Subject:      "Bem-vindo(a)",
		TemplateName: welcomeTemplate,
		TemplateData: welcomeData{Nome: u.Nome, Email: u.Email, Perfil: RoleLabel(u.Role)},
	}
}

// ValidatePassword applies the password policy outside of a payload (e.g. admin password resets).
func ValidatePassword(senha string, u Usuario) error {
	if msg := checkPassword(senha, u.Nome, u.Email); msg != "" {
		return core.NewValidationError(nil, core.FieldError{Field: "senha", Error: msg})
	}
	return nil
}
