package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/usuario"
)

var usuarioKeys = map[string]sortKey[usuario.Usuario]{
	"nome":      func(u usuario.Usuario) string { return u.Nome },
	"email":     func(u usuario.Usuario) string { return u.Email },
	"role":      func(u usuario.Usuario) string { return string(u.Role) },
	"createdAt": func(u usuario.Usuario) string { return timeKey(u.CreatedAt) },
	"lastLogin": func(u usuario.Usuario) string {
		if u.LastLogin == nil {
			return ""
		}
		return timeKey(*u.LastLogin)
	},
}

type usuarioRepository struct {
	db *DB
}

var _ usuario.Repository = (*usuarioRepository)(nil)

func NewUsuarioRepository(db *DB) usuario.Repository {
	return &usuarioRepository{db: db}
}

// withEscola fills the escola summary. Callers must hold the lock.
func (repo *usuarioRepository) withEscola(u usuario.Usuario) usuario.Usuario {
	u.Escola = nil
	if esc, ok := repo.db.escolas[u.EscolaID]; ok {
		u.Escola = esc.Summary()
	}
	return u
}

func (repo *usuarioRepository) checkEscola(u usuario.Usuario) error {
	if u.EscolaID == "" {
		return nil
	}
	if _, ok := repo.db.escolas[u.EscolaID]; !ok {
		return core.NewConflictError("escola inexistente")
	}
	return nil
}

func (repo *usuarioRepository) CheckEmailUniqueness(_ context.Context, email string, excludedIDs []string, _ ...core.DBExecutor) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if repo.emailTaken(email, excludedIDs...) {
		return usuario.ErrEmailExists
	}
	return nil
}

// emailTaken mirrors the unique constraint on email. Callers must hold the lock.
func (repo *usuarioRepository) emailTaken(email string, excludedIDs ...string) bool {
	for _, u := range repo.db.usuarios {
		if u.Email == email && !isExcluded(u.ID, excludedIDs) {
			return true
		}
	}
	return false
}

func (repo *usuarioRepository) CreateUsuario(_ context.Context, u usuario.Usuario, _ ...core.DBExecutor) (usuario.Usuario, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if err := repo.checkEscola(u); err != nil {
		return usuario.Usuario{}, err
	}
	if repo.emailTaken(u.Email) {
		return usuario.Usuario{}, core.NewUniqueValueError(usuario.ErrEmailExists, "email")
	}
	u.ID = uuid.New().String()
	u.Escola = nil
	repo.db.usuarios[u.ID] = u
	return repo.withEscola(u), nil
}

func (repo *usuarioRepository) QueryUsuarios(_ context.Context, filter *usuario.QueryFilter, ordering []core.DBOrdering, _ ...core.DBExecutor) ([]usuario.Usuario, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	usuarios := make([]usuario.Usuario, 0, len(repo.db.usuarios))
	for _, u := range repo.db.usuarios {
		if filter.Matches(u) {
			usuarios = append(usuarios, repo.withEscola(u))
		}
	}
	sortRecords(usuarios, ordering, usuarioKeys, []core.DBOrdering{asc("nome")})
	return usuarios, nil
}

func (repo *usuarioRepository) GetUsuarioByID(_ context.Context, id string, _ ...core.DBExecutor) (usuario.Usuario, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if u, ok := repo.db.usuarios[id]; ok {
		return repo.withEscola(u), nil
	}
	return usuario.Usuario{}, usuario.ErrNotFound
}

func (repo *usuarioRepository) GetUsuarioByEmail(_ context.Context, email string, _ ...core.DBExecutor) (usuario.Usuario, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, u := range repo.db.usuarios {
		if u.Email == email {
			return repo.withEscola(u), nil
		}
	}
	return usuario.Usuario{}, usuario.ErrNotFound
}

func (repo *usuarioRepository) UpdateUsuario(_ context.Context, u usuario.Usuario, _ ...core.DBExecutor) (usuario.Usuario, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.usuarios[u.ID]; !ok {
		return usuario.Usuario{}, usuario.ErrNotFound
	}
	if err := repo.checkEscola(u); err != nil {
		return usuario.Usuario{}, err
	}
	if repo.emailTaken(u.Email, u.ID) {
		return usuario.Usuario{}, core.NewUniqueValueError(usuario.ErrEmailExists, "email")
	}
	u.Escola = nil
	repo.db.usuarios[u.ID] = u
	return repo.withEscola(u), nil
}

func (repo *usuarioRepository) DeleteUsuarioByID(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.usuarios[id]; !ok {
		return usuario.ErrNotFound
	}
	delete(repo.db.usuarios, id)
	return nil
}
