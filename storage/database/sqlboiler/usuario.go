package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/usuario"
)

const usuarioSelect = "u.id, u.nome, u.email, u.role, u.escola_id, u.password_hash, u.last_login, u.created_at, u.updated_at, " +
	"e.nome AS escola_nome, e.inep AS escola_inep"

type usuarioRow struct {
	ID           string      `boil:"id"`
	Nome         string      `boil:"nome"`
	Email        string      `boil:"email"`
	Role         string      `boil:"role"`
	EscolaID     null.String `boil:"escola_id"`
	PasswordHash []byte      `boil:"password_hash"`
	LastLogin    null.Time   `boil:"last_login"`
	CreatedAt    time.Time   `boil:"created_at"`
	UpdatedAt    time.Time   `boil:"updated_at"`
	EscolaNome   null.String `boil:"escola_nome"`
	EscolaInep   null.String `boil:"escola_inep"`
}

type usuarioRepository struct {
	execGetter
}

var _ usuario.Repository = (*usuarioRepository)(nil) // interface compliance check

func NewUsuarioRepository(exec core.DBExecutor) usuario.Repository {
	return &usuarioRepository{execGetter{exec: exec}}
}

func (repo usuarioRepository) unboil(row *usuarioRow) usuario.Usuario {
	if row == nil {
		return usuario.Usuario{}
	}
	u := usuario.Usuario{
		ID:           row.ID,
		Nome:         row.Nome,
		Email:        row.Email,
		Role:         usuario.Role(row.Role),
		EscolaID:     row.EscolaID.String,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if row.LastLogin.Valid {
		lastLogin := row.LastLogin.Time.UTC()
		u.LastLogin = &lastLogin
	}
	if row.EscolaID.Valid && row.EscolaNome.Valid {
		u.Escola = &escola.Summary{ID: row.EscolaID.String, Nome: row.EscolaNome.String, Inep: row.EscolaInep.String}
	}
	return u
}

func (repo usuarioRepository) baseMods() []qm.QueryMod {
	return []qm.QueryMod{
		qm.Select(usuarioSelect),
		qm.From("usuarios u"),
		qm.LeftOuterJoin("escolas e ON e.id = u.escola_id"),
	}
}

func (repo usuarioRepository) getOne(ctx context.Context, exec core.DBExecutor, mods ...qm.QueryMod) (usuario.Usuario, error) {
	var row usuarioRow
	if err := NewQuery(append(repo.baseMods(), mods...)...).Bind(ctx, exec, &row); err != nil {
		return usuario.Usuario{}, trapErr(err, usuario.ErrNotFound, "finding usuario")
	}
	return repo.unboil(&row), nil
}

func (repo usuarioRepository) lastLogin(u usuario.Usuario) null.Time {
	if u.LastLogin == nil {
		return null.Time{}
	}
	return null.TimeFrom(u.LastLogin.UTC())
}

func (repo usuarioRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs []string, exec ...core.DBExecutor) error {
	mods := appendMods([]qm.QueryMod{qm.Where("email = ?", email)}, excludeIDs("id", excludedIDs))
	found, err := exists(ctx, repo.getExec(exec), "usuarios", mods...)
	if err != nil {
		return trapErr(err, usuario.ErrNotFound, "checking email uniqueness")
	}
	if found {
		return usuario.ErrEmailExists
	}
	return nil
}

func (repo usuarioRepository) CreateUsuario(ctx context.Context, u usuario.Usuario, exec ...core.DBExecutor) (usuario.Usuario, error) {
	u.ID = uuid.New().String()
	_, err := queries.Raw(
		"INSERT INTO usuarios (id, nome, email, role, escola_id, password_hash, last_login, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		u.ID, u.Nome, u.Email, string(u.Role), nullString(u.EscolaID), u.PasswordHash, repo.lastLogin(u),
		u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return usuario.Usuario{}, trapErr(err, usuario.ErrNotFound, "inserting usuario")
	}
	return repo.GetUsuarioByID(ctx, u.ID, exec...)
}

func (repo usuarioRepository) QueryUsuarios(ctx context.Context, filter *usuario.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]usuario.Usuario, error) {
	mods := repo.baseMods()
	if filter != nil {
		if filter.Search != "" {
			mods = append(mods, searchMod(filter.Search, "u.nome", "u.email"))
		}
		if filter.Role != "" {
			mods = append(mods, qm.Where("u.role = ?", string(filter.Role)))
		}
		if filter.EscolaID != "" {
			if _, err := uuid.Parse(filter.EscolaID); err != nil {
				return []usuario.Usuario{}, nil
			}
			mods = append(mods, qm.Where("u.escola_id = ?", filter.EscolaID))
		}
		if filter.IDs != nil {
			mods = append(mods, includeIDs("u.id", filter.IDs))
		}
	}
	cols := usuario.OrderingFields.Columns(ordering)
	for i := range cols {
		cols[i].Field = "u." + cols[i].Field
	}
	if len(cols) == 0 {
		mods = append(mods, qm.OrderBy("u.nome ASC"))
	} else {
		mods = append(mods, qm.OrderBy(core.OrderBy(cols)))
	}

	var rows []*usuarioRow
	if err := NewQuery(mods...).Bind(ctx, repo.getExec(exec), &rows); err != nil {
		return nil, trapErr(err, usuario.ErrNotFound, "querying usuarios")
	}
	usuarios := make([]usuario.Usuario, 0, len(rows))
	for _, row := range rows {
		usuarios = append(usuarios, repo.unboil(row))
	}
	return usuarios, nil
}

func (repo usuarioRepository) GetUsuarioByID(ctx context.Context, id string, exec ...core.DBExecutor) (usuario.Usuario, error) {
	if _, err := uuid.Parse(id); err != nil {
		return usuario.Usuario{}, usuario.ErrNotFound
	}
	return repo.getOne(ctx, repo.getExec(exec), qm.Where("u.id = ?", id))
}

func (repo usuarioRepository) GetUsuarioByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (usuario.Usuario, error) {
	return repo.getOne(ctx, repo.getExec(exec), qm.Where("u.email = ?", email))
}

func (repo usuarioRepository) UpdateUsuario(ctx context.Context, u usuario.Usuario, exec ...core.DBExecutor) (usuario.Usuario, error) {
	res, err := queries.Raw(
		"UPDATE usuarios SET nome = $2, email = $3, role = $4, escola_id = $5, password_hash = $6, last_login = $7, updated_at = $8 "+
			"WHERE id = $1",
		u.ID, u.Nome, u.Email, string(u.Role), nullString(u.EscolaID), u.PasswordHash, repo.lastLogin(u), u.UpdatedAt.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return usuario.Usuario{}, trapErr(err, usuario.ErrNotFound, "updating usuario")
	}
	if err = checkAffected(res, usuario.ErrNotFound); err != nil {
		return usuario.Usuario{}, err
	}
	return repo.GetUsuarioByID(ctx, u.ID, exec...)
}

func (repo usuarioRepository) DeleteUsuarioByID(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return usuario.ErrNotFound
	}
	res, err := queries.Raw("DELETE FROM usuarios WHERE id = $1", id).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return trapErr(err, usuario.ErrNotFound, "deleting usuario")
	}
	return checkAffected(res, usuario.ErrNotFound)
}
