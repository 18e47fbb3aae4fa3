package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/turma"
)

const alunoSelect = "a.id, a.nome, a.matricula, a.turma_id, a.created_at, a.updated_at, " +
	"t.nome AS turma_nome, t.ano AS turma_ano, t.turno AS turma_turno"

type alunoRow struct {
	ID         string      `boil:"id"`
	Nome       string      `boil:"nome"`
	Matricula  string      `boil:"matricula"`
	TurmaID    string      `boil:"turma_id"`
	CreatedAt  time.Time   `boil:"created_at"`
	UpdatedAt  time.Time   `boil:"updated_at"`
	TurmaNome  null.String `boil:"turma_nome"`
	TurmaAno   null.String `boil:"turma_ano"`
	TurmaTurno null.String `boil:"turma_turno"`
}

type alunoRepository struct {
	execGetter
}

var _ aluno.Repository = (*alunoRepository)(nil) // interface compliance check

func NewAlunoRepository(exec core.DBExecutor) aluno.Repository {
	return &alunoRepository{execGetter{exec: exec}}
}

func (repo alunoRepository) unboil(row *alunoRow) aluno.Aluno {
	if row == nil {
		return aluno.Aluno{}
	}
	a := aluno.Aluno{
		ID:        row.ID,
		Nome:      row.Nome,
		Matricula: row.Matricula,
		TurmaID:   row.TurmaID,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	if row.TurmaNome.Valid {
		a.Turma = &turma.Summary{
			ID:    row.TurmaID,
			Nome:  row.TurmaNome.String,
			Ano:   row.TurmaAno.String,
			Turno: turma.Turno(row.TurmaTurno.String),
		}
	}
	return a
}

func (repo alunoRepository) baseMods() []qm.QueryMod {
	return []qm.QueryMod{
		qm.Select(alunoSelect),
		qm.From("alunos a"),
		qm.LeftOuterJoin("turmas t ON t.id = a.turma_id"),
	}
}

func (repo alunoRepository) CheckMatriculaUniqueness(ctx context.Context, matricula string, excludedIDs []string, exec ...core.DBExecutor) error {
	mods := appendMods([]qm.QueryMod{qm.Where("matricula = ?", matricula)}, excludeIDs("id", excludedIDs))
	found, err := exists(ctx, repo.getExec(exec), "alunos", mods...)
	if err != nil {
		return trapErr(err, aluno.ErrNotFound, "checking matricula uniqueness")
	}
	if found {
		return aluno.ErrMatriculaExists
	}
	return nil
}

func (repo alunoRepository) CreateAluno(ctx context.Context, a aluno.Aluno, exec ...core.DBExecutor) (aluno.Aluno, error) {
	a.ID = uuid.New().String()
	_, err := queries.Raw(
		"INSERT INTO alunos (id, nome, matricula, turma_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)",
		a.ID, a.Nome, a.Matricula, a.TurmaID, a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return aluno.Aluno{}, trapErr(err, aluno.ErrNotFound, "inserting aluno")
	}
	return repo.GetAlunoByID(ctx, a.ID, exec...)
}

func (repo alunoRepository) QueryAlunos(ctx context.Context, filter *aluno.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]aluno.Aluno, error) {
	mods := repo.baseMods()
	if filter != nil {
		if filter.Search != "" {
			mods = append(mods, searchMod(filter.Search, "a.nome", "a.matricula"))
		}
		if filter.TurmaID != "" {
			if _, err := uuid.Parse(filter.TurmaID); err != nil {
				return []aluno.Aluno{}, nil
			}
			mods = append(mods, qm.Where("a.turma_id = ?", filter.TurmaID))
		}
		if filter.EscolaID != "" {
			if _, err := uuid.Parse(filter.EscolaID); err != nil {
				return []aluno.Aluno{}, nil
			}
			mods = append(mods, qm.Where("t.escola_id = ?", filter.EscolaID))
		}
	}
	cols := aluno.OrderingFields.Columns(ordering)
	for i := range cols {
		cols[i].Field = "a." + cols[i].Field
	}
	if len(cols) == 0 {
		mods = append(mods, qm.OrderBy("a.nome ASC"))
	} else {
		mods = append(mods, qm.OrderBy(core.OrderBy(cols)))
	}

	var rows []*alunoRow
	if err := NewQuery(mods...).Bind(ctx, repo.getExec(exec), &rows); err != nil {
		return nil, trapErr(err, aluno.ErrNotFound, "querying alunos")
	}
	alunos := make([]aluno.Aluno, 0, len(rows))
	for _, row := range rows {
		alunos = append(alunos, repo.unboil(row))
	}
	return alunos, nil
}

func (repo alunoRepository) GetAlunoByID(ctx context.Context, id string, exec ...core.DBExecutor) (aluno.Aluno, error) {
	if _, err := uuid.Parse(id); err != nil {
		return aluno.Aluno{}, aluno.ErrNotFound
	}
	var row alunoRow
	q := NewQuery(append(repo.baseMods(), qm.Where("a.id = ?", id))...)
	if err := q.Bind(ctx, repo.getExec(exec), &row); err != nil {
		return aluno.Aluno{}, trapErr(err, aluno.ErrNotFound, "finding aluno by ID")
	}
	return repo.unboil(&row), nil
}

func (repo alunoRepository) UpdateAluno(ctx context.Context, a aluno.Aluno, exec ...core.DBExecutor) (aluno.Aluno, error) {
	res, err := queries.Raw(
		"UPDATE alunos SET nome = $2, matricula = $3, turma_id = $4, updated_at = $5 WHERE id = $1",
		a.ID, a.Nome, a.Matricula, a.TurmaID, a.UpdatedAt.UTC(),
	).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return aluno.Aluno{}, trapErr(err, aluno.ErrNotFound, "updating aluno")
	}
	if err = checkAffected(res, aluno.ErrNotFound); err != nil {
		return aluno.Aluno{}, err
	}
	return repo.GetAlunoByID(ctx, a.ID, exec...)
}

func (repo alunoRepository) DeleteAlunoByID(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := uuid.Parse(id); err != nil {
		return aluno.ErrNotFound
	}
	res, err := queries.Raw("DELETE FROM alunos WHERE id = $1", id).ExecContext(ctx, repo.getExec(exec))
	if err != nil {
		return trapErr(err, aluno.ErrNotFound, "deleting aluno")
	}
	return checkAffected(res, aluno.ErrNotFound)
}
