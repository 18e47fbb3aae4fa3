package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smaipa/smaipa/core"
	"github.com/smaipa/smaipa/core/aluno"
	"github.com/smaipa/smaipa/core/avaliacao"
	"github.com/smaipa/smaipa/core/descritor"
	"github.com/smaipa/smaipa/core/escola"
	"github.com/smaipa/smaipa/core/gabarito"
	"github.com/smaipa/smaipa/core/turma"
	"github.com/smaipa/smaipa/core/usuario"
	appfs "github.com/smaipa/smaipa/fs"
	emailsvc "github.com/smaipa/smaipa/services/email"
	inmemdb "github.com/smaipa/smaipa/storage/database/inmem"
	testutil "github.com/smaipa/smaipa/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app  *Server
	mail *emailsvc.ConsoleServiceMock

	escolaRepo    escola.Repository
	turmaRepo     turma.Repository
	alunoRepo     aluno.Repository
	avaliacaoRepo avaliacao.Repository
	descritorRepo descritor.Repository
	gabaritoRepo  gabarito.Repository
	usuarioRepo   usuario.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	conf := testutil.NewConfig()
	logger := testutil.NewLogger()
	validate, translator := testutil.NewValidator()
	core.ParseEmailTemplates(appfs.Templates, appfs.EmailTemplatesDir, true, logger)

	db := inmemdb.Open()
	env := &testEnv{
		mail:          emailsvc.NewConsoleServiceMock(conf, logger),
		escolaRepo:    inmemdb.NewEscolaRepository(db),
		turmaRepo:     inmemdb.NewTurmaRepository(db),
		alunoRepo:     inmemdb.NewAlunoRepository(db),
		avaliacaoRepo: inmemdb.NewAvaliacaoRepository(db),
		descritorRepo: inmemdb.NewDescritorRepository(db),
		gabaritoRepo:  inmemdb.NewGabaritoRepository(db),
		usuarioRepo:   inmemdb.NewUsuarioRepository(db),
	}
	usuarioSvc := usuario.NewService(env.usuarioRepo, env.escolaRepo, env.mail, usuario.WithResetTokens(usuario.ResetTokens{
		SecretKey: conf.SecretKey,
		Timeout:   conf.Server.PasswordResetTimeout,
	}))
	env.app = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		EscolaSvc:      escola.NewService(env.escolaRepo),
		TurmaSvc:       turma.NewService(env.turmaRepo, env.escolaRepo),
		AlunoSvc:       aluno.NewService(env.alunoRepo, env.turmaRepo),
		AvaliacaoSvc:   avaliacao.NewService(env.avaliacaoRepo),
		DescritorSvc:   descritor.NewService(env.descritorRepo),
		GabaritoSvc:    gabarito.NewService(env.gabaritoRepo, env.avaliacaoRepo, env.descritorRepo),
		UsuarioSvc:     usuarioSvc,
		DisableReqLogs: true,
	})
	t.Cleanup(func() { _ = env.app.Close() })
	return env
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func (env *testEnv) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	env.app.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := env.do(method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func getToken(t *testing.T, app *Server, u usuario.Usuario) string {
	t.Helper()
	token, err := app.GenerateToken(u)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	if objs == nil {
		objs = []interface{}{}
	}
	return marshallObj(t, objs)
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

// checkCodeAndData skips the body comparison when wantData is nil.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, "code; body = %s", rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode() failed: %v; body = %s", err, rec.Body.String())
	}
}
