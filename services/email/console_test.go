package emailsvc

import (
	"log"
	"net/mail"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smaipa/smaipa/core"
	appfs "github.com/smaipa/smaipa/fs"
	logsvc "github.com/smaipa/smaipa/services/logger"
)

func TestConsoleServiceMock(t *testing.T) {
	conf := &core.Config{AppName: "SMAIPA", FrontendBaseURL: "http://smaipa.test", TestMode: true}
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	core.ParseEmailTemplates(appfs.Templates, appfs.EmailTemplatesDir, true, logger)

	svc := NewConsoleServiceMock(conf, logger)
	to := []mail.Address{{Name: "Ana", Address: "ana@escola.test"}}

	svc.SendMessages(
		&core.EmailMessage{
			To:           to,
			Subject:      "Bem-vindo(a)",
			TemplateName: "boas_vindas",
			TemplateData: map[string]string{"Nome": "Ana", "Email": "ana@escola.test", "Perfil": "Escola"},
		},
		&core.EmailMessage{Subject: "sem destinatário", BodyStr: "oi"},
		&core.EmailMessage{To: to, Subject: "vazio"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "Olá, Ana!")
	assert.Contains(t, sent[0].TextContent, "http://smaipa.test/login")
	assert.Contains(t, sent[0].HTMLContent, "Ana")

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}
