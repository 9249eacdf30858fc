// internal/outreach/handler_test.go
package outreach

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "prospector/internal/common/errors"
	"prospector/internal/common/genai"
	"prospector/internal/common/logger"
	"prospector/internal/mailbox"
	"prospector/internal/models"
	"prospector/internal/repository"
	"prospector/internal/store"
)

// scriptedGenerator answers based on which company name appears in the prompt.
// Companies listed in failFor get a refusal with no JSON in it.
type scriptedGenerator struct {
	failFor map[string]bool
	calls   int
}

func (g *scriptedGenerator) GenerateText(_ context.Context, req genai.Request) (string, error) {
	g.calls++
	for company := range g.failFor {
		if strings.Contains(req.Prompt, company) {
			return "Lo siento, no puedo redactar ese correo.", nil
		}
	}
	return `{"subject":"Idea para su negocio","body":"Estimado cliente:\n\nPropuesta.\n\nAtentamente,\nAna"}`, nil
}

type handlerEnv struct {
	handler *Handler
	repo    *repository.Repository
	gen     *scriptedGenerator
}

func newTestEnv(t *testing.T, drafts mailbox.DraftCreator) *handlerEnv {
	t.Helper()

	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := logger.NewTestLogger(t)
	repo := repository.New(st, log)
	gen := &scriptedGenerator{failFor: map[string]bool{}}

	return &handlerEnv{
		handler: NewHandler(DefaultConfig(), gen, repo, drafts, log),
		repo:    repo,
		gen:     gen,
	}
}

func testProfile() models.Profile {
	return models.Profile{Name: "Ana García", ContactEmail: "ana@example.com", WebsiteURL: "https://ana.example.com"}
}

func testService() models.Service {
	return models.Service{ID: "svc-1", Name: "SEO Local", Description: "Posicionamiento local"}
}

func testProspect(id, company string) models.Prospect {
	return models.Prospect{
		ID:              id,
		CompanyName:     company,
		WebsiteURL:      "https://" + company + ".example.com",
		Contact:         models.Contact{Name: "Luis Pérez", Title: "Gerente", Email: "luis@" + company + ".example.com"},
		NeedsAnalysis:   "web desactualizada",
		HireProbability: 70,
		Sector:          "restaurantes",
		Location:        "CDMX",
	}
}

func TestDraftEmail_Success(t *testing.T) {
	env := newTestEnv(t, nil)

	draft, err := env.handler.DraftEmail(context.Background(),
		testProspect("p1", "tacos-el-guero"), testService(), testProfile())
	require.NoError(t, err)

	assert.Equal(t, "Idea para su negocio", draft.Subject)
	assert.Contains(t, draft.Body, "Estimado cliente:")
}

func TestDraftEmail_RequiresProfile(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.handler.DraftEmail(context.Background(),
		testProspect("p1", "tacos-el-guero"), testService(), models.Profile{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
	assert.Zero(t, env.gen.calls, "collaborator must not run without a sender profile")
}

func TestDraftEmail_MalformedReplies(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose without JSON", "No puedo ayudar con eso."},
		{"missing body key", `{"subject":"Hola"}`},
		{"missing subject key", `{"body":"Texto"}`},
		{"extra keys", `{"subject":"Hola","body":"Texto","tone":"formal"}`},
		{"empty subject", `{"subject":"","body":"Texto"}`},
		{"array instead of object", `[{"subject":"a","body":"b"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.handler.generator = fixedGenerator(tt.response)

			_, err := env.handler.DraftEmail(context.Background(),
				testProspect("p1", "tacos-el-guero"), testService(), testProfile())
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeMalformedAIResponse, apperrors.CodeOf(err))
		})
	}
}

func TestDraftEmail_PromptCarriesAllContext(t *testing.T) {
	env := newTestEnv(t, nil)
	capture := &scriptedGenerator{failFor: map[string]bool{}}
	recorder := &promptRecorder{inner: capture}
	env.handler.generator = recorder

	_, err := env.handler.DraftEmail(context.Background(),
		testProspect("p1", "tacos-el-guero"), testService(), testProfile())
	require.NoError(t, err)

	assert.False(t, recorder.lastReq.Grounded, "drafting runs without search grounding")
	for _, want := range []string{"tacos-el-guero", "Luis Pérez", "Ana García", "SEO Local", "web desactualizada"} {
		assert.Contains(t, recorder.lastReq.Prompt, want)
	}
}

func TestDraftBatch_AllSucceed(t *testing.T) {
	env := newTestEnv(t, nil)
	prospects := []models.Prospect{
		testProspect("p1", "tacos-el-guero"),
		testProspect("p2", "cafe-central"),
	}

	var progress []string
	summary, err := env.handler.DraftBatch(context.Background(), prospects,
		testService(), testProfile(), func(s string) { progress = append(progress, s) })
	require.NoError(t, err)

	assert.Equal(t, &BatchSummary{Succeeded: 2, Failed: 0, Total: 2}, summary)
	require.Len(t, progress, 3)
	assert.Equal(t, "Generando email 1 de 2 para tacos-el-guero...", progress[0])
	assert.Equal(t, "Generando email 2 de 2 para cafe-central...", progress[1])
	assert.Equal(t, "2 de 2 emails generados y guardados. 0 fallaron.", progress[2])

	emails := env.repo.Emails(context.Background())
	require.Len(t, emails, 2)
	// Newest first: the second prospect's email leads.
	assert.Equal(t, "cafe-central", emails[0].Recipient.CompanyName)
	assert.Equal(t, "tacos-el-guero", emails[1].Recipient.CompanyName)
	assert.Equal(t, "SEO Local", emails[0].Service.Name)
}

func TestDraftBatch_OneFailureDoesNotAbort(t *testing.T) {
	env := newTestEnv(t, nil)
	env.gen.failFor["cafe-central"] = true

	prospects := []models.Prospect{
		testProspect("p1", "tacos-el-guero"),
		testProspect("p2", "cafe-central"),
		testProspect("p3", "marisqueria-sol"),
	}

	summary, err := env.handler.DraftBatch(context.Background(), prospects,
		testService(), testProfile(), nil)
	require.NoError(t, err)

	assert.Equal(t, &BatchSummary{Succeeded: 2, Failed: 1, Total: 3}, summary)

	emails := env.repo.Emails(context.Background())
	require.Len(t, emails, 2, "only the successful items are persisted")
	for _, e := range emails {
		assert.NotEqual(t, "cafe-central", e.Recipient.CompanyName)
	}
}

func TestDraftBatch_EmptyInput(t *testing.T) {
	env := newTestEnv(t, nil)

	summary, err := env.handler.DraftBatch(context.Background(), nil,
		testService(), testProfile(), nil)
	require.NoError(t, err)
	assert.Equal(t, &BatchSummary{Total: 0}, summary)
	assert.Zero(t, env.gen.calls)
}

func TestDraftBatch_CancellationStopsRemainingItems(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	prospects := []models.Prospect{
		testProspect("p1", "tacos-el-guero"),
		testProspect("p2", "cafe-central"),
		testProspect("p3", "marisqueria-sol"),
	}

	// Cancel after the first item completes.
	count := 0
	env.handler.generator = generatorFunc(func(_ context.Context, _ genai.Request) (string, error) {
		count++
		if count == 1 {
			cancel()
		}
		return `{"subject":"Hola","body":"Texto"}`, nil
	})

	summary, err := env.handler.DraftBatch(ctx, prospects, testService(), testProfile(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded, "the in-flight item still finishes")
	assert.Equal(t, 2, summary.Failed, "unprocessed tail is counted as failed")
	assert.Len(t, env.repo.Emails(context.Background()), 1)
}

func TestDraftBatch_RequiresProfile(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.handler.DraftBatch(context.Background(),
		[]models.Prospect{testProspect("p1", "tacos-el-guero")},
		testService(), models.Profile{}, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))
}

// failingMailbox rejects drafts for one recipient domain.
type failingMailbox struct {
	failDomain string
	created    []mailbox.Message
}

func (m *failingMailbox) CreateDraft(_ context.Context, msg mailbox.Message) error {
	if strings.Contains(msg.To, m.failDomain) {
		return fmt.Errorf("mailbox rejected draft")
	}
	m.created = append(m.created, msg)
	return nil
}

func TestDraftBatch_MailboxFailureCountsItemAsFailed(t *testing.T) {
	mb := &failingMailbox{failDomain: "cafe-central"}
	env := newTestEnv(t, mb)

	prospects := []models.Prospect{
		testProspect("p1", "tacos-el-guero"),
		testProspect("p2", "cafe-central"),
	}

	summary, err := env.handler.DraftBatch(context.Background(), prospects,
		testService(), testProfile(), nil)
	require.NoError(t, err)

	assert.Equal(t, &BatchSummary{Succeeded: 1, Failed: 1, Total: 2}, summary)
	require.Len(t, mb.created, 1)
	assert.Contains(t, mb.created[0].To, "tacos-el-guero")

	emails := env.repo.Emails(context.Background())
	require.Len(t, emails, 1, "an email that never reached the mailbox is not persisted")
	assert.Equal(t, "tacos-el-guero", emails[0].Recipient.CompanyName)
}

func TestDraftBatch_BoundedConcurrency(t *testing.T) {
	env := newTestEnv(t, nil)
	env.handler.config = &Config{Timeout: DefaultConfig().Timeout, Concurrency: 3}
	env.gen.failFor["cafe-central"] = true

	prospects := []models.Prospect{
		testProspect("p1", "tacos-el-guero"),
		testProspect("p2", "cafe-central"),
		testProspect("p3", "marisqueria-sol"),
		testProspect("p4", "panaderia-luz"),
	}

	summary, err := env.handler.DraftBatch(context.Background(), prospects,
		testService(), testProfile(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, env.repo.Emails(context.Background()), 3)
}

func TestBodyEncoding_RoundTrip(t *testing.T) {
	original := &Draft{
		Subject: "Idea para Tacos \"El Güero\"",
		Body:    "Estimado Luis:\n\nPárrafo uno.\n\nAtentamente,\nAna",
	}

	decoded, err := DecodeBody(EncodeBody(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeBody_RejectsGarbage(t *testing.T) {
	_, err := DecodeBody("texto plano sin estructura")
	assert.Error(t, err)
}

// generatorFunc adapts a function to the genai.Generator interface.
type generatorFunc func(context.Context, genai.Request) (string, error)

func (f generatorFunc) GenerateText(ctx context.Context, req genai.Request) (string, error) {
	return f(ctx, req)
}

func fixedGenerator(response string) genai.Generator {
	return generatorFunc(func(context.Context, genai.Request) (string, error) {
		return response, nil
	})
}

// promptRecorder captures the last request before delegating.
type promptRecorder struct {
	inner   genai.Generator
	lastReq genai.Request
}

func (r *promptRecorder) GenerateText(ctx context.Context, req genai.Request) (string, error) {
	r.lastReq = req
	return r.inner.GenerateText(ctx, req)
}
