package relatorio_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/pkg/notify"
	"vistoria.app/api/pkg/relatorio"
	"vistoria.app/api/repository"
	"vistoria.app/api/repository/repotest"
	"vistoria.app/api/utils"
)

type fakeStore struct {
	calls int
	key   string
	data  []byte
	err   error
}

func (s *fakeStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	s.key, s.data = key, data
	return "https://cdn.example/" + key, nil
}

type fakeNotifier struct {
	msgs []notify.Message
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, msg notify.Message) error {
	n.msgs = append(n.msgs, msg)
	return n.err
}

type failingComposer struct{}

func (failingComposer) Compose(context.Context, relatorio.NarrativeInput) (string, error) {
	return "", utils.Upstream("text generation", errors.New("boom"))
}

type harness struct {
	*repotest.Fixture
	store    *fakeStore
	notifier *fakeNotifier
	pipeline *relatorio.Pipeline
	repo     repository.VistoriaRepo
}

func newHarness(t *testing.T, composer relatorio.Composer) *harness {
	f := repotest.Seed(t)
	h := &harness{Fixture: f, store: &fakeStore{}, notifier: &fakeNotifier{}}
	h.repo = repository.NewVistoriaRepo(f.DB, zap.NewNop())
	if composer == nil {
		composer = relatorio.TemplateComposer{}
	}
	now := time.Date(2030, 3, 4, 15, 30, 0, 0, relatorio.Zone)
	h.pipeline = relatorio.NewPipeline(h.repo, composer, relatorio.NewPDFRenderer("", zap.NewNop()),
		h.store, h.notifier, zap.NewNop(), relatorio.WithClock(func() time.Time { return now }))
	return h
}

func inspector(id int64) lifecycle.Actor {
	return lifecycle.Actor{ID: id, AccountType: lifecycle.AccountEmployee, Role: lifecycle.RoleInspector}
}

func pngBytes(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func comodos() relatorio.Comodos {
	return relatorio.Comodos{
		"quartos": {Quantidade: "2", Estrutura: "Sem fissuras", Pintura: "Boa"},
		"varanda": {Quantidade: "0", Piso: "Trincado"},
	}
}

func TestGenerateRequiresInProgress(t *testing.T) {
	h := newHarness(t, nil)
	v := h.NewVistoria(t, repotest.Row{Status: lifecycle.StatusScheduled, Vistoriador: &h.VistoriadorA.ID})

	_, err := h.pipeline.Generate(context.Background(), inspector(h.VistoriadorA.ID), relatorio.Request{IDVistoria: v.ID, Comodos: comodos()})
	var stateErr *relatorio.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, lifecycle.StatusScheduled, stateErr.Current)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	assert.Zero(t, h.store.calls)
	assert.Empty(t, h.notifier.msgs)
	assert.Equal(t, lifecycle.StatusScheduled, h.Reload(t, v.ID).Status)
}

func TestGenerateForAnotherInspectorIsNotFound(t *testing.T) {
	h := newHarness(t, nil)
	v := h.NewVistoria(t, repotest.Row{Status: lifecycle.StatusInProgress, Vistoriador: &h.VistoriadorA.ID})

	_, err := h.pipeline.Generate(context.Background(), inspector(h.VistoriadorB.ID), relatorio.Request{IDVistoria: v.ID})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	client := lifecycle.Actor{ID: h.Cliente.ID, AccountType: lifecycle.AccountClient}
	_, err = h.pipeline.Generate(context.Background(), client, relatorio.Request{IDVistoria: v.ID})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = h.pipeline.Generate(context.Background(), inspector(h.VistoriadorA.ID), relatorio.Request{})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
	assert.Zero(t, h.store.calls)
}

func TestGenerate(t *testing.T) {
	h := newHarness(t, nil)
	v := h.NewVistoria(t, repotest.Row{Status: lifecycle.StatusInProgress, Vistoriador: &h.VistoriadorA.ID})

	res, err := h.pipeline.Generate(context.Background(), inspector(h.VistoriadorA.ID), relatorio.Request{
		IDVistoria: v.ID,
		Comodos:    comodos(),
		Anexos: []relatorio.Anexo{
			{Field: "attachment_quartos", Filename: "q1.png", Data: pngBytes(t, 1200, 800)},
			{Field: "anexos_sala", Filename: "s1.png", Data: pngBytes(t, 40, 30)},
			{Field: "attachment_sala", Filename: "broken.png", Data: []byte("not an image")},
			{Field: "outro", Filename: "x.png", Data: pngBytes(t, 10, 10)},
		},
	})
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^https://cdn\.example/relatorios/relatorio_` + strconv.FormatInt(v.ID, 10) + `_\d+\.pdf$`)
	assert.Regexp(t, pattern, res.URL)
	assert.Equal(t, "relatorios/"+res.Arquivo, h.store.key)
	assert.Empty(t, res.NotificacaoErro)
	assert.True(t, bytes.HasPrefix(h.store.data, []byte("%PDF")))

	got := h.Reload(t, v.ID)
	assert.Equal(t, lifecycle.StatusAwaitingValidation, got.Status)
	require.NotNil(t, got.RelatorioURL)
	assert.Equal(t, res.URL, *got.RelatorioURL)
	assert.Contains(t, string(got.Comodos), "Sem fissuras")

	require.Len(t, h.notifier.msgs, 1)
	msg := h.notifier.msgs[0]
	assert.ElementsMatch(t, []string{h.Cliente.Email, h.VistoriadorA.Email}, []string{msg.To[0].Email, msg.To[1].Email})
	require.NotNil(t, msg.Attachment)
	assert.Equal(t, res.Arquivo, msg.Attachment.Filename)
}

func TestUploadFailureLeavesInspectionInProgress(t *testing.T) {
	h := newHarness(t, nil)
	h.store.err = errors.New("bucket unavailable")
	v := h.NewVistoria(t, repotest.Row{Status: lifecycle.StatusInProgress, Vistoriador: &h.VistoriadorA.ID})

	_, err := h.pipeline.Generate(context.Background(), inspector(h.VistoriadorA.ID), relatorio.Request{IDVistoria: v.ID, Comodos: comodos()})
	assert.ErrorIs(t, err, utils.ErrUpstream)

	got := h.Reload(t, v.ID)
	assert.Equal(t, lifecycle.StatusInProgress, got.Status)
	assert.Nil(t, got.RelatorioURL)
	assert.Empty(t, h.notifier.msgs)

	// retrying once storage is back succeeds
	h.store.err = nil
	_, err = h.pipeline.Generate(context.Background(), inspector(h.VistoriadorA.ID), relatorio.Request{IDVistoria: v.ID, Comodos: comodos()})
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusAwaitingValidation, h.Reload(t, v.ID).Status)
}

func TestComposerFailureAbortsBeforeUpload(t *testing.T) {
	h := newHarness(t, failingComposer{})
	v := h.NewVistoria(t, repotest.Row{Status: lifecycle.StatusInProgress, Vistoriador: &h.VistoriadorA.ID})

	_, err := h.pipeline.Generate(context.Background(), inspector(h.VistoriadorA.ID), relatorio.Request{IDVistoria: v.ID})
	assert.ErrorIs(t, err, utils.ErrUpstream)
	assert.Zero(t, h.store.calls)
	assert.Equal(t, lifecycle.StatusInProgress, h.Reload(t, v.ID).Status)
}

func TestNotificationFailureDoesNotUndoReport(t *testing.T) {
	h := newHarness(t, nil)
	h.notifier.err = errors.New("smtp down")
	v := h.NewVistoria(t, repotest.Row{Status: lifecycle.StatusInProgress, Vistoriador: &h.VistoriadorA.ID})

	res, err := h.pipeline.Generate(context.Background(), inspector(h.VistoriadorA.ID), relatorio.Request{IDVistoria: v.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, res.NotificacaoErro)
	assert.Equal(t, lifecycle.StatusAwaitingValidation, h.Reload(t, v.ID).Status)
}

func TestWriteBackRetryWithSameURL(t *testing.T) {
	h := newHarness(t, nil)
	v := h.NewVistoria(t, repotest.Row{Status: lifecycle.StatusInProgress, Vistoriador: &h.VistoriadorA.ID})
	ctx := context.Background()
	url := "https://cdn.example/relatorios/relatorio_1_1.pdf"

	_, err := h.pipeline.WriteBack(ctx, inspector(h.VistoriadorA.ID), v.ID, url, nil)
	require.NoError(t, err)

	got, err := h.pipeline.WriteBack(ctx, inspector(h.VistoriadorA.ID), v.ID, url, nil)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusAwaitingValidation, got.Status)

	_, err = h.pipeline.WriteBack(ctx, inspector(h.VistoriadorA.ID), v.ID, url+"?v=2", nil)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = h.pipeline.WriteBack(ctx, inspector(h.VistoriadorB.ID), v.ID, url, nil)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
