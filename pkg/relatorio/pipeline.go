// Package relatorio turns an in-progress inspection into a published report
// and moves it to validation. The status write is the last step and only
// runs after the file is stored, so any earlier failure leaves the
// inspection untouched.
package relatorio

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/pkg/notify"
	"vistoria.app/api/pkg/storage"
	"vistoria.app/api/repository"
	"vistoria.app/api/utils"
)

const (
	keyPrefix   = "relatorios/"
	contentType = "application/pdf"
)

// StateError reports that the inspection is not in a status that accepts a
// report.
type StateError struct {
	Current lifecycle.Status
}

func (e *StateError) Error() string {
	return "Status atual: " + string(e.Current)
}

func (e *StateError) Unwrap() error {
	return utils.ErrInvalidInput
}

type Request struct {
	IDVistoria int64
	Comodos    Comodos
	Anexos     []Anexo
}

type Resultado struct {
	Mensagem        string `json:"mensagem"`
	Arquivo         string `json:"arquivo"`
	URL             string `json:"url"`
	NotificacaoErro string `json:"notificacao_erro,omitempty"`
}

type Pipeline struct {
	repo     repository.VistoriaRepo
	composer Composer
	renderer Renderer
	store    storage.Storage
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*Pipeline)

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func NewPipeline(repo repository.VistoriaRepo, composer Composer, renderer Renderer, store storage.Storage, notifier notify.Notifier, log *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		repo:     repo,
		composer: composer,
		renderer: renderer,
		store:    store,
		notifier: notifier,
		log:      log.Named("relatorio"),
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Generate runs the whole pipeline for the inspector assigned to the
// inspection.
func (p *Pipeline) Generate(ctx context.Context, actor lifecycle.Actor, req Request) (*Resultado, error) {
	if req.IDVistoria <= 0 {
		return nil, utils.InvalidInput("idVistoria inválido.")
	}
	t := lifecycle.MustLookup(lifecycle.ActionSubmitReport)
	if actor.Party() != t.Party {
		return nil, utils.ErrNotFound
	}
	log := p.log.With(zap.Int64("vistoria_id", req.IDVistoria), zap.Int64("actor_id", actor.ID))

	c, err := p.repo.FetchRelatorioContexto(ctx, nil, req.IDVistoria, actor.ID)
	if err != nil {
		return nil, err
	}
	if !t.Permits(c.Status) {
		log.Debug("report refused", zap.String("status", string(c.Status)))
		return nil, &StateError{Current: c.Status}
	}

	texto, err := p.composer.Compose(ctx, NarrativeInput{Contexto: *c, Comodos: req.Comodos})
	if err != nil {
		return nil, err
	}

	now := p.now()
	pdf, err := p.renderer.Render(Documento{
		GeradoEm:    now,
		Local:       local(*c),
		CEP:         c.CEP,
		Vistoriador: c.NomeVistoriador,
		Texto:       texto,
		Grupos:      normalizeGrupos(GroupAnexos(req.Anexos), log),
	})
	if err != nil {
		return nil, err
	}

	arquivo := fmt.Sprintf("relatorio_%d_%d.pdf", req.IDVistoria, now.UnixMilli())
	url, err := p.store.Put(ctx, keyPrefix+arquivo, pdf, contentType)
	if err != nil {
		log.Error("report upload failed", zap.String("arquivo", arquivo), zap.Error(err))
		return nil, utils.Upstream("upload", err)
	}

	if _, err := p.WriteBack(ctx, actor, req.IDVistoria, url, req.Comodos); err != nil {
		log.Error("report stored but write-back failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	log.Info("report generated", zap.String("arquivo", arquivo), zap.Int("bytes", len(pdf)))

	res := &Resultado{Mensagem: "Relatório gerado com sucesso", Arquivo: arquivo, URL: url}
	if err := p.notify(ctx, *c, arquivo, url, pdf); err != nil {
		log.Warn("report notification failed", zap.Error(err))
		res.NotificacaoErro = "Não foi possível enviar o relatório por e-mail."
	}
	return res, nil
}

// WriteBack links the stored report and moves the inspection to validation.
// Repeating it with the same url after it succeeded matches again, so a
// caller can retry a write-back whose outcome it did not see.
func (p *Pipeline) WriteBack(ctx context.Context, actor lifecycle.Actor, id int64, url string, comodos Comodos) (*models.Vistoria, error) {
	t := lifecycle.MustLookup(lifecycle.ActionSubmitReport)
	if actor.Party() != t.Party {
		return nil, utils.ErrNotFound
	}
	updates := map[string]any{
		"relatorio_url": url,
		"status":        t.To,
	}
	if comodos != nil {
		b, err := json.Marshal(comodos)
		if err != nil {
			return nil, fmt.Errorf("marshal comodos: %w", err)
		}
		updates["comodos"] = datatypes.JSON(b)
	}

	guard := repository.Where(
		"idvistoriador = ? AND (status IN ? OR (status = ? AND relatorio_url = ?))",
		actor.ID, lifecycle.Strings(t.From), t.To, url,
	)
	rows, err := p.repo.ConditionalUpdate(ctx, nil, id, guard, updates)
	if err != nil {
		return nil, fmt.Errorf("write-back: %w", err)
	}
	if len(rows) == 0 {
		return nil, utils.ErrNotFound
	}
	return &rows[0], nil
}

func (p *Pipeline) notify(ctx context.Context, c models.RelatorioContexto, arquivo, url string, pdf []byte) error {
	subject := "Relatório de vistoria - " + local(c)
	text := fmt.Sprintf("Olá,\n\nO relatório da vistoria de %s está disponível em %s e segue em anexo.\n\nVistoriador: %s\n",
		local(c), url, c.NomeVistoriador)
	body := fmt.Sprintf(`<p>Olá,</p><p>O relatório da vistoria de <strong>%s</strong> está disponível <a href="%s">neste link</a> e segue em anexo.</p><p>Vistoriador: %s</p>`,
		html.EscapeString(local(c)), html.EscapeString(url), html.EscapeString(c.NomeVistoriador))
	return p.notifier.Send(ctx, notify.Message{
		To: []notify.Recipient{
			{Name: c.NomeCliente, Email: c.EmailCliente},
			{Name: c.NomeVistoriador, Email: c.EmailVistoriador},
		},
		Subject:    subject,
		Text:       text,
		HTML:       body,
		Attachment: &notify.Attachment{Filename: arquivo, ContentType: contentType, Data: pdf},
	})
}
