package vistoria

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/repository"
	"vistoria.app/api/utils"
)

// AdminPatch is a partial overwrite. Nil fields keep the stored value.
type AdminPatch struct {
	Status              *string
	IDVistoriador       *int64
	DataAgendada        *time.Time
	DataHoraInicio      *time.Time
	DataHoraFim         *time.Time
	CondicoesClimaticas *string
	Imprevistos         *string
	Observacoes         *string
	ObservacoesGerais   *string
	RelatorioURL        *string
}

func (p AdminPatch) updates() (map[string]any, error) {
	u := map[string]any{}
	if p.Status != nil {
		s, err := lifecycle.ParseStatus(*p.Status)
		if err != nil {
			return nil, utils.InvalidInput("status inválido")
		}
		u["status"] = s
	}
	if p.IDVistoriador != nil {
		u["idvistoriador"] = *p.IDVistoriador
	}
	if p.DataAgendada != nil {
		u["dataagendada"] = *p.DataAgendada
	}
	if p.DataHoraInicio != nil {
		u["datahorainicio"] = *p.DataHoraInicio
	}
	if p.DataHoraFim != nil {
		u["datahorafim"] = *p.DataHoraFim
	}
	if p.CondicoesClimaticas != nil {
		u["condicoesclimaticas"] = *p.CondicoesClimaticas
	}
	if p.Imprevistos != nil {
		u["imprevistos"] = *p.Imprevistos
	}
	switch {
	case p.Observacoes != nil:
		u["observacoes"] = *p.Observacoes
	case p.ObservacoesGerais != nil:
		u["observacoes"] = *p.ObservacoesGerais
	}
	if p.RelatorioURL != nil {
		u["relatorio_url"] = *p.RelatorioURL
	}
	return u, nil
}

// AdminUpdate is the only unconditional write path.
func (e *Engine) AdminUpdate(ctx context.Context, actor lifecycle.Actor, id int64, p AdminPatch) (*models.Vistoria, error) {
	if actor.Party() != lifecycle.PartyAdmin {
		return nil, utils.ErrNotFound
	}
	u, err := p.updates()
	if err != nil {
		return nil, err
	}
	if len(u) == 0 {
		return e.repo.FetchOne(ctx, nil, id)
	}

	rows, err := e.repo.ConditionalUpdate(ctx, nil, id, repository.Guard{}, u)
	if err != nil {
		return nil, fmt.Errorf("admin update: %w", err)
	}
	if len(rows) == 0 {
		return nil, utils.ErrNotFound
	}
	e.log.Info("vistoria overwritten by admin", zap.Int64("vistoria_id", id), zap.Int64("actor_id", actor.ID),
		zap.Int("fields", len(u)))
	return &rows[0], nil
}

func (e *Engine) AdminDelete(ctx context.Context, actor lifecycle.Actor, id int64) error {
	if actor.Party() != lifecycle.PartyAdmin {
		return utils.ErrNotFound
	}
	n, err := e.repo.Delete(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("delete vistoria: %w", err)
	}
	if n == 0 {
		return utils.ErrNotFound
	}
	e.log.Info("vistoria deleted", zap.Int64("vistoria_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}

// CreateImovel registers a property and its companion inspection.
func (e *Engine) CreateImovel(ctx context.Context, actor lifecycle.Actor, im *models.Imovel) (*models.Vistoria, error) {
	if actor.Party() != lifecycle.PartyAdmin {
		return nil, utils.ErrNotFound
	}
	return e.imoveis.CreateWithVistoria(ctx, im)
}
