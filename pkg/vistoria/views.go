package vistoria

import (
	"context"
	"fmt"

	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/repository"
	"vistoria.app/api/utils"
)

// View names a role-scoped list.
type View string

const (
	ViewAll                      View = "todas"
	ViewClientMine               View = "minhas"
	ViewClientPendingScheduling  View = "pendentes-agendamento"
	ViewClientPendingValidation  View = "pendentes-validacao"
	ViewClientAwaitingValidation View = "aguardando-validacao"
	ViewInspectorPool            View = "disponiveis"
	ViewInspectorMine            View = "minhas-vistoriador"
)

func (v View) filter(actor lifecycle.Actor) (repository.ListFilter, error) {
	id := actor.ID
	party := actor.Party()
	switch v {
	case ViewAll:
		if party == lifecycle.PartyAdmin {
			return repository.ListFilter{}, nil
		}
	case ViewClientMine:
		if party == lifecycle.PartyClient {
			return repository.ListFilter{ClientID: &id}, nil
		}
	case ViewClientPendingScheduling:
		if party == lifecycle.PartyClient {
			return repository.ListFilter{ClientID: &id, Statuses: lifecycle.MustLookup(lifecycle.ActionSchedule).From}, nil
		}
	case ViewClientPendingValidation, ViewClientAwaitingValidation:
		if party == lifecycle.PartyClient {
			return repository.ListFilter{ClientID: &id, Statuses: lifecycle.MustLookup(lifecycle.ActionValidate).From}, nil
		}
	case ViewInspectorPool:
		if party == lifecycle.PartyInspector {
			return repository.ListFilter{Unassigned: true, Statuses: lifecycle.PoolStatuses()}, nil
		}
	case ViewInspectorMine:
		if party == lifecycle.PartyInspector {
			return repository.ListFilter{InspectorID: &id}, nil
		}
	default:
		return repository.ListFilter{}, utils.InvalidInput("lista desconhecida")
	}
	return repository.ListFilter{}, utils.ErrNotFound
}

// List returns the view for actor. Asking for another role's view is
// reported as not found.
func (e *Engine) List(ctx context.Context, actor lifecycle.Actor, view View) ([]models.VistoriaResumo, error) {
	f, err := view.filter(actor)
	if err != nil {
		return nil, err
	}
	rows, err := e.repo.FetchMany(ctx, nil, f)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", view, err)
	}
	return rows, nil
}

// Get is the read-access-checked detail view, with the actions actor may
// invoke next.
func (e *Engine) Get(ctx context.Context, actor lifecycle.Actor, id int64) (*models.VistoriaDetalhe, error) {
	d, err := e.repo.FetchDetail(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanRead(actor, d.IDCliente, d.IDVistoriador, d.Status) {
		return nil, utils.ErrNotFound
	}
	d.Acoes = lifecycle.AvailableActions(actor, d.Status, d.IDVistoriador)
	if d.Acoes == nil {
		d.Acoes = []lifecycle.Action{}
	}
	return d, nil
}
