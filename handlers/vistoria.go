package handlers

import (
	"context"
	"net/http"
	"time"

	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/pkg/vistoria"
	"vistoria.app/api/utils"
)

type agendarReq struct {
	DataAgendada string `json:"dataagendada"`
	HoraAgendada string `json:"horaagendada"`
}

type adminUpdateReq struct {
	Status              *string    `json:"status"`
	IDVistoriador       *int64     `json:"idvistoriador" validate:"omitempty,gt=0"`
	DataAgendada        *time.Time `json:"dataagendada"`
	DataHoraInicio      *time.Time `json:"datahorainicio"`
	DataHoraFim         *time.Time `json:"datahorafim"`
	CondicoesClimaticas *string    `json:"condicoesclimaticas"`
	Imprevistos         *string    `json:"imprevistos"`
	Observacoes         *string    `json:"observacoes"`
	ObservacoesGerais   *string    `json:"observacoes_gerais"`
	RelatorioURL        *string    `json:"relatorio_url"`
}

func (r adminUpdateReq) patch() vistoria.AdminPatch {
	return vistoria.AdminPatch{
		Status:              r.Status,
		IDVistoriador:       r.IDVistoriador,
		DataAgendada:        r.DataAgendada,
		DataHoraInicio:      r.DataHoraInicio,
		DataHoraFim:         r.DataHoraFim,
		CondicoesClimaticas: r.CondicoesClimaticas,
		Imprevistos:         r.Imprevistos,
		Observacoes:         r.Observacoes,
		ObservacoesGerais:   r.ObservacoesGerais,
		RelatorioURL:        r.RelatorioURL,
	}
}

type transicaoResp struct {
	Mensagem string           `json:"mensagem"`
	Vistoria *models.Vistoria `json:"vistoria"`
}

// ListView serves one of the role-scoped lists.
func (h *Handler) ListView(view vistoria.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := h.actor(w, r)
		if !ok {
			return
		}
		rows, err := h.engine.List(r.Context(), actor, view)
		if err != nil {
			utils.RespondError(w, h.log, err, "Lista não encontrada.", "Erro ao buscar vistorias.", nil)
			return
		}
		if rows == nil {
			rows = []models.VistoriaResumo{}
		}
		utils.RespondWithJSON(w, http.StatusOK, rows)
	}
}

// GetVistoria returns the detail view when the caller may read it.
func (h *Handler) GetVistoria(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, h.log, err, msgNotFound, msgInternal, nil)
		return
	}
	d, err := h.engine.Get(r.Context(), actor, id)
	if err != nil {
		utils.RespondError(w, h.log, err, msgNotFound, "Erro ao buscar vistoria.", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, d)
}

func (h *Handler) Agendar(w http.ResponseWriter, r *http.Request) {
	h.agendar(w, r, h.engine.Schedule, "Vistoria agendada com sucesso.")
}

func (h *Handler) Reagendar(w http.ResponseWriter, r *http.Request) {
	h.agendar(w, r, h.engine.Reschedule, "Vistoria reagendada com sucesso.")
}

type scheduleFunc func(ctx context.Context, actor lifecycle.Actor, id int64, date, tod string) (*models.Vistoria, error)

func (h *Handler) agendar(w http.ResponseWriter, r *http.Request, fn scheduleFunc, okMsg string) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, h.log, err, msgNotFound, msgInternal, nil)
		return
	}
	var req agendarReq
	if !h.decode(w, r, &req) {
		return
	}
	v, err := fn(r.Context(), actor, id, req.DataAgendada, req.HoraAgendada)
	if err != nil {
		utils.RespondError(w, h.log, err, msgNotFound, "Erro ao agendar vistoria.", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, transicaoResp{Mensagem: okMsg, Vistoria: v})
}

type transitionFunc func(ctx context.Context, actor lifecycle.Actor, id int64) (*models.Vistoria, error)

// transition serves the body-less lifecycle actions.
func (h *Handler) transition(fn transitionFunc, okMsg, failMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := h.actor(w, r)
		if !ok {
			return
		}
		id, err := pathID(r)
		if err != nil {
			utils.RespondError(w, h.log, err, msgNotFound, msgInternal, nil)
			return
		}
		v, err := fn(r.Context(), actor, id)
		if err != nil {
			utils.RespondError(w, h.log, err, msgNotFound, failMsg, nil)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, transicaoResp{Mensagem: okMsg, Vistoria: v})
	}
}

func (h *Handler) Rejeitar() http.HandlerFunc {
	return h.transition(h.engine.Reject, "Vistoria rejeitada.", "Erro ao rejeitar vistoria.")
}

func (h *Handler) Validar() http.HandlerFunc {
	return h.transition(h.engine.Validate, "Vistoria validada.", "Erro ao validar vistoria.")
}

func (h *Handler) Iniciar() http.HandlerFunc {
	return h.transition(h.engine.Start, "Vistoria iniciada.", "Erro ao iniciar vistoria.")
}

func (h *Handler) Finalizar() http.HandlerFunc {
	return h.transition(h.engine.Finalize, "Vistoria finalizada.", "Erro ao finalizar vistoria.")
}

// AdminUpdate overwrites the supplied fields without lifecycle checks.
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, h.log, err, msgNotFound, msgInternal, nil)
		return
	}
	var req adminUpdateReq
	if !h.decode(w, r, &req) {
		return
	}
	v, err := h.engine.AdminUpdate(r.Context(), actor, id, req.patch())
	if err != nil {
		utils.RespondError(w, h.log, err, msgNotFound, "Erro ao atualizar vistoria.", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, transicaoResp{Mensagem: "Vistoria atualizada.", Vistoria: v})
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, h.log, err, msgNotFound, msgInternal, nil)
		return
	}
	if err := h.engine.AdminDelete(r.Context(), actor, id); err != nil {
		utils.RespondError(w, h.log, err, msgNotFound, "Erro ao excluir vistoria.", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"mensagem": "Vistoria excluída."})
}
