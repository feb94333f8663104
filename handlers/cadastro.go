package handlers

import (
	"net/http"

	"vistoria.app/api/models"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/utils"
)

type imovelReq struct {
	Descricao        string  `json:"descricao" validate:"required,max=255"`
	Bloco            *string `json:"bloco" validate:"omitempty,max=50"`
	Numero           string  `json:"numero" validate:"required,max=50"`
	Observacoes      *string `json:"observacoes"`
	IDCliente        int64   `json:"idcliente" validate:"required,gt=0"`
	IDEmpreendimento int64   `json:"idempreendimento" validate:"required,gt=0"`
}

type imovelResp struct {
	Imovel   *models.Imovel   `json:"imovel"`
	Vistoria *models.Vistoria `json:"vistoria"`
}

// CreateImovel registers a property together with its first inspection.
func (h *Handler) CreateImovel(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var req imovelReq
	if !h.decode(w, r, &req) {
		return
	}
	im := &models.Imovel{
		Descricao:        req.Descricao,
		Bloco:            req.Bloco,
		Numero:           req.Numero,
		Observacoes:      req.Observacoes,
		IDCliente:        req.IDCliente,
		IDEmpreendimento: req.IDEmpreendimento,
	}
	v, err := h.engine.CreateImovel(r.Context(), actor, im)
	if err != nil {
		utils.RespondError(w, h.log, err, "Recurso não encontrado.", "Erro ao cadastrar imóvel.", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, imovelResp{Imovel: im, Vistoria: v})
}

type cargoReq struct {
	Cargo lifecycle.Role `json:"cargo" validate:"required,oneof=Administrador Vistoriador"`
}

// SetCargo replaces an employee's single role.
func (h *Handler) SetCargo(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		utils.RespondError(w, h.log, err, "Funcionário não encontrado.", msgInternal, nil)
		return
	}
	var req cargoReq
	if !h.decode(w, r, &req) {
		return
	}
	f, err := h.contas.SetCargo(r.Context(), id, req.Cargo)
	if err != nil {
		utils.RespondError(w, h.log, err, "Funcionário não encontrado.", "Erro ao atualizar cargo.", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, f)
}
