package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/utils"
)

type loginReq struct {
	Email string                `json:"email" validate:"required,email"`
	Senha string                `json:"senha" validate:"required"`
	Tipo  lifecycle.AccountType `json:"tipo" validate:"required,oneof=cliente funcionario"`
}

type usuarioPayload struct {
	ID    int64                 `json:"id"`
	Nome  string                `json:"nome"`
	Email string                `json:"email"`
	Tipo  lifecycle.AccountType `json:"tipo"`
	Cargo lifecycle.Role        `json:"cargo,omitempty"`
}

type loginResp struct {
	Token   string         `json:"token"`
	Usuario usuarioPayload `json:"usuario"`
}

const msgBadCredentials = "E-mail ou senha inválidos."

// Login checks the password of a client or employee and issues a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !h.decode(w, r, &req) {
		return
	}

	var (
		user usuarioPayload
		hash string
		err  error
	)
	switch req.Tipo {
	case lifecycle.AccountClient:
		c, ferr := h.contas.FindClienteByEmail(r.Context(), req.Email)
		err = ferr
		if ferr == nil {
			user = usuarioPayload{ID: c.ID, Nome: c.Nome, Email: c.Email, Tipo: lifecycle.AccountClient}
			hash = c.Senha
		}
	default:
		f, ferr := h.contas.FindFuncionarioByEmail(r.Context(), req.Email)
		err = ferr
		if ferr == nil {
			user = usuarioPayload{ID: f.ID, Nome: f.Nome, Email: f.Email, Tipo: lifecycle.AccountEmployee, Cargo: f.Cargo}
			hash = f.Senha
		}
	}
	if errors.Is(err, utils.ErrNotFound) {
		utils.RespondErrorWithCode(w, h.log, http.StatusUnauthorized, msgBadCredentials, nil, nil)
		return
	}
	if err != nil {
		utils.RespondErrorWithCode(w, h.log, http.StatusInternalServerError, msgInternal, nil, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Senha)) != nil {
		utils.RespondErrorWithCode(w, h.log, http.StatusUnauthorized, msgBadCredentials, nil, nil)
		return
	}

	actor := lifecycle.Actor{ID: user.ID, AccountType: user.Tipo, Role: user.Cargo}
	if actor.Party() == lifecycle.PartyNone {
		utils.RespondErrorWithCode(w, h.log, http.StatusForbidden, "Funcionário sem cargo atribuído.", nil, nil)
		return
	}
	token, err := h.tokens.GenerateToken(actor)
	if err != nil {
		utils.RespondErrorWithCode(w, h.log, http.StatusInternalServerError, msgInternal, nil, err)
		return
	}
	h.log.Info("login", zap.Int64("actor_id", actor.ID), zap.String("tipo", string(actor.AccountType)))
	utils.RespondWithJSON(w, http.StatusOK, loginResp{Token: token, Usuario: user})
}
