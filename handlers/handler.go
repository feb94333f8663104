// Package handlers is the HTTP boundary: it decodes and validates requests,
// pulls the verified actor from the context and maps the error taxonomy onto
// status codes.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"vistoria.app/api/middleware"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/pkg/relatorio"
	"vistoria.app/api/pkg/vistoria"
	"vistoria.app/api/repository"
	"vistoria.app/api/utils"
)

const (
	msgNotFound  = "Vistoria não encontrada ou não permitida."
	msgInternal  = "Erro interno."
	msgInvalidID = "ID inválido."
)

// TokenIssuer signs identity tokens for a freshly authenticated actor.
type TokenIssuer interface {
	GenerateToken(actor lifecycle.Actor) (string, error)
}

type Handler struct {
	engine   *vistoria.Engine
	pipeline *relatorio.Pipeline
	contas   repository.ContaRepo
	tokens   TokenIssuer
	validate *validator.Validate
	log      *zap.Logger

	maxUpload int64
}

type Option func(*Handler)

// WithUploadLimit caps the report submission body in bytes.
func WithUploadLimit(n int64) Option {
	return func(h *Handler) { h.maxUpload = n }
}

func New(engine *vistoria.Engine, pipeline *relatorio.Pipeline, contas repository.ContaRepo, tokens TokenIssuer, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		engine:    engine,
		pipeline:  pipeline,
		contas:    contas,
		tokens:    tokens,
		validate:  validator.New(),
		log:       log.Named("http"),
		maxUpload: maxReportUpload,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// actor returns the verified caller. Routes behind the JWT middleware always
// carry one, so a missing actor is answered as unauthenticated.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (lifecycle.Actor, bool) {
	a, ok := middleware.GetActor(r)
	if !ok {
		utils.RespondErrorWithCode(w, h.log, http.StatusUnauthorized, "Token não fornecido.", nil, nil)
	}
	return a, ok
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.InvalidInput(msgInvalidID)
	}
	return id, nil
}

// decode reads a JSON body into dst and runs the struct validation tags.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(w, h.log, http.StatusBadRequest, "JSON inválido.", nil, err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(w, h.log, http.StatusBadRequest, "Dados inválidos.", validationDetails(err), err)
		return false
	}
	return true
}

func validationDetails(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// Health is the liveness check.
func Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
