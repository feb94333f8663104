package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"vistoria.app/api/handlers"
	"vistoria.app/api/middleware"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/pkg/vistoria"
)

var (
	clientOnly    = []lifecycle.Party{lifecycle.PartyClient}
	inspectorOnly = []lifecycle.Party{lifecycle.PartyInspector}
	adminOnly     = []lifecycle.Party{lifecycle.PartyAdmin}
)

// RegisterRoutes sets up all application routes. uploadsDir, when set, is
// served under /uploads/ for the local storage driver.
func RegisterRoutes(h *handlers.Handler, auth *middleware.JWT, uploadsDir string, log *zap.Logger) http.Handler {
	r := mux.NewRouter()

	gate := func(parties []lifecycle.Party, fn http.HandlerFunc) http.Handler {
		return middleware.RequireParty(log, parties, fn)
	}

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/health", handlers.Health).Methods("GET")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	if uploadsDir != "" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))),
		)
	}

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Middleware)

	// Fixed paths first so they never reach the {id} routes
	api.Handle("/vistorias/minhas", gate(clientOnly, h.ListView(vistoria.ViewClientMine))).Methods("GET")
	api.Handle("/vistorias/minhas/pendentes-agendamento", gate(clientOnly, h.ListView(vistoria.ViewClientPendingScheduling))).Methods("GET")
	api.Handle("/vistorias/minhas/pendentes-validacao", gate(clientOnly, h.ListView(vistoria.ViewClientPendingValidation))).Methods("GET")
	api.Handle("/vistorias/minhas/aguardando-validacao", gate(clientOnly, h.ListView(vistoria.ViewClientAwaitingValidation))).Methods("GET")
	api.Handle("/vistorias/disponiveis", gate(inspectorOnly, h.ListView(vistoria.ViewInspectorPool))).Methods("GET")
	api.Handle("/vistorias/minhas-vistoriador", gate(inspectorOnly, h.ListView(vistoria.ViewInspectorMine))).Methods("GET")
	api.Handle("/vistorias/export", gate(adminOnly, h.ExportVistorias)).Methods("GET")
	api.Handle("/vistorias", gate(adminOnly, h.ListView(vistoria.ViewAll))).Methods("GET")

	// Client lifecycle
	api.Handle("/vistorias/{id:[0-9]+}/agendar", gate(clientOnly, h.Agendar)).Methods("PUT")
	api.Handle("/vistorias/{id:[0-9]+}/reagendar", gate(clientOnly, h.Reagendar)).Methods("PUT")
	api.Handle("/vistorias/{id:[0-9]+}/rejeitar", gate(clientOnly, h.Rejeitar())).Methods("PUT")
	api.Handle("/vistorias/{id:[0-9]+}/validar", gate(clientOnly, h.Validar())).Methods("PUT")

	// Inspector lifecycle
	api.Handle("/vistorias/{id:[0-9]+}/iniciar", gate(inspectorOnly, h.Iniciar())).Methods("PUT")
	api.Handle("/vistorias/{id:[0-9]+}/finalizar", gate(inspectorOnly, h.Finalizar())).Methods("PUT")
	api.Handle("/relatorio/gerar", gate(inspectorOnly, h.GerarRelatorio)).Methods("POST")

	// Admin
	api.Handle("/vistorias/{id:[0-9]+}", gate(adminOnly, h.AdminUpdate)).Methods("PUT")
	api.Handle("/vistorias/{id:[0-9]+}", gate(adminOnly, h.AdminDelete)).Methods("DELETE")
	api.Handle("/imoveis", gate(adminOnly, h.CreateImovel)).Methods("POST")
	api.Handle("/funcionarios/{id:[0-9]+}/cargo", gate(adminOnly, h.SetCargo)).Methods("PUT")

	// Any authenticated caller; read access is decided per row
	api.HandleFunc("/vistorias/{id:[0-9]+}", h.GetVistoria).Methods("GET")

	return middleware.RequestLogger(log)(r)
}
