package middleware

import (
	"net/http"
	"slices"

	"go.uber.org/zap"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/utils"
)

// RequireParty wraps a handler and ensures the caller is one of parties.
func RequireParty(log *zap.Logger, parties []lifecycle.Party, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r)
		if ok && slices.Contains(parties, actor.Party()) {
			next.ServeHTTP(w, r)
			return
		}
		utils.RespondErrorWithCode(w, log, http.StatusForbidden, "Acesso negado.", nil, nil)
	})
}
