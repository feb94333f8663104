package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"vistoria.app/api/pkg/lifecycle"
	"vistoria.app/api/utils"
)

const tokenTTL = 24 * time.Hour

// Claims are the custom payload in our JWT. The subject is the account id.
type Claims struct {
	Tipo  lifecycle.AccountType `json:"tipo"`
	Cargo lifecycle.Role        `json:"cargo,omitempty"`
	jwt.RegisteredClaims
}

// unexported type prevents collisions in context
type ctxKey int

const (
	actorKey ctxKey = iota
)

type JWT struct {
	secret []byte
	log    *zap.Logger
	now    func() time.Time
}

func NewJWT(secret string, log *zap.Logger) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &JWT{secret: []byte(secret), log: log.Named("auth"), now: time.Now}, nil
}

// GenerateToken creates a signed HS256 token valid for 24 h
func (j *JWT) GenerateToken(actor lifecycle.Actor) (string, error) {
	now := j.now()
	claims := Claims{
		Tipo:  actor.AccountType,
		Cargo: actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(actor.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// Parse verifies the token and returns the actor it was issued to.
func (j *JWT) Parse(tokenStr string) (lifecycle.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil || !token.Valid {
		return lifecycle.Actor{}, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return lifecycle.Actor{}, errors.New("invalid token claims")
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return lifecycle.Actor{}, errors.New("invalid token subject")
	}
	actor := lifecycle.Actor{ID: id, AccountType: claims.Tipo, Role: claims.Cargo}
	if actor.Party() == lifecycle.PartyNone {
		return lifecycle.Actor{}, errors.New("token carries no usable role")
	}
	return actor, nil
}

// Middleware validates the bearer token and stashes the actor in ctx
func (j *JWT) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			utils.RespondErrorWithCode(w, j.log, http.StatusUnauthorized, "Token não fornecido.", nil, nil)
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondErrorWithCode(w, j.log, http.StatusUnauthorized, "Token mal formatado.", nil, nil)
			return
		}

		actor, err := j.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			utils.RespondErrorWithCode(w, j.log, http.StatusUnauthorized, "Token inválido.", nil, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor attaches a verified actor to ctx.
func WithActor(ctx context.Context, actor lifecycle.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor pulls the actor out of the request context.
func GetActor(r *http.Request) (lifecycle.Actor, bool) {
	a, ok := r.Context().Value(actorKey).(lifecycle.Actor)
	return a, ok
}
