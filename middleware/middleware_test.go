package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"vistoria.app/api/pkg/lifecycle"
)

var inspector = lifecycle.Actor{ID: 7, AccountType: lifecycle.AccountEmployee, Role: lifecycle.RoleInspector}

func TestNewJWTRequiresSecret(t *testing.T) {
	_, err := NewJWT("", zap.NewNop())
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	j, err := NewJWT("secret", zap.NewNop())
	require.NoError(t, err)

	tok, err := j.GenerateToken(inspector)
	require.NoError(t, err)
	got, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, inspector, got)

	other, err := NewJWT("other-secret", zap.NewNop())
	require.NoError(t, err)
	_, err = other.Parse(tok)
	assert.Error(t, err)
}

func TestTokenExpires(t *testing.T) {
	j, err := NewJWT("secret", zap.NewNop())
	require.NoError(t, err)
	issued := time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return issued }

	tok, err := j.GenerateToken(inspector)
	require.NoError(t, err)

	j.now = func() time.Time { return issued.Add(23 * time.Hour) }
	_, err = j.Parse(tok)
	require.NoError(t, err)

	j.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = j.Parse(tok)
	assert.Error(t, err)
}

func TestParseRejects(t *testing.T) {
	j, err := NewJWT("secret", zap.NewNop())
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key any, c Claims) string {
		s, err := jwt.NewWithClaims(method, c).SignedString(key)
		require.NoError(t, err)
		return s
	}
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	cases := map[string]string{
		"employee without role": sign(jwt.SigningMethodHS256, []byte("secret"), Claims{
			Tipo:             lifecycle.AccountEmployee,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "3", ExpiresAt: future},
		}),
		"non numeric subject": sign(jwt.SigningMethodHS256, []byte("secret"), Claims{
			Tipo:             lifecycle.AccountClient,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "abc", ExpiresAt: future},
		}),
		"other algorithm": sign(jwt.SigningMethodHS512, []byte("secret"), Claims{
			Tipo:             lifecycle.AccountClient,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "3", ExpiresAt: future},
		}),
		"garbage": "not.a.token",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := j.Parse(tok)
			assert.Error(t, err)
		})
	}
}

func TestMiddleware(t *testing.T) {
	j, err := NewJWT("secret", zap.NewNop())
	require.NoError(t, err)
	tok, err := j.GenerateToken(inspector)
	require.NoError(t, err)

	var seen lifecycle.Actor
	h := j.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetActor(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + tok, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"ok", "Bearer " + tok, http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	assert.Equal(t, inspector, seen)
}

func TestRequireParty(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequireParty(zap.NewNop(), []lifecycle.Party{lifecycle.PartyInspector}, next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	client := lifecycle.Actor{ID: 1, AccountType: lifecycle.AccountClient}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithActor(req.Context(), client)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithActor(req.Context(), inspector)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	h := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/panic" {
			panic("boom")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	entries := logs.FilterMessage("request").AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc-123", fields["request_id"])
	assert.EqualValues(t, http.StatusCreated, fields["status"])
	assert.EqualValues(t, 2, fields["bytes"])
	assert.Equal(t, "10.0.0.1", fields["ip"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, logs.FilterMessage("panic serving request").Len())
}
