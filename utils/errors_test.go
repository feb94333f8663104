package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid input", InvalidInput("Hora inválida."), http.StatusBadRequest},
		{"wrapped invalid input", fmt.Errorf("schedule: %w", InvalidInput("x")), http.StatusBadRequest},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("start 3: %w", ErrNotFound), http.StatusNotFound},
		{"upstream", Upstream("upload", errors.New("timeout")), http.StatusBadGateway},
		{"anything else", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.expected {
				t.Errorf("StatusFor(%v) = %d, expected %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestUpstreamKeepsCause(t *testing.T) {
	cause := errors.New("bucket missing")
	err := Upstream("upload", cause)
	if !errors.Is(err, ErrUpstream) || !errors.Is(err, cause) {
		t.Fatalf("Upstream lost a wrapped error: %v", err)
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(fmt.Errorf("x: %w", InvalidInput("Data/hora inválida.")), "fallback"); got != "Data/hora inválida." {
		t.Errorf("got %q", got)
	}
	if got := PublicMessage(errors.New("sql: syntax error"), "fallback"); got != "fallback" {
		t.Errorf("internal error text leaked: %q", got)
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		expected string
	}{
		{"input message shown", InvalidInput("ID inválido."), http.StatusBadRequest, "ID inválido."},
		{"not found uses caller message", ErrNotFound, http.StatusNotFound, "não encontrada"},
		{"internal uses fallback", errors.New("pq: relation missing"), http.StatusInternalServerError, "falhou"},
		{"upstream uses fallback", Upstream("mail", errors.New("401")), http.StatusBadGateway, "falhou"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, nil, tt.err, "não encontrada", "falhou", nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, expected %d", rec.Code, tt.status)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error != tt.expected {
				t.Errorf("error = %q, expected %q", body.Error, tt.expected)
			}
		})
	}
}
