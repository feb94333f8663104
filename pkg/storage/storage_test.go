package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"vistoria.app/api/config"
)

func TestLocalPut(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "http://localhost:8080/uploads/", zap.NewNop())
	require.NoError(t, err)

	url, err := l.Put(context.Background(), "relatorios/relatorio_1_1.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/relatorios/relatorio_1_1.pdf", url)

	b, err := os.ReadFile(filepath.Join(dir, "relatorios", "relatorio_1_1.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(b))

	_, err = l.Put(context.Background(), "../escape.pdf", []byte("x"), "application/pdf")
	assert.Error(t, err)
}

func TestSupabasePut(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		assert.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"relatorios/x.pdf"}`))
	}))
	defer srv.Close()

	s, err := NewSupabase(srv.URL+"/", "service-key", zap.NewNop())
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "relatorios/relatorio_7_99.pdf", []byte("pdf"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/relatorios/relatorio_7_99.pdf", url)
	assert.Equal(t, "/storage/v1/object/relatorios/relatorio_7_99.pdf", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "pdf", gotBody)
}

func TestSupabasePutSurfacesRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	s, err := NewSupabase(srv.URL, "bad", zap.NewNop())
	require.NoError(t, err)
	_, err = s.Put(context.Background(), "relatorios/a.pdf", []byte("pdf"), "application/pdf")
	assert.Error(t, err)

	_, err = s.Put(context.Background(), "a.pdf", []byte("pdf"), "application/pdf")
	assert.Error(t, err)
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := config.Config{StorageDriver: "local", LocalUploadDir: t.TempDir(), PublicBaseURL: "http://x"}
	s, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)

	cfg.StorageDriver = "supabase"
	_, err = New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)

	cfg.StorageDriver = "ftp"
	_, err = New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
