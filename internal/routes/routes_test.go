package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/config"
	"github.com/msv-stihl/limpeza/internal/lookup"
	"github.com/msv-stihl/limpeza/internal/models"
	authService "github.com/msv-stihl/limpeza/internal/services/auth"
	"github.com/msv-stihl/limpeza/internal/services/report"
	"github.com/msv-stihl/limpeza/internal/services/status"
)

type stubRebuilder struct{ runs int }

func (s *stubRebuilder) Run(context.Context) (models.ShiftReport, error) {
	s.runs++
	return models.ShiftReport{"T1": {}}, nil
}

func newRouter(t *testing.T) (http.Handler, *stubRebuilder) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faltando.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"T1":[{"Local Instalação":"Copa","Arvore Prisma4 / Pro":"P1","Descrição":"Copa 1","Turnos":"T1"}]}`), 0o644))

	hash, err := authService.HashPassword("s3nha")
	require.NoError(t, err)
	cfg := &config.Config{
		Timezone:          "UTC",
		JwtSecret:         "secret",
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
	}
	rebuilder := &stubRebuilder{}
	router := Setup(cfg, Services{
		Lookup:    lookup.NewService(report.NewFileSource(path), zap.NewNop()),
		Rebuilder: rebuilder,
		Status:    func(context.Context) status.Report { return status.Report{} },
	}, zap.NewNop())
	return router, rebuilder
}

func do(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="form-turno"`)

	rec = do(router, httptest.NewRequest(http.MethodGet, "/api/missing/T1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var view lookup.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, [][]string{{"Copa", "P1", "Copa 1", "T1"}}, view.Rows)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("turno=T2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = do(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), lookup.MessageNoneFound)
}

func TestAdminRoutesNeedToken(t *testing.T) {
	router, rebuilder := newRouter(t)

	rec := do(router, httptest.NewRequest(http.MethodPost, "/api/admin/report/rebuild", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, rebuilder.runs)
}

func TestAdminRoutesWithLogin(t *testing.T) {
	router, rebuilder := newRouter(t)

	rec := do(router, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"s3nha"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var login map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/report/rebuild", nil)
	req.Header.Set("Authorization", "Bearer "+login["token"])
	rec = do(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, rebuilder.runs)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/status", nil)
	req.Header.Set("Authorization", "Bearer "+login["token"])
	assert.Equal(t, http.StatusOK, do(router, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/admin/readings/upload", nil)
	req.Header.Set("Authorization", "Bearer "+login["token"])
	assert.Equal(t, http.StatusServiceUnavailable, do(router, req).Code)
}

func TestNewReportSource(t *testing.T) {
	src, err := NewReportSource(&config.Config{ReportSource: "http", ReportURL: "http://x"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &report.HTTPSource{}, src)

	src, err = NewReportSource(&config.Config{ReportSource: "file", ReportFile: "f.json"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &report.FileSource{}, src)

	_, err = NewReportSource(&config.Config{ReportSource: "redis"}, nil)
	assert.Error(t, err)

	_, err = NewReportSource(&config.Config{ReportSource: "ftp"}, nil)
	assert.Error(t, err)
}

func TestNewLoaderDefaultsToWorkbook(t *testing.T) {
	loader, err := NewLoader(context.Background(), &config.Config{ScheduleWorkbook: "cronograma_lc.xlsx", Timezone: "UTC"})
	require.NoError(t, err)
	assert.Equal(t, "cronograma_lc.xlsx", loader.(interface{ Path() string }).Path())
}
