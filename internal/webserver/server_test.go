package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sergiomvp10/tutti-services/config"
	"github.com/sergiomvp10/tutti-services/internal/app"
)

func newTestServer(t *testing.T) *WebServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	cfg := *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	a := app.NewApplication(&cfg)
	a.OverrideDB(db)
	a.Setup()
	t.Cleanup(func() {
		a.Release()
		_ = sqlDB.Close()
	})
	return NewWebServer(a, nil)
}

func init() {
	ApiGET("/ping-session", func(c echo.Context) error {
		return c.JSON(http.StatusOK, Response{Code: "SUCCESS", Data: GetSession(c).ID})
	})
	ApiGET("/ping-admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireAdmin)
	ApiPOST("/ping-bind", func(c echo.Context) error {
		var body struct {
			Name string `json:"name" validate:"required"`
		}
		if err := c.Bind(&body); err != nil {
			return err
		}
		if err := c.Validate(&body); err != nil {
			return c.JSON(http.StatusBadRequest, Response{Code: "INVALID_REQUEST"})
		}
		return c.JSON(http.StatusOK, Response{Code: "SUCCESS", Data: body.Name})
	})
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestSessionCookieResumesSession(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping-session", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	first := rec.Body.String()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping-session", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, first, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies(), "known session is not re-issued")

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping-session", nil))
	assert.NotEqual(t, first, rec.Body.String())
}

func TestRequireAdminAnonymous(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping-admin", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
}

func TestErrorEnvelope(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ping-bind", nil)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
