package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/jlucero/shop-api/internal/config"
	"github.com/jlucero/shop-api/internal/handler"
	"github.com/jlucero/shop-api/internal/middleware"
	"github.com/jlucero/shop-api/internal/model"
	"github.com/jlucero/shop-api/internal/router"
	"github.com/jlucero/shop-api/internal/utils"
)

// testApp wires the real handlers and routes over the in-memory fakes.
type testApp struct {
	e        *echo.Echo
	cfg      config.Config
	users    *fakeUserStore
	products *fakeProductStore
	tokens   *fakeTokenStore
	images   *fakeImageStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
	app := &testApp{
		cfg:      cfg,
		users:    newFakeUserStore(),
		products: newFakeProductStore(),
		tokens:   newFakeTokenStore(),
		images:   &fakeImageStore{},
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, app.users, app.tokens))
	router.RegisterUsers(e, handler.NewUserHandler(cfg, app.users), cfg.JWTSecret)

	ph := handler.NewProductHandler(app.products, app.images)
	router.RegisterProducts(e, ph, cfg.JWTSecret,
		middleware.ProductCache(config.CacheConfig{}, nil)) // cache disabled in tests

	app.e = e
	return app
}

// doJSON performs a request with an optional JSON body and bearer token.
func (a *testApp) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// accessFor issues a valid access token for the given user.
func (a *testApp) accessFor(t *testing.T, u model.User) string {
	t.Helper()
	tok, err := utils.NewAccessToken(a.cfg.JWTSecret, u.ID, u.Email, a.cfg.AccessTTLMin)
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}
	return tok.Token
}

// refreshFor issues a valid refresh token for the given user.
func (a *testApp) refreshFor(t *testing.T, u model.User) string {
	t.Helper()
	tok, err := utils.NewRefreshToken(a.cfg.JWTSecret, u.ID, a.cfg.RefreshTTLDays)
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}
	return tok.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response body %q: %v", rec.Body.String(), err)
	}
	return out
}
