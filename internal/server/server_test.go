package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/copydesk/internal/config"
)

func testRoutedServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	s := &Server{
		jwtService: NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1}),
		validate:   newRequestValidator(),
	}
	return s, s.routes()
}

func TestHealthIsPublic(t *testing.T) {
	_, routes := testRoutedServer(t)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	_, routes := testRoutedServer(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/generate"},
		{http.MethodPost, "/generate/stream"},
		{http.MethodGet, "/runs"},
		{http.MethodGet, "/runs/0b3e9c1a-0000-0000-0000-000000000000"},
		{http.MethodDelete, "/runs/0b3e9c1a-0000-0000-0000-000000000000"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			routes.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthorizedRouteReachesHandler(t *testing.T) {
	s, routes := testRoutedServer(t)

	token, err := s.jwtService.GenerateToken("editor")
	require.NoError(t, err)

	// No database is configured, so the handler itself answers 503 rather
	// than the middleware answering 401
	req := httptest.NewRequest(http.MethodGet, "/runs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, routes := testRoutedServer(t)

	rec := httptest.NewRecorder()
	s.withCORS(routes).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/generate", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestExtractClientID(t *testing.T) {
	s := &Server{}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.1.2.3:54321"
	assert.Equal(t, "10.1.2.3", s.extractClientID(req))

	req.RemoteAddr = "not-an-addr"
	assert.Equal(t, "not-an-addr", s.extractClientID(req))
}
