package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/sportsmeet/internal/config"
	"github.com/joshua-takyi/sportsmeet/internal/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Environment:     "test",
		MongoDBDatabase: "sportsmeet_test",
		JWTSecret:       "secret",
		AllowedOrigins:  []string{"http://localhost:3000"},
	}
	c, err := container.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), container.Clients{})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return SetupRoutes(c)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)
	id := "65f0c0ffee0000000000000a"

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/events/" + id},
		{http.MethodPost, "/events"},
		{http.MethodPut, "/events/" + id},
		{http.MethodDelete, "/events/" + id},
		{http.MethodPost, "/events/" + id + "/attend"},
		{http.MethodDelete, "/events/" + id + "/attend"},
		{http.MethodPost, "/events/" + id + "/comments"},
		{http.MethodPost, "/events/send-email"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}
