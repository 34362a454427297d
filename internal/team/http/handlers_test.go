package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/auth"
	"github.com/focitech/focitech-backend/internal/auth/middleware"
	"github.com/focitech/focitech-backend/internal/pagination"
	"github.com/focitech/focitech-backend/internal/store"
	"github.com/focitech/focitech-backend/internal/team/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	provider := auth.ProviderFunc(func(_ context.Context, token string) (*auth.Identity, error) {
		if token == "admin" {
			return &auth.Identity{ID: "1", Email: "admin@co.io", Role: auth.RoleAdmin}, nil
		}
		return &auth.Identity{ID: "2", Email: "user@co.io"}, nil
	})
	errs := response.NewWriter(false)
	mw := middleware.NewAuth(auth.NewAuthenticator(provider), errs)

	r := gin.New()
	New(service.NewTeamService(store.NewInMemoryStore()), mw, errs, pagination.Bounds{Default: 20, Max: 100}).
		Register(r.Group("/api/v1"))
	return r
}

func call(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTeamRoutes(t *testing.T) {
	r := newTestRouter()
	body := `{"name":"Ada Lovelace","role":"CTO"}`

	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, "/api/v1/team", "user", body).Code)

	w := call(r, http.MethodPost, "/api/v1/team", "admin", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "ui-avatars.com")

	w = call(r, http.MethodGet, "/api/v1/team", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPatch, "/api/v1/team/1", "admin", `{}`).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodPatch, "/api/v1/team/1", "admin", `{"role":"CEO"}`).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodPatch, "/api/v1/team/9", "admin", `{"role":"CEO"}`).Code)

	assert.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/api/v1/team/1", "admin", "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/v1/team/1", "", "").Code)
}
