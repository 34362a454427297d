package http

import (
	"context"
	"encoding/json"
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
	"github.com/focitech/focitech-backend/internal/portfolio/domain"
	"github.com/focitech/focitech-backend/internal/portfolio/service"
	"github.com/focitech/focitech-backend/internal/store"
)

// tokens: "admin" resolves to an admin, "user" to a plain account.
func testProvider() auth.Provider {
	return auth.ProviderFunc(func(_ context.Context, token string) (*auth.Identity, error) {
		switch token {
		case "admin":
			return &auth.Identity{ID: "1", Email: "admin@co.io", Role: auth.RoleAdmin}, nil
		case "user":
			return &auth.Identity{ID: "2", Email: "user@co.io"}, nil
		}
		return nil, auth.ErrInvalidToken
	})
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	errs := response.NewWriter(false)
	mw := middleware.NewAuth(auth.NewAuthenticator(testProvider()), errs)
	h := New(service.NewProjectService(store.NewInMemoryStore()), mw, errs, pagination.Bounds{Default: 20, Max: 100})

	r := gin.New()
	h.Register(r.Group("/api/v1"))
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

const validBody = `{"title":"Website","description":"A sufficiently long project description.","tech_stack":["React"]}`

func TestProjects_CreateRequiresAdmin(t *testing.T) {
	r := newTestRouter()

	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/v1/projects", "", validBody).Code)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, "/api/v1/projects", "user", validBody).Code)

	w := call(r, http.MethodPost, "/api/v1/projects", "admin", validBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var p domain.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.NotZero(t, p.ID)
}

func TestProjects_ValidationErrors(t *testing.T) {
	r := newTestRouter()

	w := call(r, http.MethodPost, "/api/v1/projects", "admin",
		`{"title":"Website","description":"A sufficiently long project description.","tech_stack":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "tech stack cannot be empty")

	w = call(r, http.MethodPost, "/api/v1/projects", "admin", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPatch, "/api/v1/projects/1", "admin", `{"unknown":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no changes provided")
}

func TestProjects_PublicReadAndDelete(t *testing.T) {
	r := newTestRouter()
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/v1/projects", "admin", validBody).Code)

	w := call(r, http.MethodGet, "/api/v1/projects?limit=1&page=1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page pagination.Page[domain.Project]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 1, page.Limit)

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/v1/projects/1", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/api/v1/projects/abc", "", "").Code)

	assert.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/api/v1/projects/1", "admin", "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodDelete, "/api/v1/projects/1", "admin", "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/v1/projects/1", "", "").Code)
}

func TestProjects_Export(t *testing.T) {
	r := newTestRouter()
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/v1/projects", "admin", validBody).Code)

	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/api/v1/projects/admin/export", "user", "").Code)

	w := call(r, http.MethodGet, "/api/v1/projects/admin/export", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"projects_export_")

	var body struct {
		Count    int              `json:"count"`
		Projects []domain.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}
