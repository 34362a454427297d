package http

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/auth"
	"github.com/focitech/focitech-backend/internal/auth/middleware"
	"github.com/focitech/focitech-backend/internal/careers/service"
	"github.com/focitech/focitech-backend/internal/notify"
	"github.com/focitech/focitech-backend/internal/pagination"
	"github.com/focitech/focitech-backend/internal/store"
	"github.com/focitech/focitech-backend/internal/upload"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)
	provider := auth.ProviderFunc(func(_ context.Context, token string) (*auth.Identity, error) {
		if token == "admin" {
			return &auth.Identity{ID: "1", Email: "admin@co.io", Role: auth.RoleAdmin}, nil
		}
		return &auth.Identity{ID: "2", Email: "user@co.io"}, nil
	})
	errs := response.NewWriter(false)
	mw := middleware.NewAuth(auth.NewAuthenticator(provider), errs)

	root := t.TempDir()
	dir, err := upload.NewLocalDir(root, "/uploads")
	require.NoError(t, err)
	uploader := upload.NewUploader(dir, "resumes", upload.DefaultMaxBytes, upload.ResumeExtensions...)
	svc := service.NewCareersService(store.NewInMemoryStore(), uploader, notify.LogNotifier{})

	r := gin.New()
	New(svc, mw, errs, pagination.Bounds{Default: 20, Max: 100}, nil).Register(r.Group("/api/v1"))
	return r, root
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

func applyForm(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postApply(r http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/apply", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const openingBody = `{
	"title": "Backend Engineer",
	"department": "Engineering",
	"location": "Remote",
	"job_type": "full-time",
	"description": "Build and run our customer-facing services.",
	"requirements": "Three years of Go."
}`

var applicant = map[string]string{
	"name":      "Ada Lovelace",
	"email":     "ada@example.com",
	"job_id":    "1",
	"job_title": "Backend Engineer",
}

func TestOpeningRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodPost, "/api/v1/jobs/openings", "", openingBody).Code)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, "/api/v1/jobs/openings", "user", openingBody).Code)

	w := call(r, http.MethodPost, "/api/v1/jobs/openings", "admin", openingBody)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"is_active":true`)

	w = call(r, http.MethodGet, "/api/v1/jobs/openings?department=Engineering", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = call(r, http.MethodPatch, "/api/v1/jobs/openings/1", "admin", `{"is_active":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/v1/jobs/openings/1", "", "").Code)
	w = call(r, http.MethodGet, "/api/v1/jobs/openings", "", "")
	assert.Contains(t, w.Body.String(), `"total":0`)

	w = call(r, http.MethodGet, "/api/v1/jobs/admin/openings", "admin", "")
	assert.Contains(t, w.Body.String(), `"total":1`)
	w = call(r, http.MethodGet, "/api/v1/jobs/admin/openings?active=true", "admin", "")
	assert.Contains(t, w.Body.String(), `"total":0`)

	assert.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/api/v1/jobs/openings/1", "admin", "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodDelete, "/api/v1/jobs/openings/1", "admin", "").Code)
}

func TestApplyAndReview(t *testing.T) {
	r, root := newTestRouter(t)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/v1/jobs/openings", "admin", openingBody).Code)

	body, ct := applyForm(t, applicant, "My CV.pdf", []byte("%PDF-1.4"))
	w := postApply(r, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"id":1`)

	stored, err := filepath.Glob(filepath.Join(root, "resumes", "*_My_CV_*.pdf"))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	data, err := os.ReadFile(stored[0])
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	w = call(r, http.MethodGet, "/api/v1/jobs/applications?job_id=1&status=pending", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
	assert.Contains(t, w.Body.String(), `"resume_url":"/uploads/resumes/`)

	w = call(r, http.MethodPatch, "/api/v1/jobs/applications/1", "admin", `{"status":"reviewing"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"reviewing"`)

	w = call(r, http.MethodGet, "/api/v1/jobs/stats", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_applications":1`)
	assert.Contains(t, w.Body.String(), `"departments":["Engineering"]`)

	assert.Equal(t, http.StatusOK, call(r, http.MethodDelete, "/api/v1/jobs/applications/1", "admin", "").Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/api/v1/jobs/applications/1", "admin", "").Code)
}

func TestApply_Rejections(t *testing.T) {
	r, root := newTestRouter(t)

	body, ct := applyForm(t, applicant, "cv.pdf", []byte("%PDF"))
	w := postApply(r, body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "job opening not found or closed")

	body, ct = applyForm(t, applicant, "", nil)
	w = postApply(r, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")

	body, ct = applyForm(t, applicant, "cv.exe", []byte("MZ"))
	w = postApply(r, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file type not allowed")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApply_OversizedBodyRejectedBeforeParsing(t *testing.T) {
	r, root := newTestRouter(t)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/v1/jobs/openings", "admin", openingBody).Code)

	huge := bytes.Repeat([]byte("A"), int(upload.DefaultMaxBytes+formOverhead))
	body, ct := applyForm(t, applicant, "cv.pdf", huge)
	w := postApply(r, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file size exceeds 5MB limit")

	// Without a declared length the body is cut off while reading.
	body, ct = applyForm(t, applicant, "cv.pdf", huge)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/apply", body)
	req.Header.Set("Content-Type", ct)
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
