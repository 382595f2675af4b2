package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/auth"
	"github.com/inkwell-dev/inkwell/internal/community"
	"github.com/inkwell-dev/inkwell/internal/handlers"
	"github.com/inkwell-dev/inkwell/internal/leaver"
	"github.com/inkwell-dev/inkwell/internal/realtime"
	"github.com/inkwell-dev/inkwell/internal/router"
	"github.com/inkwell-dev/inkwell/internal/storage"
	"github.com/inkwell-dev/inkwell/internal/store"
	"github.com/inkwell-dev/inkwell/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type api struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	s := store.New(testutil.OpenDB(t))
	sentinel, err := leaver.Resolve(ctx, s, "leaver")
	require.NoError(t, err)

	disk, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)
	issuer, err := auth.NewIssuer("test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	log := zap.NewNop()
	origins := []string{"http://localhost:5173"}
	hub := realtime.NewHub(origins, log)
	svc := community.NewService(community.Options{
		Store:    s,
		Sentinel: sentinel,
		Files:    disk,
		Tokens:   issuer,
		Notifier: hub,
		Logger:   log,
	})

	h := handlers.New(svc, hub, handlers.CookieConfig{}, log)
	return &api{t: t, engine: router.NewRouter(h, svc, origins, log)}
}

func (a *api) do(method, path string, body interface{}, token string) (int, map[string]interface{}) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return a.serve(req)
}

func (a *api) serve(req *http.Request) (int, map[string]interface{}) {
	a.t.Helper()

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

// signup registers and logs in, returning the user id and access token
func (a *api) signup(username string) (uint, string) {
	a.t.Helper()

	code, out := a.do(http.MethodPost, "/api/auth/register", gin.H{"username": username, "password": "password123"}, "")
	require.Equal(a.t, http.StatusCreated, code, out)

	code, out = a.do(http.MethodPost, "/api/auth/login", gin.H{"username": username, "password": "password123"}, "")
	require.Equal(a.t, http.StatusOK, code, out)

	user := out["user"].(map[string]interface{})
	return uint(user["id"].(float64)), out["access_token"].(string)
}

func id(t *testing.T, out map[string]interface{}, key string) uint {
	t.Helper()
	obj, ok := out[key].(map[string]interface{})
	require.True(t, ok, out)
	return uint(obj["id"].(float64))
}

func TestHealthCheck(t *testing.T) {
	a := newAPI(t)
	code, out := a.do(http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", out["status"])
}

func TestAuthFlow(t *testing.T) {
	a := newAPI(t)
	_, token := a.signup("kim")

	code, out := a.do(http.MethodPost, "/api/auth/register", gin.H{"username": "kim", "password": "password123"}, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", out["kind"])

	code, out = a.do(http.MethodPost, "/api/auth/login", gin.H{"username": "kim", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthenticated", out["kind"])

	code, out = a.do(http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthenticated", out["kind"])

	code, out = a.do(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "kim", out["user"].(map[string]interface{})["username"])
	assert.NotContains(t, out["user"], "password_hash")

	code, _ = a.do(http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCommentThreadAndLikes(t *testing.T) {
	a := newAPI(t)
	aliceID, alice := a.signup("alice")
	_, bob := a.signup("bob")

	code, out := a.do(http.MethodPost, "/api/documents", gin.H{"title": "T", "text": "hello"}, alice)
	require.Equal(t, http.StatusCreated, code, out)
	docID := id(t, out, "document")

	code, out = a.do(http.MethodPost, fmt.Sprintf("/api/documents/%d/comments", docID), gin.H{"content": "X"}, alice)
	require.Equal(t, http.StatusCreated, code, out)
	commentID := id(t, out, "comment")

	code, out = a.do(http.MethodPost, fmt.Sprintf("/api/comments/%d/replies", commentID), gin.H{"content": "Y"}, bob)
	require.Equal(t, http.StatusCreated, code, out)
	reply := out["comment"].(map[string]interface{})
	assert.EqualValues(t, docID, reply["root_document_id"])
	assert.EqualValues(t, commentID, reply["root_comment_id"])

	code, out = a.do(http.MethodPost, "/api/comments", gin.H{"content": "nowhere"}, bob)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", out["kind"])

	likes := fmt.Sprintf("/api/comments/%d/likes", commentID)
	code, out = a.do(http.MethodPost, likes, nil, bob)
	require.Equal(t, http.StatusOK, code, out)
	assert.Len(t, out["liked_users"], 1)

	code, _ = a.do(http.MethodDelete, likes, nil, bob)
	require.Equal(t, http.StatusOK, code)
	code, out = a.do(http.MethodDelete, likes, nil, bob)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invariant_violation", out["kind"])

	code, out = a.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil, bob)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", out["kind"])

	code, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil, alice)
	require.Equal(t, http.StatusOK, code)

	code, out = a.do(http.MethodGet, fmt.Sprintf("/api/users/%d", aliceID), nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, out["user"].(map[string]interface{})["comments_count"])
	assert.EqualValues(t, 1, out["user"].(map[string]interface{})["number_of_documents"])

	code, out = a.do(http.MethodGet, "/api/comments/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation", out["kind"])
}

func TestDeleteAccount(t *testing.T) {
	a := newAPI(t)
	aliceID, alice := a.signup("alice")
	bobID, bob := a.signup("bob")

	code, out := a.do(http.MethodPost, "/api/documents", gin.H{"text": "hello"}, alice)
	require.Equal(t, http.StatusCreated, code, out)
	docID := id(t, out, "document")

	path := fmt.Sprintf("/api/users/%d", aliceID)

	code, _ = a.do(http.MethodDelete, path, gin.H{"password": "password123"}, bob)
	assert.Equal(t, http.StatusForbidden, code)

	code, out = a.do(http.MethodDelete, path, gin.H{"password": "nope"}, alice)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation", out["kind"])

	code, out = a.do(http.MethodDelete, path, gin.H{"password": "password123"}, alice)
	require.Equal(t, http.StatusOK, code, out)

	code, _ = a.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(http.MethodGet, "/api/auth/me", nil, alice)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, out = a.do(http.MethodGet, fmt.Sprintf("/api/documents/%d", docID), nil, "")
	require.Equal(t, http.StatusOK, code)
	author := out["document"].(map[string]interface{})["author"].(map[string]interface{})
	assert.Equal(t, "leaver", author["username"])

	code, _ = a.do(http.MethodGet, fmt.Sprintf("/api/users/%d", bobID), nil, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestFileUpload(t *testing.T) {
	a := newAPI(t)
	_, token := a.signup("uploader")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	code, out := a.serve(req)
	require.Equal(t, http.StatusCreated, code, out)
	fileID := id(t, out, "file")

	code, out = a.do(http.MethodGet, "/api/files", nil, token)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["files"], 1)

	code, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/files/%d", fileID), nil, token)
	assert.Equal(t, http.StatusOK, code)

	code, out = a.do(http.MethodPost, "/api/files", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation", out["kind"])
}
