package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/roomify-app/roomify-backend/internal/auth/middleware"
	"github.com/roomify-app/roomify-backend/internal/auth/repository"
	"github.com/roomify-app/roomify-backend/internal/auth/service"
	"github.com/roomify-app/roomify-backend/internal/storage/kv"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := service.NewAuthService(repository.NewUserRepository(kv.NewRedisStore(client, "test:")))
	r := gin.New()
	g := r.Group("/api/auth")
	g.Use(authmw.FirebaseAuthMiddleware(nil, authmw.Options{AllowDevHeader: true}))
	New(svc, nil).Register(g)
	return r
}

func send(r *gin.Engine, method, path, uid, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("X-User-Id", uid)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeUser(t *testing.T, w *httptest.ResponseRecorder) UserResponse {
	t.Helper()
	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetProfile_CreatesOnFirstUse(t *testing.T) {
	r := setupRouter(t)

	w := send(r, http.MethodGet, "/api/auth/me", "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeUser(t, w)
	assert.Equal(t, "user-1", resp.User.UID)
	assert.Equal(t, "user-1", resp.User.Username)
	assert.NotNil(t, resp.User.LastLoginAt)

	w = send(r, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSyncThenUpdate(t *testing.T) {
	r := setupRouter(t)

	w := send(r, http.MethodPost, "/api/auth/sync", "user-1", `{"email":"ada@example.com","displayName":"Ada"}`)
	require.Equal(t, http.StatusOK, w.Code)
	synced := decodeUser(t, w)
	assert.Equal(t, "ada", synced.User.Username)
	require.NotNil(t, synced.User.DisplayName)
	assert.Equal(t, "Ada", *synced.User.DisplayName)

	w = send(r, http.MethodPatch, "/api/auth/me", "user-1", `{"username":"ada.l"}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeUser(t, w)
	assert.Equal(t, "ada.l", updated.User.Username)
	assert.Equal(t, "ada@example.com", updated.User.Email)
	assert.Equal(t, synced.User.CreatedAt.Truncate(time.Second), updated.User.CreatedAt.Truncate(time.Second))

	// a later sign-in keeps the chosen username
	w = send(r, http.MethodPost, "/api/auth/sync", "user-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada.l", decodeUser(t, w).User.Username)
}

func TestUpdateProfile_Errors(t *testing.T) {
	r := setupRouter(t)

	w := send(r, http.MethodPatch, "/api/auth/me", "nobody", `{"username":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	send(r, http.MethodPost, "/api/auth/sync", "user-1", "")
	w = send(r, http.MethodPatch, "/api/auth/me", "user-1", `{"username":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPatch, "/api/auth/me", "user-1", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
