package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniapp-user-backend/internal/common/middleware"
	"miniapp-user-backend/internal/features/auth/verifier"
	"miniapp-user-backend/internal/features/user/models"
	redisrepo "miniapp-user-backend/internal/features/user/repository/redis"
	"miniapp-user-backend/internal/features/user/service"
)

const (
	testToken = "7342037359:AAHI25ES9xCOMPWHwnd6V0fLNrNNKdJEH2Q"
	adminID   = int64(1)
)

// --- Helpers ---

func setupRouter(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	svc := service.NewUserService(redisrepo.NewUserRepository(client, "user:"), service.Config{}, zerolog.Nop())
	v := verifier.New(verifier.Config{}, zerolog.Nop())

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.HandleErrors(zerolog.Nop()), middleware.Recovery(zerolog.Nop()))
	api := r.Group("/api/v1")
	api.Use(middleware.TelegramInitData(v, testToken, zerolog.Nop()))
	NewUserHandler(svc, []int64{adminID}).RegisterRoutes(api)

	return r, mr
}

func initData(userID int64) string {
	return verifier.Sign(map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"query_id":  "AAHdF6IQAAAAAN0XohDhrOrc",
		"user":      fmt.Sprintf(`{"id":%d,"first_name":"John","last_name":"Doe","username":"johndoe"}`, userID),
	}, testToken)
}

func do(r http.Handler, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set(middleware.InitDataHeader, auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeUser(t *testing.T, w *httptest.ResponseRecorder) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	return u
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return string(body.Error.Code)
}

// --- Tests ---

func TestGetMeCreatesThenReturns(t *testing.T) {
	r, _ := setupRouter(t)

	first := do(r, http.MethodGet, "/api/v1/users/me", initData(42), nil)
	require.Equal(t, http.StatusCreated, first.Code)
	u := decodeUser(t, first)
	assert.Equal(t, "42", u.TelegramID)
	assert.Equal(t, "John", u.FirstName)
	assert.Equal(t, "en", u.LanguageCode)
	assert.Equal(t, map[string]interface{}{}, u.UserData)

	second := do(r, http.MethodGet, "/api/v1/users/me", initData(42), nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestGetMeRequiresInitData(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tampered := strings.Replace(initData(42), "johndoe", "janedoe", 1)
	w = do(r, http.MethodGet, "/api/v1/users/me", tampered, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_INIT_DATA", errorCode(t, w))
}

func TestUpdateMePartial(t *testing.T) {
	r, _ := setupRouter(t)
	created := decodeUser(t, do(r, http.MethodGet, "/api/v1/users/me", initData(42), nil))

	w := do(r, http.MethodPatch, "/api/v1/users/me", initData(42), map[string]interface{}{
		"first_name": "Johnny",
	})
	require.Equal(t, http.StatusOK, w.Code)
	u := decodeUser(t, w)
	assert.Equal(t, "Johnny", u.FirstName)
	assert.Equal(t, created.Username, u.Username)
	assert.Equal(t, created.LanguageCode, u.LanguageCode)
	assert.Equal(t, created.UserData, u.UserData)
	assert.False(t, u.UpdatedAt.Before(created.UpdatedAt))

	w = do(r, http.MethodPatch, "/api/v1/users/me", initData(42), map[string]interface{}{
		"user_data": map[string]interface{}{"theme": "dark"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	u = decodeUser(t, w)
	assert.Equal(t, "Johnny", u.FirstName)
	assert.Equal(t, map[string]interface{}{"theme": "dark"}, u.UserData)
}

func TestUpdateMeKeepsLargeIntegers(t *testing.T) {
	r, mr := setupRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodGet, "/api/v1/users/me", initData(42), nil).Code)

	w := do(r, http.MethodPatch, "/api/v1/users/me", initData(42), `{"user_data":{"n":9007199254740993,"f":1.5}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"n":9007199254740993`)
	assert.Equal(t, `{"f":1.5,"n":9007199254740993}`, mr.HGet("user:42", "user_data"))

	w = do(r, http.MethodGet, "/api/v1/users/me", initData(42), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"n":9007199254740993`)
}

func TestUpdateMeNotFound(t *testing.T) {
	r, mr := setupRouter(t)

	w := do(r, http.MethodPatch, "/api/v1/users/me", initData(42), map[string]interface{}{"first_name": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(t, w))
	assert.False(t, mr.Exists("user:42"))
}

func TestUpdateMeValidation(t *testing.T) {
	r, mr := setupRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodGet, "/api/v1/users/me", initData(42), nil).Code)

	w := do(r, http.MethodPatch, "/api/v1/users/me", initData(42), map[string]interface{}{"first_name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	w = do(r, http.MethodPatch, "/api/v1/users/me", initData(42), `{"user_data": [1, 2]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, w))

	w = do(r, http.MethodPatch, "/api/v1/users/me", initData(42), map[string]interface{}{
		"user_data": map[string]interface{}{"blob": strings.Repeat("x", 11000)},
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", errorCode(t, w))
	assert.Equal(t, "{}", mr.HGet("user:42", "user_data"))
	assert.Equal(t, "John", mr.HGet("user:42", "first_name"))
}

func TestUserExistsAdminOnly(t *testing.T) {
	r, _ := setupRouter(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodGet, "/api/v1/users/me", initData(42), nil).Code)

	w := do(r, http.MethodGet, "/api/v1/users/42/exists", initData(42), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/api/v1/users/42/exists", initData(adminID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"telegram_id":"42","exists":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/users/43/exists", initData(adminID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"telegram_id":"43","exists":false}`, w.Body.String())
}

func TestStoreUnavailable(t *testing.T) {
	r, mr := setupRouter(t)
	mr.Close()

	w := do(r, http.MethodGet, "/api/v1/users/me", initData(42), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", errorCode(t, w))
}
