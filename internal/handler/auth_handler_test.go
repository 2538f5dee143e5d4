package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/RInot-Aikcraft/cours/internal/middleware"
	"github.com/RInot-Aikcraft/cours/internal/models"
	"github.com/RInot-Aikcraft/cours/internal/service"
)

type fakeUserStore struct {
	byUsername map[string]*models.User
	byID       map[int64]*models.User
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func newAuthHandlerFixture(t *testing.T) (*AuthHandler, *service.AuthService) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: 1, DisplayName: "Admin", Username: "admin", Email: "admin@example.com", PasswordHash: string(hash), Role: models.RoleAdmin}
	store := &fakeUserStore{
		byUsername: map[string]*models.User{"admin": user},
		byID:       map[int64]*models.User{1: user},
	}
	authSvc := service.NewAuthService(store, nil, nil, service.AuthConfig{Secret: "test-secret", TokenExpiry: time.Hour})
	return NewAuthHandler(authSvc), authSvc
}

func postJSON(t *testing.T, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return rec, c
}

func TestLoginHandlerSuccess(t *testing.T) {
	h, _ := newAuthHandlerFixture(t)

	rec, c := postJSON(t, `{"username":"admin","password":"secret123"}`)
	h.Login(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
}

func TestLoginHandlerUnknownUser(t *testing.T) {
	h, _ := newAuthHandlerFixture(t)

	rec, c := postJSON(t, `{"username":"ghost","password":"secret123"}`)
	h.Login(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	h, _ := newAuthHandlerFixture(t)

	rec, c := postJSON(t, `{"username":"admin","password":"nope"}`)
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginHandlerMalformedBody(t *testing.T) {
	h, _ := newAuthHandlerFixture(t)

	rec, c := postJSON(t, `{"username":`)
	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeHandlerReturnsUser(t *testing.T) {
	h, _ := newAuthHandlerFixture(t)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/me", nil)
	c.Set(middleware.ContextUserKey, &models.Claims{UserID: 1, Username: "admin"})

	h.Me(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]models.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "admin", body["user"].Username)
}

func TestMeHandlerWithoutClaims(t *testing.T) {
	h, _ := newAuthHandlerFixture(t)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/me", nil)

	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	_, authSvc := newAuthHandlerFixture(t)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sessions", nil)

	middleware.JWT(authSvc)(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, c.IsAborted())
}

func TestJWTMiddlewareRejectsMalformedHeader(t *testing.T) {
	_, authSvc := newAuthHandlerFixture(t)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/sessions", nil)
	c.Request.Header.Set("Authorization", "Token abc")

	middleware.JWT(authSvc)(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
