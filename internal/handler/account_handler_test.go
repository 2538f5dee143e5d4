package handler

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

	"github.com/RInot-Aikcraft/cours/internal/service"
)

type fakeAccountStore struct {
	usernames map[string]struct{}
	emails    map[string]struct{}
}

func (f *fakeAccountStore) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := f.usernames[username]
	return ok, nil
}

func (f *fakeAccountStore) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.emails[email]
	return ok, nil
}

func (f *fakeAccountStore) UsernamesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	out := []string{}
	for u := range f.usernames {
		if strings.HasPrefix(u, prefix) {
			out = append(out, u)
		}
	}
	return out, nil
}

func accountPost(t *testing.T, path, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return rec, c
}

func TestCheckUsernameHandlerTaken(t *testing.T) {
	svc := service.NewAccountService(&fakeAccountStore{usernames: map[string]struct{}{"john": {}}}, nil, nil)
	h := NewAccountHandler(svc)

	rec, c := accountPost(t, "/check-username", `{"username":"john"}`)
	h.CheckUsername(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Available bool   `json:"available"`
		Message   string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Available)
	assert.NotEmpty(t, body.Message)
}

func TestCheckEmailHandlerFree(t *testing.T) {
	svc := service.NewAccountService(&fakeAccountStore{emails: map[string]struct{}{}}, nil, nil)
	h := NewAccountHandler(svc)

	rec, c := accountPost(t, "/check-email", `{"email":"free@example.com"}`)
	h.CheckEmail(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Available)
}

func TestCheckUsernameHandlerMissingField(t *testing.T) {
	svc := service.NewAccountService(&fakeAccountStore{}, nil, nil)
	h := NewAccountHandler(svc)

	rec, c := accountPost(t, "/check-username", `{}`)
	h.CheckUsername(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestUsernamesHandler(t *testing.T) {
	svc := service.NewAccountService(&fakeAccountStore{usernames: map[string]struct{}{"john": {}}}, nil, nil)
	h := NewAccountHandler(svc)

	rec, c := accountPost(t, "/suggest-usernames", `{"baseUsername":"john"}`)
	h.SuggestUsernames(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body.Suggestions, "john")
	assert.LessOrEqual(t, len(body.Suggestions), 8)
}
