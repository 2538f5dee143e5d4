package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	usernames map[string]struct{}
	emails    map[string]struct{}
}

func (f *fakeAccountRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := f.usernames[username]
	return ok, nil
}

func (f *fakeAccountRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.emails[email]
	return ok, nil
}

func (f *fakeAccountRepo) UsernamesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	out := []string{}
	for u := range f.usernames {
		if len(u) >= len(prefix) && u[:len(prefix)] == prefix {
			out = append(out, u)
		}
	}
	return out, nil
}

func newAccountService(repo *fakeAccountRepo) *AccountService {
	svc := NewAccountService(repo, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCheckUsernameTaken(t *testing.T) {
	svc := newAccountService(&fakeAccountRepo{usernames: map[string]struct{}{"john": {}}})

	result, err := svc.CheckUsername(context.Background(), "john")
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.NotEmpty(t, result.Message)
}

func TestCheckUsernameFree(t *testing.T) {
	svc := newAccountService(&fakeAccountRepo{usernames: map[string]struct{}{}})

	result, err := svc.CheckUsername(context.Background(), "john")
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckEmailTaken(t *testing.T) {
	svc := newAccountService(&fakeAccountRepo{emails: map[string]struct{}{"a@b.com": {}}})

	result, err := svc.CheckEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.False(t, result.Available)
}

func TestSuggestUsernamesExcludesTakenBase(t *testing.T) {
	svc := newAccountService(&fakeAccountRepo{usernames: map[string]struct{}{"john": {}}})

	suggestions, err := svc.SuggestUsernames(context.Background(), "john")
	require.NoError(t, err)
	assert.NotContains(t, suggestions, "john")
	assert.Equal(t, "john1", suggestions[0])
	assert.LessOrEqual(t, len(suggestions), 8)
}

func TestSuggestUsernamesFreeBaseFirst(t *testing.T) {
	svc := newAccountService(&fakeAccountRepo{usernames: map[string]struct{}{}})

	suggestions, err := svc.SuggestUsernames(context.Background(), "John.Doe!")
	require.NoError(t, err)
	assert.Equal(t, "johndoe", suggestions[0])
	assert.Equal(t, "johndoe1", suggestions[1])
	assert.Len(t, suggestions, 8)
}

func TestSuggestUsernamesCappedAtEight(t *testing.T) {
	taken := map[string]struct{}{}
	svc := newAccountService(&fakeAccountRepo{usernames: taken})

	suggestions, err := svc.SuggestUsernames(context.Background(), "base")
	require.NoError(t, err)
	assert.Len(t, suggestions, 8)
	// base, base1..base7: the numeric suffixes fill before any variant.
	assert.Equal(t, []string{"base", "base1", "base2", "base3", "base4", "base5", "base6", "base7"}, suggestions)
}

func TestSuggestUsernamesFallsThroughToVariants(t *testing.T) {
	taken := map[string]struct{}{"john": {}}
	for i := 1; i <= 10; i++ {
		taken[fmt.Sprintf("john%d", i)] = struct{}{}
	}
	svc := newAccountService(&fakeAccountRepo{usernames: taken})

	suggestions, err := svc.SuggestUsernames(context.Background(), "john")
	require.NoError(t, err)
	assert.Equal(t, []string{"john_official", "john_2026", "john_user", "the_john", "john123"}, suggestions)
}
