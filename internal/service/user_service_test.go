package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
)

type fakeUserRepo struct {
	byID      map[int64]*models.User
	usernames map[string]struct{}
	emails    map[string]struct{}
	created   *models.User
	updated   *models.User
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) List(context.Context) ([]models.PublicUser, error) {
	return []models.PublicUser{}, nil
}

func (f *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := f.usernames[username]
	return ok, nil
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.emails[email]
	return ok, nil
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	u.ID = 1
	f.created = u
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return sql.ErrNoRows
	}
	f.updated = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func validCreateUser() CreateUserRequest {
	return CreateUserRequest{
		DisplayName: "Grace Hopper",
		Username:    "grace",
		Email:       "grace@example.com",
		Password:    "secret123",
	}
}

func TestUserCreateHashesPassword(t *testing.T) {
	repo := &fakeUserRepo{usernames: map[string]struct{}{}, emails: map[string]struct{}{}}
	svc := NewUserService(repo, nil, nil, nil)

	user, err := svc.Create(context.Background(), validCreateUser())
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", repo.created.PasswordHash)
	assert.Equal(t, models.RoleStaff, user.Role)
}

func TestUserCreateMissingPassword(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, nil, nil, nil)

	req := validCreateUser()
	req.Password = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestUserCreateUsernameConflict(t *testing.T) {
	repo := &fakeUserRepo{usernames: map[string]struct{}{"grace": {}}, emails: map[string]struct{}{}}
	svc := NewUserService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), validCreateUser())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
	assert.Nil(t, repo.created)
}

func TestUserUpdateSkipsConflictCheckWhenUnchanged(t *testing.T) {
	repo := &fakeUserRepo{
		byID:      map[int64]*models.User{1: {ID: 1, Username: "grace", Email: "grace@example.com", Role: models.RoleAdmin}},
		usernames: map[string]struct{}{"grace": {}},
		emails:    map[string]struct{}{"grace@example.com": {}},
	}
	svc := NewUserService(repo, nil, nil, nil)

	user, err := svc.Update(context.Background(), 1, UpdateUserRequest{
		DisplayName: "Grace Hopper",
		Username:    "grace",
		Email:       "grace@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestUserDeleteMissing(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{byID: map[int64]*models.User{}}, nil, nil, nil)

	err := svc.Delete(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}
