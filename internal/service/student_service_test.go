package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
)

type fakeStudentRepo struct {
	rows        map[int64]*models.Student
	nationalIDs map[string]int64
	created     *models.Student
	createdUser *models.User
	updated     *models.Student
	updatedUser struct{ username, email string }
}

func (f *fakeStudentRepo) List(context.Context) ([]models.StudentWithAccount, error) {
	return []models.StudentWithAccount{}, nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, id int64) (*models.StudentWithAccount, error) {
	if s, ok := f.rows[id]; ok {
		return &models.StudentWithAccount{Student: *s}, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) FindRow(_ context.Context, id int64) (*models.Student, error) {
	if s, ok := f.rows[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) ExistsByNationalID(_ context.Context, nationalID string, excludeID int64) (bool, error) {
	id, ok := f.nationalIDs[nationalID]
	if !ok {
		return false, nil
	}
	return excludeID == 0 || id != excludeID, nil
}

func (f *fakeStudentRepo) CreateWithAccount(_ context.Context, student *models.Student, user *models.User) error {
	user.ID = 100
	student.ID = 10
	student.UserID = user.ID
	f.created = student
	f.createdUser = user
	if f.rows == nil {
		f.rows = map[int64]*models.Student{}
	}
	f.rows[student.ID] = student
	return nil
}

func (f *fakeStudentRepo) UpdateWithAccount(_ context.Context, student *models.Student, username, email string) error {
	if _, ok := f.rows[student.ID]; !ok {
		return sql.ErrNoRows
	}
	f.updated = student
	f.updatedUser.username = username
	f.updatedUser.email = email
	return nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

type fakePhotoStore struct {
	saved   []string
	deleted []string
}

func (f *fakePhotoStore) SaveStream(originalName string, _ io.Reader) (string, error) {
	path := "/uploads/generated" + originalName
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakePhotoStore) Delete(publicPath string) error {
	f.deleted = append(f.deleted, publicPath)
	return nil
}

func validCreateStudent() CreateStudentRequest {
	return CreateStudentRequest{
		Name:       "Ada",
		Surname:    "Lovelace",
		BirthDate:  time.Date(2001, 5, 2, 0, 0, 0, 0, time.UTC),
		Address:    "1 Rue des Maths",
		NationalID: "NAT-001",
		Username:   "ada",
		Email:      "ada@example.com",
		Password:   "secret123",
	}
}

func TestStudentCreateBuildsAccount(t *testing.T) {
	repo := &fakeStudentRepo{nationalIDs: map[string]int64{}}
	accounts := &fakeAccountRepo{usernames: map[string]struct{}{}, emails: map[string]struct{}{}}
	svc := NewStudentService(repo, accounts, &fakePhotoStore{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), validCreateStudent())
	require.NoError(t, err)
	require.NotNil(t, repo.createdUser)
	assert.Equal(t, models.RoleStudent, repo.createdUser.Role)
	assert.Equal(t, "Ada Lovelace", repo.createdUser.DisplayName)
	assert.NotEqual(t, "secret123", repo.createdUser.PasswordHash)
	assert.Equal(t, models.StatusStudent, repo.created.Status)
}

func TestStudentCreateUsernameTaken(t *testing.T) {
	repo := &fakeStudentRepo{nationalIDs: map[string]int64{}}
	accounts := &fakeAccountRepo{usernames: map[string]struct{}{"ada": {}}, emails: map[string]struct{}{}}
	svc := NewStudentService(repo, accounts, &fakePhotoStore{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), validCreateStudent())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
	assert.Nil(t, repo.created)
}

func TestStudentCreateDuplicateNationalID(t *testing.T) {
	repo := &fakeStudentRepo{nationalIDs: map[string]int64{"NAT-001": 5}}
	accounts := &fakeAccountRepo{usernames: map[string]struct{}{}, emails: map[string]struct{}{}}
	svc := NewStudentService(repo, accounts, &fakePhotoStore{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), validCreateStudent())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestStudentUpdateReplacesPhoto(t *testing.T) {
	oldPath := "/uploads/old.jpg"
	repo := &fakeStudentRepo{
		rows: map[int64]*models.Student{
			10: {ID: 10, Name: "Ada", Surname: "Lovelace", NationalID: "NAT-001", Status: models.StatusStudent, PhotoPath: &oldPath, UserID: 100},
		},
		nationalIDs: map[string]int64{"NAT-001": 10},
	}
	photos := &fakePhotoStore{}
	svc := NewStudentService(repo, &fakeAccountRepo{}, photos, nil, nil, nil)

	req := UpdateStudentRequest{
		Name:       "Ada",
		Surname:    "Lovelace",
		BirthDate:  time.Date(2001, 5, 2, 0, 0, 0, 0, time.UTC),
		Address:    "1 Rue des Maths",
		NationalID: "NAT-001",
		Username:   "ada",
		Email:      "ada@example.com",
		PhotoName:  "new.png",
		Photo:      strings.NewReader("png-bytes"),
	}
	student, err := svc.Update(context.Background(), 10, req)
	require.NoError(t, err)
	require.NotNil(t, student.PhotoPath)
	assert.Contains(t, *student.PhotoPath, "/uploads/")
	assert.Equal(t, []string{oldPath}, photos.deleted)
	assert.Equal(t, "ada", repo.updatedUser.username)
}

func TestStudentUpdateMissing(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{rows: map[int64]*models.Student{}}, &fakeAccountRepo{}, &fakePhotoStore{}, nil, nil, nil)

	_, err := svc.Update(context.Background(), 99, UpdateStudentRequest{
		Name: "A", Surname: "B", BirthDate: time.Now(), Address: "addr",
		NationalID: "N", Username: "abc", Email: "a@b.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestStudentDeleteMissing(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{rows: map[int64]*models.Student{}}, &fakeAccountRepo{}, &fakePhotoStore{}, nil, nil, nil)

	err := svc.Delete(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}
