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

type fakeEnrollmentRepo struct {
	rows    map[int64]*models.Enrollment
	details map[int64]*models.EnrollmentDetail
	created *models.Enrollment
	updated *models.Enrollment
	nextID  int64
}

func (f *fakeEnrollmentRepo) List(context.Context) ([]models.EnrollmentDetail, error) {
	out := []models.EnrollmentDetail{}
	for _, d := range f.details {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) FindByID(_ context.Context, id int64) (*models.EnrollmentDetail, error) {
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEnrollmentRepo) FindRow(_ context.Context, id int64) (*models.Enrollment, error) {
	if r, ok := f.rows[id]; ok {
		return r, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, e *models.Enrollment) error {
	f.nextID++
	e.ID = f.nextID
	f.created = e
	if f.details == nil {
		f.details = map[int64]*models.EnrollmentDetail{}
	}
	f.details[e.ID] = &models.EnrollmentDetail{Enrollment: *e}
	return nil
}

func (f *fakeEnrollmentRepo) Update(_ context.Context, e *models.Enrollment) error {
	if _, ok := f.rows[e.ID]; !ok {
		return sql.ErrNoRows
	}
	f.updated = e
	f.rows[e.ID] = e
	f.details[e.ID] = &models.EnrollmentDetail{Enrollment: *e}
	return nil
}

func (f *fakeEnrollmentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.rows, id)
	delete(f.details, id)
	return nil
}

type fakeGroupResolver struct {
	groups map[int64]*models.GroupWithLevel
}

func (f *fakeGroupResolver) FindByID(_ context.Context, id int64) (*models.GroupWithLevel, error) {
	if g, ok := f.groups[id]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

type fakeStudentResolver struct {
	students map[int64]*models.Student
}

func (f *fakeStudentResolver) FindRow(_ context.Context, id int64) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func groupChain(id int64, sessionName, levelName, groupName string) *models.GroupWithLevel {
	g := &models.GroupWithLevel{}
	g.ID = id
	g.Name = groupName
	g.Level.Name = levelName
	g.Level.Session.Name = sessionName
	return g
}

func TestEnrollmentCodeFormat(t *testing.T) {
	assert.Equal(t, "SES-NIV-GRP-007", EnrollmentCode("SESSION25", "NIV1", "GRPA", 7))
}

func TestEnrollmentCodeWideIDNotTruncated(t *testing.T) {
	assert.Equal(t, "SES-NIV-GRP-1234", EnrollmentCode("SESSION25", "NIV1", "GRPA", 1234))
}

func TestEnrollmentCodeShortNames(t *testing.T) {
	assert.Equal(t, "AB-X-GR-001", EnrollmentCode("ab", "x", "Gr", 1))
}

func TestEnrollmentCreateDerivesCode(t *testing.T) {
	repo := &fakeEnrollmentRepo{rows: map[int64]*models.Enrollment{}, details: map[int64]*models.EnrollmentDetail{}}
	groups := &fakeGroupResolver{groups: map[int64]*models.GroupWithLevel{
		10: groupChain(10, "SESSION25", "NIV1", "GRPA"),
	}}
	students := &fakeStudentResolver{students: map[int64]*models.Student{7: {ID: 7}}}
	svc := NewEnrollmentService(repo, groups, students, nil, nil)

	detail, err := svc.Create(context.Background(), EnrollmentRequest{GroupID: 10, StudentID: 7})
	require.NoError(t, err)
	assert.Equal(t, "SES-NIV-GRP-007", detail.EnrollmentCode)
	assert.Equal(t, models.PaymentUnpaid, repo.created.PaymentState)
}

func TestEnrollmentCreateMissingGroup(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	groups := &fakeGroupResolver{groups: map[int64]*models.GroupWithLevel{}}
	students := &fakeStudentResolver{students: map[int64]*models.Student{7: {ID: 7}}}
	svc := NewEnrollmentService(repo, groups, students, nil, nil)

	_, err := svc.Create(context.Background(), EnrollmentRequest{GroupID: 99, StudentID: 7})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
	assert.Nil(t, repo.created)
}

func TestEnrollmentCreateMissingStudent(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	groups := &fakeGroupResolver{groups: map[int64]*models.GroupWithLevel{
		10: groupChain(10, "SESSION25", "NIV1", "GRPA"),
	}}
	students := &fakeStudentResolver{students: map[int64]*models.Student{}}
	svc := NewEnrollmentService(repo, groups, students, nil, nil)

	_, err := svc.Create(context.Background(), EnrollmentRequest{GroupID: 10, StudentID: 7})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
	assert.Nil(t, repo.created)
}

func TestEnrollmentUpdateGroupChangeRederives(t *testing.T) {
	repo := &fakeEnrollmentRepo{
		rows: map[int64]*models.Enrollment{
			1: {ID: 1, EnrollmentCode: "SES-NIV-GRP-007", PaymentState: models.PaymentUnpaid, GroupID: 10, StudentID: 7},
		},
		details: map[int64]*models.EnrollmentDetail{1: {}},
	}
	groups := &fakeGroupResolver{groups: map[int64]*models.GroupWithLevel{
		20: groupChain(20, "WINTER26", "NIV2", "GRPB"),
	}}
	students := &fakeStudentResolver{students: map[int64]*models.Student{7: {ID: 7}}}
	svc := NewEnrollmentService(repo, groups, students, nil, nil)

	_, err := svc.Update(context.Background(), 1, EnrollmentRequest{GroupID: 20, StudentID: 7})
	require.NoError(t, err)
	assert.Equal(t, "WIN-NIV-GRP-007", repo.updated.EnrollmentCode)
}

func TestEnrollmentUpdatePaymentOnlyKeepsCode(t *testing.T) {
	repo := &fakeEnrollmentRepo{
		rows: map[int64]*models.Enrollment{
			1: {ID: 1, EnrollmentCode: "SES-NIV-GRP-007", PaymentState: models.PaymentUnpaid, GroupID: 10, StudentID: 7},
		},
		details: map[int64]*models.EnrollmentDetail{1: {}},
	}
	// No groups registered: the update must not resolve the chain at all.
	groups := &fakeGroupResolver{groups: map[int64]*models.GroupWithLevel{}}
	students := &fakeStudentResolver{students: map[int64]*models.Student{7: {ID: 7}}}
	svc := NewEnrollmentService(repo, groups, students, nil, nil)

	_, err := svc.Update(context.Background(), 1, EnrollmentRequest{GroupID: 10, StudentID: 7, PaymentState: models.PaymentPaid})
	require.NoError(t, err)
	assert.Equal(t, "SES-NIV-GRP-007", repo.updated.EnrollmentCode)
	assert.Equal(t, models.PaymentPaid, repo.updated.PaymentState)
}

func TestEnrollmentUpdateMissingNewGroup(t *testing.T) {
	repo := &fakeEnrollmentRepo{
		rows: map[int64]*models.Enrollment{
			1: {ID: 1, EnrollmentCode: "SES-NIV-GRP-007", PaymentState: models.PaymentUnpaid, GroupID: 10, StudentID: 7},
		},
		details: map[int64]*models.EnrollmentDetail{1: {}},
	}
	groups := &fakeGroupResolver{groups: map[int64]*models.GroupWithLevel{}}
	students := &fakeStudentResolver{students: map[int64]*models.Student{7: {ID: 7}}}
	svc := NewEnrollmentService(repo, groups, students, nil, nil)

	_, err := svc.Update(context.Background(), 1, EnrollmentRequest{GroupID: 99, StudentID: 7})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
	assert.Nil(t, repo.updated)
}

func TestEnrollmentDeleteMissing(t *testing.T) {
	repo := &fakeEnrollmentRepo{rows: map[int64]*models.Enrollment{}}
	svc := NewEnrollmentService(repo, &fakeGroupResolver{}, &fakeStudentResolver{}, nil, nil)

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}
