package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
)

type fakeSessionRepo struct {
	rows    map[int64]*models.Session
	created *models.Session
	nextID  int64
}

func (f *fakeSessionRepo) List(context.Context) ([]models.Session, error) {
	out := []models.Session{}
	for _, s := range f.rows {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSessionRepo) FindByID(_ context.Context, id int64) (*models.Session, error) {
	if s, ok := f.rows[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSessionRepo) Create(_ context.Context, s *models.Session) error {
	f.nextID++
	s.ID = f.nextID
	if f.rows == nil {
		f.rows = map[int64]*models.Session{}
	}
	f.rows[s.ID] = s
	f.created = s
	return nil
}

func (f *fakeSessionRepo) Update(_ context.Context, s *models.Session) error {
	if _, ok := f.rows[s.ID]; !ok {
		return sql.ErrNoRows
	}
	f.rows[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func sessionRequest() SessionRequest {
	return SessionRequest{
		Name:      "SESSION25",
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestSessionCreateDefaultsToOngoing(t *testing.T) {
	repo := &fakeSessionRepo{}
	svc := NewSessionService(repo, nil, nil)

	session, err := svc.Create(context.Background(), sessionRequest())
	require.NoError(t, err)
	assert.Equal(t, models.SessionOngoing, session.State)
}

func TestSessionCreateMissingName(t *testing.T) {
	svc := NewSessionService(&fakeSessionRepo{}, nil, nil)

	req := sessionRequest()
	req.Name = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestSessionUpdateKeepsStateWhenOmitted(t *testing.T) {
	repo := &fakeSessionRepo{rows: map[int64]*models.Session{
		1: {ID: 1, Name: "SESSION25", State: models.SessionPostponed},
	}}
	svc := NewSessionService(repo, nil, nil)

	session, err := svc.Update(context.Background(), 1, sessionRequest())
	require.NoError(t, err)
	assert.Equal(t, models.SessionPostponed, session.State)
}

func TestSessionGetMissing(t *testing.T) {
	svc := NewSessionService(&fakeSessionRepo{rows: map[int64]*models.Session{}}, nil, nil)

	_, err := svc.Get(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestSessionDeleteMissing(t *testing.T) {
	svc := NewSessionService(&fakeSessionRepo{rows: map[int64]*models.Session{}}, nil, nil)

	err := svc.Delete(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}
