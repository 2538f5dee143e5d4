package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RInot-Aikcraft/cours/internal/models"
)

type fakeStatsRepo struct {
	total     int
	sinceArg  time.Time
	since     int
	recent    []models.PublicUser
	recentArg int
}

func (f *fakeStatsRepo) Count(context.Context) (int, error) {
	return f.total, nil
}

func (f *fakeStatsRepo) CountSince(_ context.Context, since time.Time) (int, error) {
	f.sinceArg = since
	return f.since, nil
}

func (f *fakeStatsRepo) Recent(_ context.Context, limit int) ([]models.PublicUser, error) {
	f.recentArg = limit
	return f.recent, nil
}

func TestStatsOverviewCards(t *testing.T) {
	repo := &fakeStatsRepo{total: 42, since: 3}
	svc := NewStatsService(repo, nil, nil)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	cards, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 42, cards[0].Value)
	assert.Equal(t, 3, cards[1].Value)
	assert.Equal(t, now.AddDate(0, 0, -7), repo.sinceArg)
}

func TestStatsRecentLimit(t *testing.T) {
	repo := &fakeStatsRepo{recent: []models.PublicUser{{ID: 1}, {ID: 2}}}
	svc := NewStatsService(repo, nil, nil)

	users, err := svc.Recent(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 5, repo.recentArg)
}
