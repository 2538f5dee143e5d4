package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
)

const (
	statsOverviewKey = "stats:overview"
	statsRecentKey   = "stats:recent"
	recentUsersLimit = 5
)

type statsUserRepository interface {
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	Recent(ctx context.Context, limit int) ([]models.PublicUser, error)
}

// StatsService computes dashboard aggregates, cached when Redis is up.
type StatsService struct {
	users  statsUserRepository
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
}

// NewStatsService constructs a StatsService.
func NewStatsService(users statsUserRepository, cache *CacheService, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{users: users, cache: cache, logger: logger, now: time.Now}
}

// Overview returns the dashboard stat cards. Results are served from cache
// when available; account mutations invalidate the stats keys.
func (s *StatsService) Overview(ctx context.Context) ([]models.StatCard, error) {
	var cards []models.StatCard
	if hit, _ := s.cache.Get(ctx, statsOverviewKey, &cards); hit {
		return cards, nil
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count users")
	}

	weekAgo := s.now().UTC().AddDate(0, 0, -7)
	newThisWeek, err := s.users.CountSince(ctx, weekAgo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count new users")
	}

	cards = []models.StatCard{
		{Title: "Total Users", Value: total, Description: "All registered accounts", Icon: "users"},
		{Title: "New This Week", Value: newThisWeek, Description: "Accounts created in the last 7 days", Icon: "user-plus"},
	}

	if err := s.cache.Set(ctx, statsOverviewKey, cards, 0); err != nil {
		s.logger.Warn("failed to cache stats overview", zap.Error(err))
	}
	return cards, nil
}

// Recent returns the five most recently created accounts.
func (s *StatsService) Recent(ctx context.Context) ([]models.PublicUser, error) {
	var users []models.PublicUser
	if hit, _ := s.cache.Get(ctx, statsRecentKey, &users); hit {
		return users, nil
	}

	users, err := s.users.Recent(ctx, recentUsersLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent users")
	}

	if err := s.cache.Set(ctx, statsRecentKey, users, 0); err != nil {
		s.logger.Warn("failed to cache recent users", zap.Error(err))
	}
	return users, nil
}
