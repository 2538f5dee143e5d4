package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
	"github.com/RInot-Aikcraft/cours/pkg/jobs"
)

// maxSuggestions caps how many username candidates a single request returns.
const maxSuggestions = 8

type accountRepository interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernamesWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// AccountService answers availability checks and generates username
// suggestions. Both are pure reads; nothing here mutates storage.
type AccountService struct {
	repo   accountRepository
	checks *jobs.Superseder
	logger *zap.Logger
	now    func() time.Time
}

// NewAccountService constructs an AccountService.
func NewAccountService(repo accountRepository, checks *jobs.Superseder, logger *zap.Logger) *AccountService {
	if checks == nil {
		checks = jobs.NewSuperseder(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{repo: repo, checks: checks, logger: logger, now: time.Now}
}

// CheckUsername reports whether the exact username is free. A newer check
// for the username field cancels this one mid-flight.
func (s *AccountService) CheckUsername(ctx context.Context, username string) (*models.AvailabilityResult, error) {
	if username == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "username is required")
	}

	var result *models.AvailabilityResult
	err := s.checks.Run(ctx, "username", func(runCtx context.Context) error {
		exists, err := s.repo.UsernameExists(runCtx, username)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
		}
		result = availability(exists, "this username is already taken", "this username is available")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CheckEmail reports whether the exact email is free, superseding any
// in-flight check for the email field.
func (s *AccountService) CheckEmail(ctx context.Context, email string) (*models.AvailabilityResult, error) {
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}

	var result *models.AvailabilityResult
	err := s.checks.Run(ctx, "email", func(runCtx context.Context) error {
		exists, err := s.repo.EmailExists(runCtx, email)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
		}
		result = availability(exists, "this email is already in use", "this email is available")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SuggestUsernames produces up to eight free candidates derived from the
// base: the normalized base itself, numeric suffixes 1-10, then a fixed set
// of templated variants. Existence is resolved against one prefix query.
func (s *AccountService) SuggestUsernames(ctx context.Context, baseUsername string) ([]string, error) {
	if baseUsername == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "base username is required")
	}

	base := normalizeUsername(baseUsername)
	existing, err := s.repo.UsernamesWithPrefix(ctx, base)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing usernames")
	}

	taken := make(map[string]struct{}, len(existing))
	for _, username := range existing {
		taken[username] = struct{}{}
	}

	suggestions := make([]string, 0, maxSuggestions)
	free := func(candidate string) bool {
		_, ok := taken[candidate]
		return !ok
	}

	if free(base) {
		suggestions = append(suggestions, base)
	}

	for i := 1; i <= 10 && len(suggestions) < maxSuggestions; i++ {
		if candidate := fmt.Sprintf("%s%d", base, i); free(candidate) {
			suggestions = append(suggestions, candidate)
		}
	}

	variants := []string{
		base + "_official",
		fmt.Sprintf("%s_%d", base, s.now().Year()),
		base + "_user",
		"the_" + base,
		base + "123",
	}
	for _, candidate := range variants {
		if len(suggestions) >= maxSuggestions {
			break
		}
		if free(candidate) {
			suggestions = append(suggestions, candidate)
		}
	}

	return suggestions, nil
}

// normalizeUsername lower-cases the base and strips everything outside
// [a-z0-9].
func normalizeUsername(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func availability(exists bool, takenMsg, freeMsg string) *models.AvailabilityResult {
	if exists {
		return &models.AvailabilityResult{Available: false, Message: takenMsg}
	}
	return &models.AvailabilityResult{Available: true, Message: freeMsg}
}
