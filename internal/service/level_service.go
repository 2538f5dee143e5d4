package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
)

type levelRepository interface {
	List(ctx context.Context) ([]models.LevelWithSession, error)
	FindByID(ctx context.Context, id int64) (*models.LevelWithSession, error)
	Create(ctx context.Context, level *models.Level) error
	Update(ctx context.Context, level *models.Level) error
	Delete(ctx context.Context, id int64) error
}

type sessionResolver interface {
	FindByID(ctx context.Context, id int64) (*models.Session, error)
}

// LevelRequest holds payload for creating or updating a level.
type LevelRequest struct {
	Name      string `json:"name" validate:"required"`
	SessionID int64  `json:"sessionId" validate:"required"`
}

// LevelService handles level use-cases.
type LevelService struct {
	repo      levelRepository
	sessions  sessionResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLevelService constructs a LevelService.
func NewLevelService(repo levelRepository, sessions sessionResolver, validate *validator.Validate, logger *zap.Logger) *LevelService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LevelService{repo: repo, sessions: sessions, validator: validate, logger: logger}
}

// List returns all levels with their sessions resolved.
func (s *LevelService) List(ctx context.Context) ([]models.LevelWithSession, error) {
	levels, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list levels")
	}
	return levels, nil
}

// Get returns one level with its session resolved.
func (s *LevelService) Get(ctx context.Context, id int64) (*models.LevelWithSession, error) {
	level, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "level not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load level")
	}
	return level, nil
}

// Create stores a new level after confirming the owning session exists.
func (s *LevelService) Create(ctx context.Context, req LevelRequest) (*models.LevelWithSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and session are required")
	}
	if err := s.ensureSession(ctx, req.SessionID); err != nil {
		return nil, err
	}

	level := &models.Level{Name: req.Name, SessionID: req.SessionID}
	if err := s.repo.Create(ctx, level); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create level")
	}

	return s.Get(ctx, level.ID)
}

// Update modifies an existing level, re-validating the session link.
func (s *LevelService) Update(ctx context.Context, id int64, req LevelRequest) (*models.LevelWithSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and session are required")
	}
	if err := s.ensureSession(ctx, req.SessionID); err != nil {
		return nil, err
	}

	level := &models.Level{ID: id, Name: req.Name, SessionID: req.SessionID}
	if err := s.repo.Update(ctx, level); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "level not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update level")
	}

	return s.Get(ctx, id)
}

// Delete removes a level; deleting a missing one is NotFound.
func (s *LevelService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "level not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete level")
	}
	return nil
}

func (s *LevelService) ensureSession(ctx context.Context, id int64) error {
	if _, err := s.sessions.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return nil
}
