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

type groupRepository interface {
	List(ctx context.Context) ([]models.GroupWithLevel, error)
	FindByID(ctx context.Context, id int64) (*models.GroupWithLevel, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, group *models.Group) error
	Delete(ctx context.Context, id int64) error
}

type levelResolver interface {
	FindByID(ctx context.Context, id int64) (*models.LevelWithSession, error)
}

// GroupRequest holds payload for creating or updating a group.
type GroupRequest struct {
	Name         string              `json:"name" validate:"required"`
	Capacity     int                 `json:"capacity" validate:"required,gt=0"`
	DeliveryType models.DeliveryType `json:"type" validate:"required,oneof=ON_SITE ONLINE HYBRID"`
	LevelID      int64               `json:"levelId" validate:"required"`
}

// GroupService handles group use-cases.
type GroupService struct {
	repo      groupRepository
	levels    levelResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGroupService constructs a GroupService.
func NewGroupService(repo groupRepository, levels levelResolver, validate *validator.Validate, logger *zap.Logger) *GroupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroupService{repo: repo, levels: levels, validator: validate, logger: logger}
}

// List returns all groups with their level chain resolved.
func (s *GroupService) List(ctx context.Context) ([]models.GroupWithLevel, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	return groups, nil
}

// Get returns one group with its level chain resolved.
func (s *GroupService) Get(ctx context.Context, id int64) (*models.GroupWithLevel, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	return group, nil
}

// Create stores a new group after confirming the owning level exists.
func (s *GroupService) Create(ctx context.Context, req GroupRequest) (*models.GroupWithLevel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, capacity, type and level are required")
	}
	if err := s.ensureLevel(ctx, req.LevelID); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:         req.Name,
		Capacity:     req.Capacity,
		DeliveryType: req.DeliveryType,
		LevelID:      req.LevelID,
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create group")
	}

	return s.Get(ctx, group.ID)
}

// Update modifies an existing group, re-validating the level link.
func (s *GroupService) Update(ctx context.Context, id int64, req GroupRequest) (*models.GroupWithLevel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, capacity, type and level are required")
	}
	if err := s.ensureLevel(ctx, req.LevelID); err != nil {
		return nil, err
	}

	group := &models.Group{
		ID:           id,
		Name:         req.Name,
		Capacity:     req.Capacity,
		DeliveryType: req.DeliveryType,
		LevelID:      req.LevelID,
	}
	if err := s.repo.Update(ctx, group); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update group")
	}

	return s.Get(ctx, id)
}

// Delete removes a group; deleting a missing one is NotFound.
func (s *GroupService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete group")
	}
	return nil
}

func (s *GroupService) ensureLevel(ctx context.Context, id int64) error {
	if _, err := s.levels.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "level not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load level")
	}
	return nil
}
