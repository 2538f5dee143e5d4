package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.PublicUser, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// CreateUserRequest registers a standalone account.
type CreateUserRequest struct {
	DisplayName string          `json:"displayName" validate:"required"`
	Username    string          `json:"username" validate:"required,min=3"`
	Email       string          `json:"email" validate:"required,email"`
	Password    string          `json:"password" validate:"required,min=6"`
	Contact     *string         `json:"contact"`
	Role        models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN TEACHER STUDENT STAFF"`
}

// UpdateUserRequest modifies an account's profile fields.
type UpdateUserRequest struct {
	DisplayName string          `json:"displayName" validate:"required"`
	Username    string          `json:"username" validate:"required,min=3"`
	Email       string          `json:"email" validate:"required,email"`
	Contact     *string         `json:"contact"`
	Role        models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN TEACHER STUDENT STAFF"`
}

// UserService handles account use-cases.
type UserService struct {
	repo      userRepository
	cache     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo userRepository, cache statsInvalidator, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns all accounts without credential fields.
func (s *UserService) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// Get returns one account without credential fields.
func (s *UserService) Get(ctx context.Context, id int64) (*models.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	public := user.Public()
	return &public, nil
}

// Create registers an account. Taken usernames or emails abort with
// validation errors.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.PublicUser, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing or invalid user fields")
	}

	if taken, err := s.repo.UsernameExists(ctx, req.Username); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrValidation, "this username is already taken")
	}
	if taken, err := s.repo.EmailExists(ctx, req.Email); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrValidation, "this email is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}

	user := &models.User{
		DisplayName:  req.DisplayName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Contact:      req.Contact,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.invalidateStats(ctx)
	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	public := user.Public()
	return &public, nil
}

// Update modifies an account's profile fields. Passwords never change here.
func (s *UserService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*models.PublicUser, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing or invalid user fields")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if req.Username != current.Username {
		if taken, err := s.repo.UsernameExists(ctx, req.Username); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
		} else if taken {
			return nil, appErrors.Clone(appErrors.ErrValidation, "this username is already taken")
		}
	}
	if req.Email != current.Email {
		if taken, err := s.repo.EmailExists(ctx, req.Email); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
		} else if taken {
			return nil, appErrors.Clone(appErrors.ErrValidation, "this email is already in use")
		}
	}

	role := req.Role
	if role == "" {
		role = current.Role
	}

	user := &models.User{
		ID:          id,
		DisplayName: req.DisplayName,
		Username:    req.Username,
		Email:       req.Email,
		Contact:     req.Contact,
		Role:        role,
		CreatedAt:   current.CreatedAt,
	}
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	s.invalidateStats(ctx)
	public := user.Public()
	return &public, nil
}

// Delete removes an account; deleting a missing one is NotFound.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *UserService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "stats:*"); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}
