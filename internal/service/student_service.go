package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentWithAccount, error)
	FindByID(ctx context.Context, id int64) (*models.StudentWithAccount, error)
	FindRow(ctx context.Context, id int64) (*models.Student, error)
	ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error)
	CreateWithAccount(ctx context.Context, student *models.Student, user *models.User) error
	UpdateWithAccount(ctx context.Context, student *models.Student, username, email string) error
	Delete(ctx context.Context, id int64) error
}

type accountChecker interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type photoStore interface {
	SaveStream(originalName string, r io.Reader) (string, error)
	Delete(publicPath string) error
}

type statsInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// CreateStudentRequest registers a student together with its account.
type CreateStudentRequest struct {
	Name       string               `json:"name" validate:"required"`
	Surname    string               `json:"surname" validate:"required"`
	BirthDate  time.Time            `json:"birthDate" validate:"required"`
	Address    string               `json:"address" validate:"required"`
	NationalID string               `json:"nationalId" validate:"required"`
	Status     models.StudentStatus `json:"status" validate:"omitempty,oneof=STUDENT EMPLOYEE"`
	Username   string               `json:"username" validate:"required,min=3"`
	Email      string               `json:"email" validate:"required,email"`
	Password   string               `json:"password" validate:"required,min=6"`
}

// UpdateStudentRequest carries the multipart form fields of a student update.
// Photo is optional; when present it replaces the stored photo.
type UpdateStudentRequest struct {
	Name       string               `validate:"required"`
	Surname    string               `validate:"required"`
	BirthDate  time.Time            `validate:"required"`
	Address    string               `validate:"required"`
	NationalID string               `validate:"required"`
	Status     models.StudentStatus `validate:"omitempty,oneof=STUDENT EMPLOYEE"`
	Username   string               `validate:"required,min=3"`
	Email      string               `validate:"required,email"`
	PhotoName  string
	Photo      io.Reader
}

// StudentService handles student use-cases. Every student owns exactly one
// account; creation and update touch both atomically.
type StudentService struct {
	repo      studentRepository
	accounts  accountChecker
	photos    photoStore
	cache     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, accounts accountChecker, photos photoStore, cache statsInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, accounts: accounts, photos: photos, cache: cache, validator: validate, logger: logger}
}

// List returns all students with account fields.
func (s *StudentService) List(ctx context.Context) ([]models.StudentWithAccount, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one student with account fields.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentWithAccount, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a student and its account in one transaction. Taken
// usernames, emails or national ids abort with validation errors before
// anything is written.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.StudentWithAccount, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing or invalid student fields")
	}
	if err := s.checkConflicts(ctx, req.Username, req.Email, req.NationalID, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	status := req.Status
	if status == "" {
		status = models.StatusStudent
	}

	user := &models.User{
		DisplayName:  req.Name + " " + req.Surname,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
	}
	student := &models.Student{
		Name:       req.Name,
		Surname:    req.Surname,
		BirthDate:  req.BirthDate,
		Address:    req.Address,
		NationalID: req.NationalID,
		Status:     status,
	}
	if err := s.repo.CreateWithAccount(ctx, student, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.invalidateStats(ctx)
	s.logger.Info("student created", zap.Int64("student_id", student.ID), zap.String("username", user.Username))
	return s.Get(ctx, student.ID)
}

// Update modifies a student and its account username/email. A new photo
// replaces the stored file; the old file is removed best-effort.
func (s *StudentService) Update(ctx context.Context, id int64, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing or invalid student fields")
	}

	current, err := s.repo.FindRow(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if req.NationalID != current.NationalID {
		taken, err := s.repo.ExistsByNationalID(ctx, req.NationalID, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check national id")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrValidation, "a student with this national id already exists")
		}
	}

	photoPath := current.PhotoPath
	if req.Photo != nil {
		saved, err := s.photos.SaveStream(req.PhotoName, req.Photo)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
		}
		if current.PhotoPath != nil {
			if err := s.photos.Delete(*current.PhotoPath); err != nil {
				s.logger.Warn("failed to remove previous photo", zap.String("path", *current.PhotoPath), zap.Error(err))
			}
		}
		photoPath = &saved
	}

	status := req.Status
	if status == "" {
		status = current.Status
	}

	student := &models.Student{
		ID:         id,
		Name:       req.Name,
		Surname:    req.Surname,
		BirthDate:  req.BirthDate,
		Address:    req.Address,
		NationalID: req.NationalID,
		Status:     status,
		PhotoPath:  photoPath,
		UserID:     current.UserID,
	}
	if err := s.repo.UpdateWithAccount(ctx, student, req.Username, req.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	s.invalidateStats(ctx)
	return student, nil
}

// Delete removes a student; deleting a missing one is NotFound.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *StudentService) checkConflicts(ctx context.Context, username, email, nationalID string, excludeID int64) error {
	if taken, err := s.accounts.UsernameExists(ctx, username); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	} else if taken {
		return appErrors.Clone(appErrors.ErrValidation, "this username is already taken")
	}
	if taken, err := s.accounts.EmailExists(ctx, email); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	} else if taken {
		return appErrors.Clone(appErrors.ErrValidation, "this email is already in use")
	}
	if taken, err := s.repo.ExistsByNationalID(ctx, nationalID, excludeID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check national id")
	} else if taken {
		return appErrors.Clone(appErrors.ErrValidation, "a student with this national id already exists")
	}
	return nil
}

func (s *StudentService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "stats:*"); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}
