package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	FindRow(ctx context.Context, id int64) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
}

type groupChainResolver interface {
	FindByID(ctx context.Context, id int64) (*models.GroupWithLevel, error)
}

type studentResolver interface {
	FindRow(ctx context.Context, id int64) (*models.Student, error)
}

// EnrollmentRequest holds payload for creating or updating enrollments.
type EnrollmentRequest struct {
	GroupID      int64               `json:"groupId" validate:"required"`
	StudentID    int64               `json:"studentId" validate:"required"`
	PaymentState models.PaymentState `json:"paymentState" validate:"omitempty,oneof=PAID UNPAID PARTIAL"`
}

// EnrollmentService derives enrollment codes and handles enrollment
// use-cases.
type EnrollmentService struct {
	repo      enrollmentRepository
	groups    groupChainResolver
	students  studentResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, groups groupChainResolver, students studentResolver, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, groups: groups, students: students, validator: validate, logger: logger}
}

// EnrollmentCode derives the human-readable code SSS-LLL-GGG-NNN: the first
// three characters of the session, level and group names upper-cased (short
// names yield shorter segments) and the student id zero-padded to width 3
// (wider ids extend, never truncate).
func EnrollmentCode(sessionName, levelName, groupName string, studentID int64) string {
	return fmt.Sprintf("%s-%s-%s-%03d",
		codeSegment(sessionName), codeSegment(levelName), codeSegment(groupName), studentID)
}

func codeSegment(name string) string {
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

// List returns all enrollments with relations resolved.
func (s *EnrollmentService) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// Get returns one enrollment with relations resolved.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// Create registers a student in a group, deriving the enrollment code from
// the group's session/level/group chain. Missing group or student aborts
// with NotFound before anything is written.
func (s *EnrollmentService) Create(ctx context.Context, req EnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "group and student are required")
	}

	group, err := s.resolveGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	student, err := s.resolveStudent(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	paymentState := req.PaymentState
	if paymentState == "" {
		paymentState = models.PaymentUnpaid
	}

	enrollment := &models.Enrollment{
		EnrollmentCode: EnrollmentCode(group.Level.Session.Name, group.Level.Name, group.Name, student.ID),
		PaymentState:   paymentState,
		GroupID:        group.ID,
		StudentID:      student.ID,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	return s.Get(ctx, enrollment.ID)
}

// Update modifies an enrollment. The code is re-derived only when the target
// group changes; payment-state or student changes keep the stored code.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req EnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "group and student are required")
	}

	current, err := s.repo.FindRow(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	code := current.EnrollmentCode
	if current.GroupID != req.GroupID {
		group, err := s.resolveGroup(ctx, req.GroupID)
		if err != nil {
			return nil, err
		}
		code = EnrollmentCode(group.Level.Session.Name, group.Level.Name, group.Name, req.StudentID)
	}

	paymentState := req.PaymentState
	if paymentState == "" {
		paymentState = current.PaymentState
	}

	updated := &models.Enrollment{
		ID:             id,
		EnrollmentCode: code,
		PaymentState:   paymentState,
		GroupID:        req.GroupID,
		StudentID:      req.StudentID,
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}

	return s.Get(ctx, id)
}

// Delete removes an enrollment; deleting a missing one is NotFound.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}

func (s *EnrollmentService) resolveGroup(ctx context.Context, id int64) (*models.GroupWithLevel, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	return group, nil
}

func (s *EnrollmentService) resolveStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.FindRow(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}
