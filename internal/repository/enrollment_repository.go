package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/RInot-Aikcraft/cours/internal/models"
)

// EnrollmentRepository manages persistence for enrollments (inscriptions).
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// enrollmentSelect resolves the group → level → session chain and the
// student with its account, mirroring the detail shape list responses carry.
const enrollmentSelect = `SELECT e.id, e.enrollment_code, e.payment_state, e.enrollment_date, e.group_id, e.student_id,
        g.id AS "group.id", g.name AS "group.name", g.capacity AS "group.capacity",
        g.delivery_type AS "group.delivery_type", g.level_id AS "group.level_id",
        g.created_at AS "group.created_at", g.updated_at AS "group.updated_at",
        l.id AS "group.level.id", l.name AS "group.level.name", l.session_id AS "group.level.session_id",
        l.created_at AS "group.level.created_at", l.updated_at AS "group.level.updated_at",
        s.id AS "group.level.session.id", s.name AS "group.level.session.name",
        s.start_date AS "group.level.session.start_date", s.end_date AS "group.level.session.end_date",
        s.state AS "group.level.session.state",
        s.created_at AS "group.level.session.created_at", s.updated_at AS "group.level.session.updated_at",
        st.id AS "student.id", st.name AS "student.name", st.surname AS "student.surname",
        st.birth_date AS "student.birth_date", st.address AS "student.address",
        st.national_id AS "student.national_id", st.status AS "student.status",
        st.photo_path AS "student.photo_path", st.user_id AS "student.user_id",
        st.created_at AS "student.created_at", st.updated_at AS "student.updated_at",
        u.username AS "student.account.username", u.email AS "student.account.email", u.role AS "student.account.role"
        FROM inscriptions e
        JOIN groupes g ON g.id = e.group_id
        JOIN niveaux l ON l.id = g.level_id
        JOIN sessions s ON s.id = l.session_id
        JOIN students st ON st.id = e.student_id
        JOIN users u ON u.id = st.user_id`

// List returns all enrollments with relations resolved, newest first.
func (r *EnrollmentRepository) List(ctx context.Context) ([]models.EnrollmentDetail, error) {
	enrollments := []models.EnrollmentDetail{}
	if err := r.db.SelectContext(ctx, &enrollments, enrollmentSelect+` ORDER BY e.enrollment_date DESC`); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID fetches an enrollment with relations resolved.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	var enrollment models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &enrollment, enrollmentSelect+` WHERE e.id = $1 LIMIT 1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

// FindRow fetches the bare enrollment row, used to detect group changes on
// update before any code re-derivation.
func (r *EnrollmentRepository) FindRow(ctx context.Context, id int64) (*models.Enrollment, error) {
	const query = `SELECT id, enrollment_code, payment_state, enrollment_date, group_id, student_id
        FROM inscriptions WHERE id = $1 LIMIT 1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment row: %w", err)
	}
	return &enrollment, nil
}

// Create inserts a new enrollment and fills in the generated id.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = time.Now().UTC()
	}
	const query = `INSERT INTO inscriptions (enrollment_code, payment_state, enrollment_date, group_id, student_id)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &enrollment.ID, query,
		enrollment.EnrollmentCode, enrollment.PaymentState, enrollment.EnrollmentDate, enrollment.GroupID, enrollment.StudentID); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update modifies an existing enrollment. Returns sql.ErrNoRows when missing.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `UPDATE inscriptions SET enrollment_code = $2, payment_state = $3, group_id = $4, student_id = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		enrollment.ID, enrollment.EnrollmentCode, enrollment.PaymentState, enrollment.GroupID, enrollment.StudentID)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return requireRow(res, "update enrollment")
}

// Delete removes an enrollment. Returns sql.ErrNoRows when nothing matched.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return requireRow(res, "delete enrollment")
}
