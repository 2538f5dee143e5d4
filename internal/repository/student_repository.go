package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/RInot-Aikcraft/cours/internal/models"
)

// StudentRepository manages persistence for students and their 1:1 accounts.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentSelect = `SELECT st.id, st.name, st.surname, st.birth_date, st.address, st.national_id,
        st.status, st.photo_path, st.user_id, st.created_at, st.updated_at,
        u.username AS "account.username", u.email AS "account.email", u.role AS "account.role"
        FROM students st
        JOIN users u ON u.id = st.user_id`

// List returns all students with their account fields.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentWithAccount, error) {
	students := []models.StudentWithAccount{}
	if err := r.db.SelectContext(ctx, &students, studentSelect+` ORDER BY st.id`); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student with its account fields.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.StudentWithAccount, error) {
	var student models.StudentWithAccount
	if err := r.db.GetContext(ctx, &student, studentSelect+` WHERE st.id = $1 LIMIT 1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// FindRow fetches the bare student row without the account join.
func (r *StudentRepository) FindRow(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT id, name, surname, birth_date, address, national_id, status, photo_path, user_id, created_at, updated_at
        FROM students WHERE id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student row: %w", err)
	}
	return &student, nil
}

// ExistsByNationalID checks if a student with the given national id exists,
// optionally excluding one student.
func (r *StudentRepository) ExistsByNationalID(ctx context.Context, nationalID string, excludeID int64) (bool, error) {
	query := `SELECT 1 FROM students WHERE national_id = $1`
	args := []interface{}{nationalID}
	if excludeID > 0 {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+` LIMIT 1`, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check national id: %w", err)
	}
	return true, nil
}

// CreateWithAccount inserts the account and the student in one transaction;
// the student owns exactly one user record.
func (r *StudentRepository) CreateWithAccount(ctx context.Context, student *models.Student, user *models.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	const userInsert = `INSERT INTO users (display_name, username, email, password_hash, contact, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := tx.GetContext(ctx, &user.ID, userInsert,
		user.DisplayName, user.Username, user.Email, user.PasswordHash, user.Contact, user.Role, user.CreatedAt, user.UpdatedAt); err != nil {
		return fmt.Errorf("create student account: %w", err)
	}

	student.UserID = user.ID
	student.CreatedAt = now
	student.UpdatedAt = now
	const studentInsert = `INSERT INTO students (name, surname, birth_date, address, national_id, status, photo_path, user_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := tx.GetContext(ctx, &student.ID, studentInsert,
		student.Name, student.Surname, student.BirthDate, student.Address, student.NationalID,
		student.Status, student.PhotoPath, student.UserID, student.CreatedAt, student.UpdatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create student: %w", err)
	}
	return nil
}

// UpdateWithAccount updates the student row and the username/email of its
// account in one transaction.
func (r *StudentRepository) UpdateWithAccount(ctx context.Context, student *models.Student, username, email string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	student.UpdatedAt = time.Now().UTC()
	const studentUpdate = `UPDATE students SET name = $2, surname = $3, birth_date = $4, address = $5, national_id = $6,
        status = $7, photo_path = $8, updated_at = $9 WHERE id = $1`
	res, err := tx.ExecContext(ctx, studentUpdate, student.ID, student.Name, student.Surname, student.BirthDate,
		student.Address, student.NationalID, student.Status, student.PhotoPath, student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if err := requireRow(res, "update student"); err != nil {
		return err
	}

	const userUpdate = `UPDATE users SET username = $2, email = $3, updated_at = $4 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, userUpdate, student.UserID, username, email, student.UpdatedAt); err != nil {
		return fmt.Errorf("update student account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update student: %w", err)
	}
	return nil
}

// Delete removes a student. Returns sql.ErrNoRows when nothing matched.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireRow(res, "delete student")
}
