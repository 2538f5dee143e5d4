package models

import "time"

// StudentStatus distinguishes regular students from employees.
type StudentStatus string

const (
	StatusStudent  StudentStatus = "STUDENT"
	StatusEmployee StudentStatus = "EMPLOYEE"
)

// Student owns exactly one user account. NationalID is unique across all
// students.
type Student struct {
	ID         int64         `db:"id" json:"id"`
	Name       string        `db:"name" json:"name"`
	Surname    string        `db:"surname" json:"surname"`
	BirthDate  time.Time     `db:"birth_date" json:"birthDate"`
	Address    string        `db:"address" json:"address"`
	NationalID string        `db:"national_id" json:"nationalId"`
	Status     StudentStatus `db:"status" json:"status"`
	PhotoPath  *string       `db:"photo_path" json:"photoPath,omitempty"`
	UserID     int64         `db:"user_id" json:"userId"`
	CreatedAt  time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updatedAt"`
}

// AccountInfo is the account slice embedded in student responses.
type AccountInfo struct {
	Username string   `db:"username" json:"username"`
	Email    string   `db:"email" json:"email"`
	Role     UserRole `db:"role" json:"role"`
}

// StudentWithAccount joins a student with its account fields.
type StudentWithAccount struct {
	Student
	Account AccountInfo `json:"user"`
}
