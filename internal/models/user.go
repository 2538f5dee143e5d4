package models

import "time"

// UserRole enumerates account roles.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
	RoleStaff   UserRole = "STAFF"
)

// User represents an account stored in the users table. Username and email
// are unique across all accounts.
type User struct {
	ID           int64     `db:"id" json:"id"`
	DisplayName  string    `db:"display_name" json:"displayName"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Contact      *string   `db:"contact" json:"contact,omitempty"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// PublicUser is the user shape exposed over the API, without credentials.
type PublicUser struct {
	ID          int64     `db:"id" json:"id"`
	DisplayName string    `db:"display_name" json:"displayName"`
	Username    string    `db:"username" json:"username"`
	Email       string    `db:"email" json:"email"`
	Contact     *string   `db:"contact" json:"contact,omitempty"`
	Role        UserRole  `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Public strips credential fields from a full user record.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Username:    u.Username,
		Email:       u.Email,
		Contact:     u.Contact,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}
