package models

import "time"

// Level is owned by exactly one session.
type Level struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	SessionID int64     `db:"session_id" json:"sessionId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// LevelWithSession carries the owning session resolved for list/detail
// responses.
type LevelWithSession struct {
	Level
	Session Session `json:"session"`
}
