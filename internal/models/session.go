package models

import "time"

// SessionState enumerates the lifecycle of an academic session.
type SessionState string

const (
	SessionOngoing   SessionState = "ONGOING"
	SessionFinished  SessionState = "FINISHED"
	SessionCancelled SessionState = "CANCELLED"
	SessionPostponed SessionState = "POSTPONED"
)

// Session is an academic session owning zero or more levels.
type Session struct {
	ID        int64        `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	StartDate time.Time    `db:"start_date" json:"startDate"`
	EndDate   time.Time    `db:"end_date" json:"endDate"`
	State     SessionState `db:"state" json:"state"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time    `db:"updated_at" json:"updatedAt"`
}
