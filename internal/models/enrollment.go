package models

import "time"

// PaymentState tracks enrollment fee status.
type PaymentState string

const (
	PaymentPaid    PaymentState = "PAID"
	PaymentUnpaid  PaymentState = "UNPAID"
	PaymentPartial PaymentState = "PARTIAL"
)

// Enrollment links one student to one group. EnrollmentCode is derived from
// the group's session/level/group names and the student id, never
// user-supplied.
type Enrollment struct {
	ID             int64        `db:"id" json:"id"`
	EnrollmentCode string       `db:"enrollment_code" json:"enrollmentCode"`
	PaymentState   PaymentState `db:"payment_state" json:"paymentState"`
	EnrollmentDate time.Time    `db:"enrollment_date" json:"enrollmentDate"`
	GroupID        int64        `db:"group_id" json:"groupId"`
	StudentID      int64        `db:"student_id" json:"studentId"`
}

// EnrollmentDetail resolves the group chain and the student with its account
// for list/detail responses.
type EnrollmentDetail struct {
	Enrollment
	Group   GroupWithLevel     `json:"group"`
	Student StudentWithAccount `json:"student"`
}
