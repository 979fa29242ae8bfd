package models

import "time"

// DropoutRecord documents why a student left one enrollment.
type DropoutRecord struct {
	EnrollmentID string    `db:"enrollment_id" json:"enrollment_id"`
	Reason       *string   `db:"reason" json:"reason,omitempty"`
	DropoutDate  time.Time `db:"dropout_date" json:"dropout_date"`
}
