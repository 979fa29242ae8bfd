package models

// Evaluation is one unit's score for one enrollment. At most one exists per
// (enrollment, unit) pair.
type Evaluation struct {
	ID           string  `db:"id" json:"id"`
	EnrollmentID string  `db:"enrollment_id" json:"enrollment_id"`
	UnitNumber   int     `db:"unit_number" json:"unit_number"`
	Score        float64 `db:"score" json:"score"`
}
