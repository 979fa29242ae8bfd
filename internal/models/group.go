package models

// Group is one offering of a subject taught by one instructor.
type Group struct {
	ID           string `db:"id" json:"id"`
	SubjectID    string `db:"subject_id" json:"subject_id"`
	InstructorID string `db:"instructor_id" json:"instructor_id"`
	Capacity     int    `db:"capacity" json:"capacity"`
}

// GroupUnitCount joins a group to its subject's unit count. UnitCount is nil when the
// subject row is missing or has no unit count recorded.
type GroupUnitCount struct {
	GroupID   string `db:"group_id"`
	UnitCount *int   `db:"unit_count"`
}
