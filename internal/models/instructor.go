package models

// Instructor links a login identity to the groups it teaches.
type Instructor struct {
	ID     string `db:"id" json:"id"`
	Email  string `db:"email" json:"email"`
	Active bool   `db:"active" json:"active"`
}
