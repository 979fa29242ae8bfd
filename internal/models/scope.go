package models

// ScopeKind names the visibility boundary of a dashboard computation.
type ScopeKind string

const (
	ScopeGlobal  ScopeKind = "global"
	ScopeTeacher ScopeKind = "teacher"
)

// Scope is either global or restricted to one instructor's groups.
type Scope struct {
	Kind         ScopeKind
	InstructorID string
}

// GlobalScope returns the administrator scope.
func GlobalScope() Scope {
	return Scope{Kind: ScopeGlobal}
}

// TeacherScope returns a scope restricted to instructorID. An empty id is valid and sees
// no groups.
func TeacherScope(instructorID string) Scope {
	return Scope{Kind: ScopeTeacher, InstructorID: instructorID}
}

// IsGlobal reports whether the scope spans the whole institution.
func (s Scope) IsGlobal() bool {
	return s.Kind == ScopeGlobal
}

// CacheKey identifies the scope in cache keys.
func (s Scope) CacheKey() string {
	if s.IsGlobal() {
		return string(ScopeGlobal)
	}
	return string(ScopeTeacher) + ":" + s.InstructorID
}
