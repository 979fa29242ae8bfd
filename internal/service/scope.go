package service

import (
	"strings"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
	appErrors "github.com/noah-isme/sma-outcomes-api/pkg/errors"
)

// ResolveScope maps a requesting role onto the visibility boundary of the computation.
// Administrators always get the global scope and their instructor id is ignored. A teacher
// without an instructor id gets a teacher scope that sees no groups, unless strict is set,
// in which case the request is rejected.
func ResolveScope(role models.UserRole, instructorID *string, strict bool) (models.Scope, error) {
	switch {
	case role.IsAdministrative():
		return models.GlobalScope(), nil
	case role == models.RoleTeacher:
		id := ""
		if instructorID != nil {
			id = strings.TrimSpace(*instructorID)
		}
		if id == "" && strict {
			return models.Scope{}, &appErrors.InvalidScopeError{Role: string(role), Reason: "no instructor identity attached"}
		}
		return models.TeacherScope(id), nil
	default:
		return models.Scope{}, &appErrors.InvalidScopeError{Role: string(role), Reason: "role has no dashboard"}
	}
}
