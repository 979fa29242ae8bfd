package dto

import "github.com/noah-isme/sma-outcomes-api/internal/models"

// DropoutBasis explains what DroppedOut counts for a given scope.
type DropoutBasis string

const (
	// DropoutBasisInstitution counts students no longer active at the institution.
	DropoutBasisInstitution DropoutBasis = "institution"
	// DropoutBasisCourse counts students with a withdrawn enrollment in the instructor's groups.
	DropoutBasisCourse DropoutBasis = "course"
)

// DashboardResponse is the academic outcome summary for one scope.
type DashboardResponse struct {
	Scope               models.ScopeKind `json:"scope"`
	DropoutBasis        DropoutBasis     `json:"dropout_basis"`
	Registered          int              `json:"registered"`
	Failed              int              `json:"failed"`
	DroppedOut          int              `json:"dropped_out"`
	CommonDropoutReason *string          `json:"common_dropout_reason"`
}

// EmptyDashboard is the zero-valued summary for a scope with no visible groups.
func EmptyDashboard(scope models.Scope) *DashboardResponse {
	return &DashboardResponse{
		Scope:        scope.Kind,
		DropoutBasis: BasisFor(scope),
	}
}

// BasisFor returns the dropout definition applied under scope.
func BasisFor(scope models.Scope) DropoutBasis {
	if scope.IsGlobal() {
		return DropoutBasisInstitution
	}
	return DropoutBasisCourse
}
