package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

// unitCountResolver answers how many graded units each group's subject requires.
type unitCountResolver struct {
	counts      map[string]*int
	fallback    int
	onFallback  func(groupID string)
	reportedFor map[string]struct{}
}

func newUnitCountResolver(rows []models.GroupUnitCount, fallback int, onFallback func(groupID string)) *unitCountResolver {
	counts := make(map[string]*int, len(rows))
	for _, row := range rows {
		counts[row.GroupID] = row.UnitCount
	}
	return &unitCountResolver{
		counts:      counts,
		fallback:    fallback,
		onFallback:  onFallback,
		reportedFor: map[string]struct{}{},
	}
}

// UnitCount returns the unit count for groupID, substituting the fallback when the subject
// join produced none. Each falling-back group is reported once.
func (r *unitCountResolver) UnitCount(groupID string) int {
	if count, ok := r.counts[groupID]; ok && count != nil {
		return *count
	}
	if _, seen := r.reportedFor[groupID]; !seen {
		r.reportedFor[groupID] = struct{}{}
		if r.onFallback != nil {
			r.onFallback(groupID)
		}
	}
	return r.fallback
}

type scoreTally struct {
	sum   float64
	count int
}

// classifyFailures returns the distinct students holding at least one enrollment that is
// fully graded (evaluation count >= unit count) with a mean score below passingScore.
// Partially graded enrollments and subjects with a non-positive unit count never fail.
func classifyFailures(enrollments []models.Enrollment, evaluations []models.Evaluation, units *unitCountResolver, passingScore float64) map[string]struct{} {
	tallies := make(map[string]scoreTally, len(enrollments))
	for _, evaluation := range evaluations {
		t := tallies[evaluation.EnrollmentID]
		t.sum += evaluation.Score
		t.count++
		tallies[evaluation.EnrollmentID] = t
	}

	failed := make(map[string]struct{})
	for _, enrollment := range enrollments {
		unitCount := units.UnitCount(enrollment.GroupID)
		if unitCount <= 0 {
			continue
		}
		t := tallies[enrollment.ID]
		if t.count < unitCount {
			continue
		}
		if t.sum/float64(t.count) < passingScore {
			failed[enrollment.StudentID] = struct{}{}
		}
	}
	return failed
}

func (e *OutcomeEngine) unitCountFallbackReporter(scope models.Scope) func(string) {
	return func(groupID string) {
		e.logger.Warn("subject unit count missing, using default",
			zap.String("group_id", groupID),
			zap.Int("default_unit_count", e.cfg.DefaultUnitCount),
			zap.String("scope", scope.CacheKey()),
		)
		e.metrics.RecordUnitCountFallback()
	}
}
