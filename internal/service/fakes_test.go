package service

import (
	"context"
	"sync"

	"github.com/noah-isme/sma-outcomes-api/internal/models"
)

// callLog records which collaborator methods ran; reads happen concurrently.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeGroupRepo struct {
	log    *callLog
	groups []models.Group
	err    error
}

func (f *fakeGroupRepo) List(_ context.Context, instructorID *string) ([]models.Group, error) {
	f.log.record("groups.List")
	if f.err != nil {
		return nil, f.err
	}
	if instructorID == nil {
		return f.groups, nil
	}
	var filtered []models.Group
	for _, g := range f.groups {
		if g.InstructorID == *instructorID {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

type fakeEnrollmentRepo struct {
	log         *callLog
	enrollments []models.Enrollment
	err         error
	withdrawErr error
}

func (f *fakeEnrollmentRepo) ListByGroups(_ context.Context, groupIDs []string) ([]models.Enrollment, error) {
	f.log.record("enrollments.ListByGroups")
	if f.err != nil {
		return nil, f.err
	}
	in := toSet(groupIDs)
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if _, ok := in[e.GroupID]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) WithdrawnStudentIDs(_ context.Context, groupIDs []string) ([]string, error) {
	f.log.record("enrollments.WithdrawnStudentIDs")
	if f.withdrawErr != nil {
		return nil, f.withdrawErr
	}
	in := toSet(groupIDs)
	seen := map[string]struct{}{}
	var out []string
	for _, e := range f.enrollments {
		if _, ok := in[e.GroupID]; !ok || e.Status != models.EnrollmentStatusWithdrawn {
			continue
		}
		if _, dup := seen[e.StudentID]; !dup {
			seen[e.StudentID] = struct{}{}
			out = append(out, e.StudentID)
		}
	}
	return out, nil
}

type fakeEvaluationRepo struct {
	log         *callLog
	evaluations []models.Evaluation
	err         error
}

func (f *fakeEvaluationRepo) ListByEnrollments(_ context.Context, enrollmentIDs []string) ([]models.Evaluation, error) {
	f.log.record("evaluations.ListByEnrollments")
	if f.err != nil {
		return nil, f.err
	}
	in := toSet(enrollmentIDs)
	var out []models.Evaluation
	for _, ev := range f.evaluations {
		if _, ok := in[ev.EnrollmentID]; ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fakeSubjectRepo struct {
	log    *callLog
	counts map[string]*int
	err    error
}

func (f *fakeSubjectRepo) UnitCountsByGroups(_ context.Context, groupIDs []string) ([]models.GroupUnitCount, error) {
	f.log.record("subjects.UnitCountsByGroups")
	if f.err != nil {
		return nil, f.err
	}
	var out []models.GroupUnitCount
	for _, id := range groupIDs {
		if count, ok := f.counts[id]; ok {
			out = append(out, models.GroupUnitCount{GroupID: id, UnitCount: count})
		}
	}
	return out, nil
}

type fakeStudentRepo struct {
	log      *callLog
	inactive int
	err      error
}

func (f *fakeStudentRepo) CountInactive(context.Context) (int, error) {
	f.log.record("students.CountInactive")
	return f.inactive, f.err
}

type fakeAuditRepo struct {
	log     *callLog
	entries []models.AuditLogEntry
	limit   int
	err     error
}

func (f *fakeAuditRepo) RecentWithdrawals(_ context.Context, limit int) ([]models.AuditLogEntry, error) {
	f.log.record("audit.RecentWithdrawals")
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

type fakeDropoutRepo struct {
	log     *callLog
	records []models.DropoutRecord
	err     error
}

func (f *fakeDropoutRepo) ListByEnrollments(_ context.Context, enrollmentIDs []string, limit int) ([]models.DropoutRecord, error) {
	f.log.record("dropouts.ListByEnrollments")
	if f.err != nil {
		return nil, f.err
	}
	in := toSet(enrollmentIDs)
	var out []models.DropoutRecord
	for _, r := range f.records {
		if _, ok := in[r.EnrollmentID]; ok {
			out = append(out, r)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// store bundles fakes that share one call log.
type store struct {
	log         *callLog
	groups      *fakeGroupRepo
	enrollments *fakeEnrollmentRepo
	evaluations *fakeEvaluationRepo
	subjects    *fakeSubjectRepo
	students    *fakeStudentRepo
	audit       *fakeAuditRepo
	dropouts    *fakeDropoutRepo
}

func newStore() *store {
	log := &callLog{}
	return &store{
		log:         log,
		groups:      &fakeGroupRepo{log: log},
		enrollments: &fakeEnrollmentRepo{log: log},
		evaluations: &fakeEvaluationRepo{log: log},
		subjects:    &fakeSubjectRepo{log: log, counts: map[string]*int{}},
		students:    &fakeStudentRepo{log: log},
		audit:       &fakeAuditRepo{log: log},
		dropouts:    &fakeDropoutRepo{log: log},
	}
}

func (s *store) params() OutcomeEngineParams {
	return OutcomeEngineParams{
		Groups:      s.groups,
		Enrollments: s.enrollments,
		Evaluations: s.evaluations,
		UnitCounts:  s.subjects,
		Students:    s.students,
		AuditLogs:   s.audit,
		Dropouts:    s.dropouts,
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func evals(enrollmentID string, scores ...float64) []models.Evaluation {
	out := make([]models.Evaluation, 0, len(scores))
	for i, score := range scores {
		out = append(out, models.Evaluation{
			ID:           enrollmentID + "-u" + string(rune('1'+i)),
			EnrollmentID: enrollmentID,
			UnitNumber:   i + 1,
			Score:        score,
		})
	}
	return out
}
