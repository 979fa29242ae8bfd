package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-outcomes-api/internal/dto"
	"github.com/noah-isme/sma-outcomes-api/internal/models"
	appErrors "github.com/noah-isme/sma-outcomes-api/pkg/errors"
)

// Collection names reported in DataAccessError and read metrics.
const (
	collectionGroups      = "groups"
	collectionEnrollments = "enrollments"
	collectionEvaluations = "evaluations"
	collectionSubjects    = "subjects"
	collectionStudents    = "students"
	collectionAuditLogs   = "audit_logs"
	collectionDropouts    = "dropout_records"
)

type groupLoader interface {
	List(ctx context.Context, instructorID *string) ([]models.Group, error)
}

type enrollmentLoader interface {
	ListByGroups(ctx context.Context, groupIDs []string) ([]models.Enrollment, error)
	WithdrawnStudentIDs(ctx context.Context, groupIDs []string) ([]string, error)
}

type evaluationLoader interface {
	ListByEnrollments(ctx context.Context, enrollmentIDs []string) ([]models.Evaluation, error)
}

type unitCountLoader interface {
	UnitCountsByGroups(ctx context.Context, groupIDs []string) ([]models.GroupUnitCount, error)
}

type inactiveStudentCounter interface {
	CountInactive(ctx context.Context) (int, error)
}

type withdrawalLogLoader interface {
	RecentWithdrawals(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

type dropoutRecordLoader interface {
	ListByEnrollments(ctx context.Context, enrollmentIDs []string, limit int) ([]models.DropoutRecord, error)
}

// OutcomeEngineConfig tunes the classification and reason mining rules.
type OutcomeEngineConfig struct {
	PassingScore     float64
	DefaultUnitCount int
	ReasonScanLimit  int
}

// OutcomeEngineParams groups constructor dependencies.
type OutcomeEngineParams struct {
	Groups      groupLoader
	Enrollments enrollmentLoader
	Evaluations evaluationLoader
	UnitCounts  unitCountLoader
	Students    inactiveStudentCounter
	AuditLogs   withdrawalLogLoader
	Dropouts    dropoutRecordLoader
	Metrics     *MetricsService
	Logger      *zap.Logger
	Config      OutcomeEngineConfig
}

// OutcomeEngine computes registered/failed/dropped-out counts and the dominant dropout
// reason for one scope. It holds no per-request state and is safe for concurrent use.
type OutcomeEngine struct {
	groups      groupLoader
	enrollments enrollmentLoader
	evaluations evaluationLoader
	unitCounts  unitCountLoader
	students    inactiveStudentCounter
	auditLogs   withdrawalLogLoader
	dropouts    dropoutRecordLoader
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
	cfg         OutcomeEngineConfig
}

// NewOutcomeEngine constructs an OutcomeEngine with defaults for unset tuning values.
func NewOutcomeEngine(params OutcomeEngineParams) *OutcomeEngine {
	cfg := params.Config
	if cfg.PassingScore <= 0 {
		cfg.PassingScore = 70
	}
	if cfg.DefaultUnitCount <= 0 {
		cfg.DefaultUnitCount = 5
	}
	if cfg.ReasonScanLimit <= 0 {
		cfg.ReasonScanLimit = 1000
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutcomeEngine{
		groups:      params.Groups,
		enrollments: params.Enrollments,
		evaluations: params.Evaluations,
		unitCounts:  params.UnitCounts,
		students:    params.Students,
		auditLogs:   params.AuditLogs,
		dropouts:    params.Dropouts,
		metrics:     params.Metrics,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
	}
}

// cohort is the set of groups, enrollments and students visible under a scope.
type cohort struct {
	groupIDs      []string
	enrollments   []models.Enrollment
	enrollmentIDs []string
	studentIDs    map[string]struct{}
}

// Compute runs the aggregation for scope. When the scope sees no groups the zero-valued
// summary is returned without further reads.
func (e *OutcomeEngine) Compute(ctx context.Context, scope models.Scope) (result *dto.DashboardResponse, err error) {
	start := e.now()
	defer func() {
		e.metrics.ObserveDashboard(string(scope.Kind), err != nil, e.now().Sub(start))
	}()

	c, err := e.loadCohort(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(c.groupIDs) == 0 {
		return dto.EmptyDashboard(scope), nil
	}

	var (
		unitRows    []models.GroupUnitCount
		evaluations []models.Evaluation
		droppedOut  int
		reason      *string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.read(collectionSubjects, func() (err error) {
			unitRows, err = e.unitCounts.UnitCountsByGroups(gctx, c.groupIDs)
			return err
		})
	})
	g.Go(func() error {
		return e.read(collectionEvaluations, func() (err error) {
			evaluations, err = e.evaluations.ListByEnrollments(gctx, c.enrollmentIDs)
			return err
		})
	})
	g.Go(func() (err error) {
		droppedOut, err = e.countDropouts(gctx, scope, c)
		return err
	})
	g.Go(func() (err error) {
		reason, err = e.commonReason(gctx, scope, c)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	units := newUnitCountResolver(unitRows, e.cfg.DefaultUnitCount, e.unitCountFallbackReporter(scope))
	failed := classifyFailures(c.enrollments, evaluations, units, e.cfg.PassingScore)

	return &dto.DashboardResponse{
		Scope:               scope.Kind,
		DropoutBasis:        dto.BasisFor(scope),
		Registered:          len(c.studentIDs),
		Failed:              len(failed),
		DroppedOut:          droppedOut,
		CommonDropoutReason: reason,
	}, nil
}

func (e *OutcomeEngine) loadCohort(ctx context.Context, scope models.Scope) (*cohort, error) {
	c := &cohort{studentIDs: map[string]struct{}{}}
	if !scope.IsGlobal() && scope.InstructorID == "" {
		return c, nil
	}

	var instructorID *string
	if !scope.IsGlobal() {
		id := scope.InstructorID
		instructorID = &id
	}
	var groups []models.Group
	if err := e.read(collectionGroups, func() (err error) {
		groups, err = e.groups.List(ctx, instructorID)
		return err
	}); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return c, nil
	}

	c.groupIDs = make([]string, 0, len(groups))
	for _, group := range groups {
		c.groupIDs = append(c.groupIDs, group.ID)
	}

	if err := e.read(collectionEnrollments, func() (err error) {
		c.enrollments, err = e.enrollments.ListByGroups(ctx, c.groupIDs)
		return err
	}); err != nil {
		return nil, err
	}
	c.enrollmentIDs = make([]string, 0, len(c.enrollments))
	for _, enrollment := range c.enrollments {
		c.enrollmentIDs = append(c.enrollmentIDs, enrollment.ID)
		c.studentIDs[enrollment.StudentID] = struct{}{}
	}
	return c, nil
}

// countDropouts applies the scope's dropout definition: students inactive at the
// institution for the global scope, distinct students with a withdrawn enrollment in the
// instructor's groups otherwise.
func (e *OutcomeEngine) countDropouts(ctx context.Context, scope models.Scope, c *cohort) (int, error) {
	if scope.IsGlobal() {
		var total int
		err := e.read(collectionStudents, func() (err error) {
			total, err = e.students.CountInactive(ctx)
			return err
		})
		return total, err
	}

	var studentIDs []string
	if err := e.read(collectionEnrollments, func() (err error) {
		studentIDs, err = e.enrollments.WithdrawnStudentIDs(ctx, c.groupIDs)
		return err
	}); err != nil {
		return 0, err
	}
	distinct := make(map[string]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		distinct[id] = struct{}{}
	}
	return len(distinct), nil
}

func (e *OutcomeEngine) commonReason(ctx context.Context, scope models.Scope, c *cohort) (*string, error) {
	if scope.IsGlobal() {
		var entries []models.AuditLogEntry
		if err := e.read(collectionAuditLogs, func() (err error) {
			entries, err = e.auditLogs.RecentWithdrawals(ctx, e.cfg.ReasonScanLimit)
			return err
		}); err != nil {
			return nil, err
		}
		return mostCommonReason(auditReasons(entries)), nil
	}

	var records []models.DropoutRecord
	if err := e.read(collectionDropouts, func() (err error) {
		records, err = e.dropouts.ListByEnrollments(ctx, c.enrollmentIDs, e.cfg.ReasonScanLimit)
		return err
	}); err != nil {
		return nil, err
	}
	return mostCommonReason(dropoutReasons(records)), nil
}

// read times one collaborator call and converts its failure into a DataAccessError.
func (e *OutcomeEngine) read(collection string, fn func() error) error {
	start := e.now()
	err := fn()
	e.metrics.ObserveRead(collection, e.now().Sub(start))
	if err != nil {
		e.metrics.RecordReadFailure(collection)
		return appErrors.NewDataAccess(collection, err)
	}
	return nil
}
