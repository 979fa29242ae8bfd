package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-outcomes-api/internal/dto"
	"github.com/noah-isme/sma-outcomes-api/internal/models"
	appErrors "github.com/noah-isme/sma-outcomes-api/pkg/errors"
)

type outcomeComputer interface {
	Compute(ctx context.Context, scope models.Scope) (*dto.DashboardResponse, error)
}

// DashboardRequest identifies who is asking for the dashboard.
type DashboardRequest struct {
	Role         models.UserRole `validate:"required"`
	InstructorID *string         `validate:"omitempty,max=64"`
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL           time.Duration
	StrictTeacherScope bool
}

// DashboardService resolves the caller's scope and serves outcome summaries, optionally
// through the result cache.
type DashboardService struct {
	engine    outcomeComputer
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Engine    outcomeComputer
	Cache     *CacheService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &DashboardService{
		engine:    params.Engine,
		cache:     params.Cache,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Dashboard computes the summary visible to the requester and indicates cache utilisation.
func (s *DashboardService) Dashboard(ctx context.Context, req DashboardRequest) (*dto.DashboardResponse, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dashboard request")
	}
	scope, err := ResolveScope(req.Role, req.InstructorID, s.cfg.StrictTeacherScope)
	if err != nil {
		return nil, false, err
	}
	if s.engine == nil {
		return nil, false, appErrors.Clone(appErrors.ErrInternal, "outcome engine unavailable")
	}

	cacheKey := fmt.Sprintf("dash:%s", scope.CacheKey())
	var cached dto.DashboardResponse
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, true, nil
	}

	summary, err := s.engine.Compute(ctx, scope)
	if err != nil {
		s.logger.Error("dashboard computation failed", zap.String("scope", scope.CacheKey()), zap.Error(err))
		return nil, false, err
	}
	s.cache.Set(ctx, cacheKey, summary, s.cfg.CacheTTL)
	return summary, false, nil
}
