package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-outcomes-api/internal/dto"
	appErrors "github.com/noah-isme/sma-outcomes-api/pkg/errors"
	"github.com/noah-isme/sma-outcomes-api/pkg/export"
)

type dashboardProvider interface {
	Dashboard(ctx context.Context, req DashboardRequest) (*dto.DashboardResponse, bool, error)
}

// Renderer turns a dataset into a downloadable file.
type Renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered dashboard ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders dashboard summaries through the registered renderers.
type ExportService struct {
	dashboards dashboardProvider
	renderers  map[string]Renderer
	logger     *zap.Logger
}

// NewExportService constructs an ExportService. Without explicit renderers CSV and PDF are
// registered.
func NewExportService(dashboards dashboardProvider, logger *zap.Logger, renderers ...Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(renderers) == 0 {
		renderers = []Renderer{export.NewCSVExporter(), export.NewPDFExporter()}
	}
	byExt := make(map[string]Renderer, len(renderers))
	for _, r := range renderers {
		byExt[r.Extension()] = r
	}
	return &ExportService{dashboards: dashboards, renderers: byExt, logger: logger}
}

// Export computes the requester's dashboard and renders it in format.
func (s *ExportService) Export(ctx context.Context, req DashboardRequest, format string) (*ExportFile, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	summary, _, err := s.dashboards.Dashboard(ctx, req)
	if err != nil {
		return nil, err
	}
	payload, err := renderer.Render(DashboardDataset(summary))
	if err != nil {
		s.logger.Error("dashboard export render failed", zap.String("format", format), zap.Error(err))
		return nil, err
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("dashboard-%s.%s", summary.Scope, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
	}, nil
}

// DashboardDataset lays a summary out as a metric/value table.
func DashboardDataset(summary *dto.DashboardResponse) export.Dataset {
	reason := ""
	if summary.CommonDropoutReason != nil {
		reason = *summary.CommonDropoutReason
	}
	return export.Dataset{
		Title:   "Academic outcomes",
		Headers: []string{"metric", "value"},
		Rows: [][]string{
			{"scope", string(summary.Scope)},
			{"dropout_basis", string(summary.DropoutBasis)},
			{"registered", strconv.Itoa(summary.Registered)},
			{"failed", strconv.Itoa(summary.Failed)},
			{"dropped_out", strconv.Itoa(summary.DroppedOut)},
			{"common_dropout_reason", reason},
		},
	}
}
