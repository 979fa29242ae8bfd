package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-outcomes-api/internal/dto"
	"github.com/noah-isme/sma-outcomes-api/internal/middleware"
	"github.com/noah-isme/sma-outcomes-api/internal/service"
	appErrors "github.com/noah-isme/sma-outcomes-api/pkg/errors"
	"github.com/noah-isme/sma-outcomes-api/pkg/response"
)

type dashboardService interface {
	Dashboard(ctx context.Context, req service.DashboardRequest) (*dto.DashboardResponse, bool, error)
}

type exportService interface {
	Export(ctx context.Context, req service.DashboardRequest, format string) (*service.ExportFile, error)
}

// ExportQuery selects the download format.
type ExportQuery struct {
	Format string `form:"format" binding:"required,oneof=csv pdf"`
}

// DashboardHandler wires the outcome dashboard to HTTP endpoints.
type DashboardHandler struct {
	service  dashboardService
	exports  exportService
	resolver instructorResolver
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, exports exportService, resolver instructorResolver) *DashboardHandler {
	return &DashboardHandler{service: service, exports: exports, resolver: resolver}
}

// Summary godoc
// @Summary Academic outcome summary
// @Description Registered, failed and dropped-out students plus the most common dropout reason, scoped to the caller's role
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.DashboardResponse}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	req, err := dashboardRequestFromContext(c, h.resolver)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, cacheHit, err := h.service.Dashboard(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, middleware.ResponseMeta(c, start))
}

// Export godoc
// @Summary Download the academic outcome summary
// @Tags Dashboard
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string true "Export format" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /dashboard/export [get]
func (h *DashboardHandler) Export(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	req, err := dashboardRequestFromContext(c, h.resolver)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Export(c.Request.Context(), req, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
