package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-outcomes-api/internal/dto"
	"github.com/noah-isme/sma-outcomes-api/internal/middleware"
	"github.com/noah-isme/sma-outcomes-api/internal/models"
	"github.com/noah-isme/sma-outcomes-api/internal/service"
	appErrors "github.com/noah-isme/sma-outcomes-api/pkg/errors"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeDashboardSrv struct {
	resp    *dto.DashboardResponse
	hit     bool
	err     error
	lastReq service.DashboardRequest
}

func (f *fakeDashboardSrv) Dashboard(_ context.Context, req service.DashboardRequest) (*dto.DashboardResponse, bool, error) {
	f.lastReq = req
	return f.resp, f.hit, f.err
}

type fakeExportSrv struct {
	file       *service.ExportFile
	err        error
	lastFormat string
}

func (f *fakeExportSrv) Export(_ context.Context, _ service.DashboardRequest, format string) (*service.ExportFile, error) {
	f.lastFormat = format
	return f.file, f.err
}

type fakeResolver struct {
	id  *string
	err error
}

func (f *fakeResolver) InstructorForClaims(context.Context, *models.JWTClaims) (*string, error) {
	return f.id, f.err
}

func newContext(target string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

func TestDashboardHandlerSummaryAdmin(t *testing.T) {
	reason := "salud"
	srv := &fakeDashboardSrv{
		resp: &dto.DashboardResponse{Scope: models.ScopeGlobal, DropoutBasis: dto.DropoutBasisInstitution, Registered: 20, DroppedOut: 3, CommonDropoutReason: &reason},
		hit:  true,
	}
	handler := NewDashboardHandler(srv, nil, &fakeResolver{})
	c, rec := newContext("/dashboard", &models.JWTClaims{Role: models.RoleAdmin})

	handler.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
	assert.Equal(t, float64(20), envelope.Data["registered"])
	assert.Equal(t, "salud", envelope.Data["common_dropout_reason"])
	assert.Equal(t, "institution", envelope.Data["dropout_basis"])
	assert.Nil(t, srv.lastReq.InstructorID)
}

func TestDashboardHandlerSummaryTeacherResolvesInstructor(t *testing.T) {
	id := "t1"
	srv := &fakeDashboardSrv{resp: &dto.DashboardResponse{Scope: models.ScopeTeacher}}
	handler := NewDashboardHandler(srv, nil, &fakeResolver{id: &id})
	c, rec := newContext("/dashboard", &models.JWTClaims{Role: models.RoleTeacher, Email: "ana@school.test"})

	handler.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleTeacher, srv.lastReq.Role)
	require.NotNil(t, srv.lastReq.InstructorID)
	assert.Equal(t, "t1", *srv.lastReq.InstructorID)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Data["common_dropout_reason"])
}

func TestDashboardHandlerSummaryRequiresClaims(t *testing.T) {
	handler := NewDashboardHandler(&fakeDashboardSrv{}, nil, nil)
	c, rec := newContext("/dashboard", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerSummaryMapsErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"data access", appErrors.NewDataAccess("enrollments", errors.New("down")), http.StatusInternalServerError, "DATA_ACCESS_ERROR"},
		{"invalid scope", &appErrors.InvalidScopeError{Role: "STUDENT", Reason: "role has no dashboard"}, http.StatusBadRequest, "INVALID_SCOPE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewDashboardHandler(&fakeDashboardSrv{err: tc.err}, nil, nil)
			c, rec := newContext("/dashboard", &models.JWTClaims{Role: models.RoleAdmin})

			handler.Summary(c)

			assert.Equal(t, tc.status, rec.Code)
			var envelope responseEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Equal(t, tc.code, envelope.Error["code"])
		})
	}
}

func TestDashboardHandlerResolverFailure(t *testing.T) {
	srv := &fakeDashboardSrv{}
	handler := NewDashboardHandler(srv, nil, &fakeResolver{err: appErrors.NewDataAccess("instructors", errors.New("down"))})
	c, rec := newContext("/dashboard", &models.JWTClaims{Role: models.RoleTeacher, Email: "ana@school.test"})

	handler.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, srv.lastReq.Role)
}

func TestDashboardHandlerExport(t *testing.T) {
	exports := &fakeExportSrv{file: &service.ExportFile{Filename: "dashboard-global.csv", ContentType: "text/csv", Payload: []byte("metric,value\n")}}
	handler := NewDashboardHandler(nil, exports, nil)
	c, rec := newContext("/dashboard/export?format=csv", &models.JWTClaims{Role: models.RoleAdmin})

	handler.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", exports.lastFormat)
	assert.Equal(t, `attachment; filename="dashboard-global.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "metric,value\n", rec.Body.String())
}

func TestDashboardHandlerExportRejectsUnknownFormat(t *testing.T) {
	exports := &fakeExportSrv{}
	handler := NewDashboardHandler(nil, exports, nil)
	c, rec := newContext("/dashboard/export?format=xlsx", &models.JWTClaims{Role: models.RoleAdmin})

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, exports.lastFormat)
}
