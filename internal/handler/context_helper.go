package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-outcomes-api/internal/middleware"
	"github.com/noah-isme/sma-outcomes-api/internal/models"
	"github.com/noah-isme/sma-outcomes-api/internal/service"
	appErrors "github.com/noah-isme/sma-outcomes-api/pkg/errors"
)

type instructorResolver interface {
	InstructorForClaims(ctx context.Context, claims *models.JWTClaims) (*string, error)
}

// dashboardRequestFromContext turns the authenticated caller into a dashboard request. Teachers
// get their instructor id attached when the identity resolver knows them.
func dashboardRequestFromContext(c *gin.Context, resolver instructorResolver) (service.DashboardRequest, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return service.DashboardRequest{}, appErrors.ErrUnauthorized
	}
	req := service.DashboardRequest{Role: claims.Role}
	if claims.Role != models.RoleTeacher || resolver == nil {
		return req, nil
	}
	instructorID, err := resolver.InstructorForClaims(c.Request.Context(), claims)
	if err != nil {
		return service.DashboardRequest{}, err
	}
	req.InstructorID = instructorID
	return req, nil
}
