package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aryaminakshi71/helpdesk/internal/auth"
	"github.com/aryaminakshi71/helpdesk/internal/service"
	apperrors "github.com/aryaminakshi71/helpdesk/pkg/util"
)

// DashboardHandler serves organization analytics.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboardService}
}

// Metrics GET /dashboard/metrics.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	metrics, err := h.service.Metrics(c.Context(), principal.OrganizationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}
