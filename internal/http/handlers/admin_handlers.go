package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/healthrecords/domain"
)

// AdminHandlers serves /api/admin reporting
type AdminHandlers struct {
	adminSvc domain.AdminService
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(adminSvc domain.AdminService) *AdminHandlers {
	return &AdminHandlers{adminSvc: adminSvc}
}

// Stats returns user and visit totals
func (h *AdminHandlers) Stats(c *gin.Context) {
	stats, err := h.adminSvc.GetStats(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
