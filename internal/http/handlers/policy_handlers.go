package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/healthrecords/domain"
)

// PolicyHandlers manages role policies under /api/admin/policies
type PolicyHandlers struct {
	policySvc domain.PolicyService
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policySvc domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policySvc: policySvc}
}

// List returns every policy row
func (h *PolicyHandlers) List(c *gin.Context) {
	policies, err := h.policySvc.GetPolicies()
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, policies)
}

// Add stores a policy row
func (h *PolicyHandlers) Add(c *gin.Context) {
	var req domain.Policy
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.policySvc.AddPolicy(req); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove deletes a policy row
func (h *PolicyHandlers) Remove(c *gin.Context) {
	var req domain.Policy
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.policySvc.RemovePolicy(req); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
