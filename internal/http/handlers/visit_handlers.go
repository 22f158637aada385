package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/healthrecords/domain"
)

// VisitHandlers exposes visit records under /api/visits
type VisitHandlers struct {
	visitSvc domain.VisitService
}

// NewVisitHandlers creates new visit handlers
func NewVisitHandlers(visitSvc domain.VisitService) *VisitHandlers {
	return &VisitHandlers{visitSvc: visitSvc}
}

// Create records a visit
func (h *VisitHandlers) Create(c *gin.Context) {
	var req domain.VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	visit, err := h.visitSvc.CreateVisit(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, visit)
}

// List returns every visit
func (h *VisitHandlers) List(c *gin.Context) {
	visits, err := h.visitSvc.GetAllVisits(c.Request.Context())
	h.respondList(c, visits, err)
}

// Get returns one visit
func (h *VisitHandlers) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	visit, err := h.visitSvc.GetVisitByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, visit)
}

// ByPatient returns a patient's visits
func (h *VisitHandlers) ByPatient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	visits, err := h.visitSvc.GetVisitsByPatientID(c.Request.Context(), id)
	h.respondList(c, visits, err)
}

// ByDoctor returns a doctor's visits
func (h *VisitHandlers) ByDoctor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	visits, err := h.visitSvc.GetVisitsByDoctorID(c.Request.Context(), id)
	h.respondList(c, visits, err)
}

// Delete removes a visit
func (h *VisitHandlers) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.visitSvc.DeleteVisit(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *VisitHandlers) respondList(c *gin.Context, visits []*domain.VisitResponse, err error) {
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, visits)
}
