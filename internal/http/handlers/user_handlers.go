package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/healthrecords/domain"
)

// UserHandlers exposes user management under /api/users
type UserHandlers struct {
	userSvc domain.UserService
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(userSvc domain.UserService) *UserHandlers {
	return &UserHandlers{userSvc: userSvc}
}

// Create registers a user
func (h *UserHandlers) Create(c *gin.Context) {
	var req domain.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// List returns all users, or only those with the role given in ?role=
func (h *UserHandlers) List(c *gin.Context) {
	var (
		users []*domain.UserResponse
		err   error
	)
	if role := c.Query("role"); role != "" {
		users, err = h.userSvc.GetUsersByRole(c.Request.Context(), role)
	} else {
		users, err = h.userSvc.GetAllUsers(c.Request.Context())
	}
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// Get returns one user
func (h *UserHandlers) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userSvc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update replaces a user's fields. An empty password keeps the stored one.
func (h *UserHandlers) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req domain.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userSvc.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes a user
func (h *UserHandlers) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.DeleteUser(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
