package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/http/response"
	"github.com/curalink/curalink-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /me
func (h *UserHandler) GetMe(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	me, err := h.userService.GetMe(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"me": me})
}

// PATCH /me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errBadBody(err))
		return
	}
	me, err := h.userService.UpdateProfile(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"me": me})
}

// POST /me/role
// body: { "role": "patient" | "researcher" }
func (h *UserHandler) SelectRole(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errBadBody(err))
		return
	}
	me, err := h.userService.SelectRole(c.Request.Context(), caller, domain.Role(req.Role))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"me": me})
}

// GET /researchers
func (h *UserHandler) ListResearchers(c *gin.Context) {
	researchers, err := h.userService.ListResearchers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"researchers": researchers})
}
