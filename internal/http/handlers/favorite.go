package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/curalink/curalink-backend/internal/domain"
	"github.com/curalink/curalink-backend/internal/http/response"
	"github.com/curalink/curalink-backend/internal/services"
)

type FavoriteHandler struct {
	favoriteService services.FavoriteService
}

func NewFavoriteHandler(favoriteService services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

type favoriteRequest struct {
	Kind   string `json:"kind"`
	ItemID string `json:"itemId"`
}

// GET /favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	buckets, err := h.favoriteService.List(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, buckets)
}

// POST /favorites
// body: { "kind": "experts" | "trials" | "publications", "itemId": "..." }
func (h *FavoriteHandler) Add(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errBadBody(err))
		return
	}
	if err := h.favoriteService.Add(c.Request.Context(), caller, domain.FavoriteKind(req.Kind), req.ItemID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}

// DELETE /favorites
func (h *FavoriteHandler) Remove(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errBadBody(err))
		return
	}
	if err := h.favoriteService.Remove(c.Request.Context(), caller, domain.FavoriteKind(req.Kind), req.ItemID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"ok": true})
}
