package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/curalink/curalink-backend/internal/http/response"
	"github.com/curalink/curalink-backend/internal/services"
)

type LibraryHandler struct {
	libraryService services.LibraryService
}

func NewLibraryHandler(libraryService services.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

func searchParams(c *gin.Context) (string, int) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return c.Query("q"), limit
}

// GET /library/publications?q=<term>&limit=<n>
func (h *LibraryHandler) SearchPublications(c *gin.Context) {
	term, limit := searchParams(c)
	pubs, err := h.libraryService.SearchPublications(c.Request.Context(), term, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"publications": pubs})
}

// GET /library/trials?q=<term>&limit=<n>
func (h *LibraryHandler) SearchTrials(c *gin.Context) {
	term, limit := searchParams(c)
	trials, err := h.libraryService.SearchTrials(c.Request.Context(), term, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"trials": trials})
}
