package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/curalink/curalink-backend/internal/http/response"
	"github.com/curalink/curalink-backend/internal/services"
)

type AssistantHandler struct {
	assistantService services.AssistantService
}

func NewAssistantHandler(assistantService services.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// POST /assistant/faq
// body: { "question": "..." }
func (h *AssistantHandler) AnswerFAQ(c *gin.Context) {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errBadBody(err))
		return
	}
	answer, err := h.assistantService.AnswerFAQ(c.Request.Context(), req.Question)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"answer": answer})
}

// POST /assistant/spellcheck
// body: { "term": "..." }
func (h *AssistantHandler) CorrectSpelling(c *gin.Context) {
	var req struct {
		Term string `json:"term"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errBadBody(err))
		return
	}
	corrected, err := h.assistantService.CorrectSpelling(c.Request.Context(), req.Term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"term": corrected})
}
