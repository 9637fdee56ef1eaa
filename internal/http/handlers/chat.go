package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/curalink/curalink-backend/internal/http/response"
	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GET /chat?userId=<uuid>
// Returns the thread with that user and marks their messages read.
func (h *ChatHandler) GetThread(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	raw := c.Query("userId")
	if raw == "" {
		response.Error(c, apierr.Invalid("userId query parameter required"))
		return
	}
	counterpartID, err := parseUUID("userId", raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	thread, err := h.chatService.ListThread(c.Request.Context(), caller, counterpartID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"messages": thread})
}

// POST /chat
// body: { "receiverId": "<uuid>", "message": "..." }
func (h *ChatHandler) Send(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req struct {
		ReceiverID string `json:"receiverId"`
		Message    string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errBadBody(err))
		return
	}
	receiverID, err := parseUUID("receiverId", req.ReceiverID)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg, err := h.chatService.Send(c.Request.Context(), caller, receiverID, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": msg})
}

// PUT /chat
// No body. Returns the caller's conversation overview.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	convs, err := h.chatService.ListConversations(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"conversations": convs})
}
