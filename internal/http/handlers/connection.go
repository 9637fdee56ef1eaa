package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/curalink/curalink-backend/internal/http/response"
	"github.com/curalink/curalink-backend/internal/services"
)

type ConnectionHandler struct {
	connectionService services.ConnectionService
}

func NewConnectionHandler(connectionService services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// GET /connections
func (h *ConnectionHandler) List(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	views, err := h.connectionService.List(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"connections": views})
}

// POST /connections
// body: { "receiverId": "<uuid>" }
func (h *ConnectionHandler) Request(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req struct {
		ReceiverID string `json:"receiverId"`
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
	view, err := h.connectionService.Request(c.Request.Context(), caller, receiverID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"connection": view})
}

// PATCH /connections
// body: { "connectionId": "<uuid>", "action": "accept" | "reject" }
func (h *ConnectionHandler) Respond(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req struct {
		ConnectionID string `json:"connectionId"`
		Action       string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errBadBody(err))
		return
	}
	connectionID, err := parseUUID("connectionId", req.ConnectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.connectionService.Respond(c.Request.Context(), caller, connectionID, services.ConnectionAction(req.Action))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"connection": view})
}
