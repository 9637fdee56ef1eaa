package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/curalink/curalink-backend/internal/http/response"
	"github.com/curalink/curalink-backend/internal/realtime"
)

type RealtimeHandler struct {
	hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// GET /sse/stream
// Streams the caller's notification channel until the client disconnects.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	client := h.hub.NewClient(caller)
	h.hub.Subscribe(client, realtime.UserChannel(caller))
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
