package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/services"
)

// Error writes the uniform failure shape. Duplicate-connection conflicts
// additionally echo the existing row's status so clients can distinguish
// "already pending" from "previously rejected".
func Error(c *gin.Context, err error) {
	ae := apierr.From(err)
	body := gin.H{"error": publicMessage(ae)}
	if status, ok := services.ExistingStatus(ae); ok {
		body["status"] = status
	}
	c.JSON(ae.Status, body)
}

func publicMessage(ae *apierr.Error) string {
	// Storage causes stay server-side; everything else is already a
	// client-facing message.
	if ae.Status == http.StatusInternalServerError {
		return "internal error"
	}
	return ae.Error()
}

func OK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}
