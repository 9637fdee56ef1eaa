package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/curalink/curalink-backend/internal/platform/apierr"
	"github.com/curalink/curalink-backend/internal/platform/ctxutil"
)

func errBadBody(err error) *apierr.Error {
	return apierr.Invalidf("malformed request body: %v", err)
}

// callerID reads the authenticated user from the request context. RequireAuth
// guarantees it is set on protected routes.
func callerID(c *gin.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(c.Request.Context())
	if id == uuid.Nil {
		return uuid.Nil, apierr.Unauthenticated("no authenticated user")
	}
	return id, nil
}

func parseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.Invalid(fmt.Sprintf("%s must be a valid id", field))
	}
	return id, nil
}
